package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"expenso/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgInternal        = "internal server error"
	msgInvalidID       = "invalid id"
	msgTokenRequired   = "access token required"
	msgInvalidToken    = "invalid or expired token"
	msgInvalidCategory = "invalid category"
	msgNotFound        = "not found"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Message string `json:"message" example:"invalid category"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

func abortWithMessage(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, errorResponse{Message: msg})
}

// writeError maps service errors onto HTTP statuses. Unknown errors become a
// bare 500; their detail only reaches the log under logKey.
func (h *Handler) writeError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithMessage(c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "))
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidCategory):
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		abortWithMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortWithMessage(c, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrInvalidToken):
		abortWithMessage(c, http.StatusForbidden, msgInvalidToken)
	default:
		if h.log != nil {
			fields := append([]interface{}{"err", err, "request_id", c.GetString(ctxRequestID)}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		abortWithMessage(c, http.StatusInternalServerError, msgInternal)
	}
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		abortWithMessage(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return false
	}
	return true
}

// pathID parses the :id param. Non-positive or non-numeric ids are rejected with 400.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		abortWithMessage(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}
