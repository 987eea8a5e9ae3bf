package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID    = "userId"
	ctxEmail     = "email"
	ctxRequestID = "requestId"

	headerRequestID = "X-Request-ID"
)

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// userIdMiddleware rejects requests without a valid bearer token. A missing or
// malformed header is 401, a token that fails verification is 403. Nothing
// downstream runs on rejection.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		abortWithMessage(c, http.StatusUnauthorized, msgTokenRequired)
		return
	}
	h.authenticate(c, token)
}

// wsAuthMiddleware also accepts ?token= since browsers cannot set headers on
// a WebSocket upgrade.
func (h *Handler) wsAuthMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = strings.TrimSpace(c.Query("token"))
	}
	if token == "" {
		abortWithMessage(c, http.StatusUnauthorized, msgTokenRequired)
		return
	}
	h.authenticate(c, token)
}

func (h *Handler) authenticate(c *gin.Context, token string) {
	id, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		abortWithMessage(c, http.StatusForbidden, msgInvalidToken)
		return
	}

	// store in Gin context
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxEmail, id.Email)
	c.Next()
}

// userID returns the verified caller. Only valid behind the auth middleware.
func userID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}

// requestIDMiddleware reuses an incoming X-Request-ID or generates one.
func requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(headerRequestID)
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(headerRequestID, id)
	c.Next()
}

func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}

	status := c.Writer.Status()
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"latency", time.Since(start),
		"request_id", c.GetString(ctxRequestID),
	}
	if uid := c.GetInt(ctxUserID); uid > 0 {
		fields = append(fields, "user_id", uid)
	}

	switch {
	case status >= http.StatusInternalServerError:
		h.log.Errorw("http_request", fields...)
	case status >= http.StatusBadRequest:
		h.log.Warnw("http_request", fields...)
	default:
		h.log.Infow("http_request", fields...)
	}
}

// recoveryMiddleware turns panics into the standard 500 body.
func (h *Handler) recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		if h.log != nil {
			h.log.Errorw("http_panic", "panic", rec, "path", c.Request.URL.Path, "request_id", c.GetString(ctxRequestID))
		}
		abortWithMessage(c, http.StatusInternalServerError, msgInternal)
	})
}
