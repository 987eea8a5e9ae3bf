package handlers

import (
	"net/http"

	"expenso/internal/models"
	"expenso/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required" example:"Alice"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// @Summary      Register
// @Description  Creates an account, seeds the default categories and returns a token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      registerRequest  true  "account"
// @Success      201    {object}  authResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.Register(c.Request.Context(), service.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		h.writeError(c, "auth_register_failed", err, "email", input.Email)
		return
	}

	if h.log != nil {
		h.log.Infow("auth_registered", "user_id", res.User.ID)
	}
	c.JSON(http.StatusCreated, authResponse{Message: "User created successfully", Token: res.Token, User: res.User})
}

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      loginRequest  true  "credentials"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  errorResponse  "invalid credentials"
// @Failure      500    {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.writeError(c, "auth_sign_in_failed", err, "email", input.Email)
		return
	}

	c.JSON(http.StatusOK, authResponse{Message: "Login successful", Token: res.Token, User: res.User})
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	u, err := h.services.Me(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, "auth_me_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, u)
}
