package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"facturas/internal/logger"
	"facturas/internal/service"
)

// AuthHandler serves login and token refresh.
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/v1/auth/login. The email is matched
// case-insensitively.
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Ingrese un email válido y una contraseña de al menos 8 caracteres")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	tokens, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		logger.Ctx(c.Request.Context()).Info().Err(err).Str("email", input.Email).Msg("login rejected")
		HandleError(c, err)
		return
	}
	RespondOK(c, tokens)
}

// RefreshToken handles POST /api/v1/auth/refresh.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Falta el refresh_token")
		return
	}

	tokens, err := h.auth.RefreshToken(c.Request.Context(), strings.TrimSpace(input.RefreshToken))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tokens)
}
