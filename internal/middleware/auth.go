package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"facturas/internal/domain"
	"facturas/internal/service"
)

// Keys under which AuthMiddleware stores the caller.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
	ContextKeyClaims = "claims"
)

const (
	msgMissingToken = "Falta el token de acceso"
	msgInvalidToken = "La sesión venció o el token no es válido"
	msgNoRole       = "No se pudo determinar el rol del usuario"
	msgForbidden    = "Su rol no permite esta operación"
)

// AuthMiddleware accepts requests carrying a valid access token and stores
// the caller under the ContextKey* keys.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", msgMissingToken)
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil || claims.UserID == uuid.Nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", msgInvalidToken)
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller has one of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		switch {
		case role == "":
			abort(c, http.StatusForbidden, "FORBIDDEN", msgNoRole)
		case !slices.Contains(roles, domain.UserRole(role)):
			abort(c, http.StatusForbidden, "FORBIDDEN", msgForbidden)
		default:
			c.Next()
		}
	}
}

// GetUserID returns the authenticated user's id, or ErrUnauthorized when the
// request did not pass AuthMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	id, ok := c.Value(ContextKeyUserID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// GetRole returns the caller's role, or "" when none is set.
func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// abort writes the same error envelope the handlers use.
func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}
