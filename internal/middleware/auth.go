package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"school-payments-backend/internal/auth"
	"school-payments-backend/internal/models"
)

// SessionCookie is the name of the HttpOnly cookie carrying the signed
// session token.
const SessionCookie = "session"

const (
	guardianIDKey = "guardian_id"
	roleKey       = "guardian_role"
)

// GuardianID extracts the authenticated guardian id placed in the
// request context by RequireAuth.
func GuardianID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(guardianIDKey).(uuid.UUID)
	return id
}

// RequireAuth validates the session cookie and stores the guardian
// identity in the request context. Requests without a valid token get
// a 401.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		claims, err := tokens.Validate(cookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		guardianID, err := uuid.Parse(claims.GuardianID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		c.Set(guardianIDKey, guardianID)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.MustGet(roleKey).(string)
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Acceso prohibido: requiere permisos de administrador",
			})
			return
		}
		c.Next()
	}
}
