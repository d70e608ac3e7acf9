package middleware

import (
	"net/http"

	"helpdesk/internal/domain"
	"helpdesk/internal/repositories"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth validates the X-API-Key header against the API key table.
// Unknown keys get 401, known-but-disabled keys get 403.
func APIKeyAuth(keys repositories.APIKeyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		k, err := keys.Lookup(c.Request.Context(), key)
		if domain.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth check failed"})
			return
		}
		if !k.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "API key is not active"})
			return
		}
		c.Next()
	}
}
