package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ownerIDKey = "owner_id"

// Middleware пускает дальше только запросы с валидным Bearer-токеном
func Middleware(verifier *Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c)
			return
		}

		ownerID, err := verifier.OwnerID(strings.TrimSpace(token))
		if err != nil {
			logger.Debug("rejected bearer token", zap.String("path", c.FullPath()), zap.Error(err))
			abortUnauthorized(c)
			return
		}

		SetOwnerID(c, ownerID)
		c.Next()
	}
}

func SetOwnerID(c *gin.Context, ownerID string) {
	c.Set(ownerIDKey, ownerID)
}

// OwnerID достает владельца, установленного Middleware
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerIDKey)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": "Missing or invalid bearer token",
	})
}
