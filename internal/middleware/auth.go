package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vtuber_wiki/internal/auth"
	"vtuber_wiki/internal/logger"
)

// 存放於 gin.Context 的呼叫者資訊
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// AuthMiddleware 要求有效的 Bearer token，驗證交給外部身分提供者。
// 驗證失敗時直接回傳 401，不會執行後續的 handler。
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		// scheme 不分大小寫
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, auth.ErrProviderUnavailable) {
				logger.FromContext(c.Request.Context()).Error("identity provider unavailable", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status": http.StatusInternalServerError,
					"error":  "Unable to verify credentials",
				})
				return
			}
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, identity.Subject)
		c.Set(ContextUserRole, identity.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="vtuber-wiki"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status": http.StatusUnauthorized,
		"error":  message,
	})
}
