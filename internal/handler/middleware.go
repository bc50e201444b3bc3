package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tisk/backend/internal/db"
	"github.com/tisk/backend/internal/model"
	"github.com/tisk/backend/internal/service"
	"github.com/tisk/backend/internal/token"
)

const authAccountKey = "auth_account"

// AuthMiddleware verifies the Bearer access token, then re-reads the account
// so a suspension takes effect immediately instead of at token expiry.
func AuthMiddleware(codec *token.Codec, store service.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, err := codec.DecodeAccess(tokenStr)
		if err != nil {
			status := "unauthorized"
			if errors.Is(err, token.ErrTokenExpired) {
				status = "token expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": status})
			c.Abort()
			return
		}

		acct, err := store.GetAccountByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			if db.IsNotFound(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			}
			c.Abort()
			return
		}

		if acct.Status == model.StatusSuspended {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account suspended"})
			c.Abort()
			return
		}

		c.Set(authAccountKey, acct)
		c.Next()
	}
}

func GetAuthAccount(c *gin.Context) *model.Account {
	if value, ok := c.Get(authAccountKey); ok {
		if acct, ok := value.(*model.Account); ok {
			return acct
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
