package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mood-journal/internal/auth"
	"github.com/BruksfildServices01/mood-journal/internal/config"
	"github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/httperr"
)

const ContextUserID = "userID"

// AuthMiddleware resolves the bearer token into ContextUserID. A missing
// header passes through anonymously; a present but invalid token is always
// rejected. Pair it with RequireActor where a user is mandatory.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Invalid Authorization header.")
			c.Abort()
			return
		}

		userID, err := auth.ParseToken(cfg.SecretKey, strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Given token not valid.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// Actor returns the caller resolved by AuthMiddleware.
func Actor(c *gin.Context) journal.Actor {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return journal.Actor{}
	}
	id, ok := v.(uint)
	if !ok {
		return journal.Actor{}
	}
	return journal.Actor{UserID: &id}
}

// RequireActor rejects requests that AuthMiddleware did not resolve to a user.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Actor(c).Authenticated() {
			httperr.Unauthorized(c, "not_authenticated", "Authentication credentials were not provided.")
			c.Abort()
			return
		}
		c.Next()
	}
}
