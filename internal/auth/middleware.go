package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	dom "github.com/FrozenSaturn/todo-react-native/internal/domain"
)

const contextKeyUser = "current_user"

// UserResolver maps a verified token subject back to an account.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
}

// CurrentUser returns the user set by RequireToken. Zero value if not set.
func CurrentUser(c *gin.Context) dom.User {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}
	}
	u, ok := v.(dom.User)
	if !ok {
		return dom.User{}
	}
	return u
}

// UserIDFromContext returns the current user ID set by RequireToken. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	return CurrentUser(c).ID
}

// RequireToken returns a middleware that verifies the Authorization
// bearer token and resolves its subject to a user. A valid token whose
// user no longer exists gets the same 401 as a bad token, so the
// response never confirms whether an account exists.
func RequireToken(tokens *Tokens, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		email, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		user, err := users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
