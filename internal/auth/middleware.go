package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"loantrack/internal/config"
	"loantrack/internal/db"
	"loantrack/internal/user"
)

const principalKey = "principal"

// Principal is the authenticated identity resolved from a request credential
// plus a fresh user lookup.
type Principal struct {
	ID         string
	Email      string
	Role       user.Role
	IsApproved bool
}

// EffectivelyApproved: admins count as approved regardless of the flag.
func (p Principal) EffectivelyApproved() bool {
	return p.IsApproved || p.Role == user.RoleAdmin
}

func unauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"message": msg, "code": "UNAUTHENTICATED"},
	})
}

func forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error":   gin.H{"message": msg, "code": "FORBIDDEN"},
	})
}

// Middleware authenticates the Bearer token and resolves the principal. The
// user row is re-fetched on every request so deleting a user or changing its
// role takes effect without waiting for token expiry. When rdb is non-nil the
// token must also match the stored session (logout revocation).
func Middleware(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthenticated(c, "Access token mangler")
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ParseJWT(cfg.Server.JWTSecret, tokenStr)
		if err != nil {
			unauthenticated(c, "Ugyldig token")
			return
		}
		if rdb != nil {
			sessionToken, err := GetSession(rdb, claims.UserID)
			if err != nil || sessionToken != tokenStr {
				unauthenticated(c, "Sesjonen er utløpt")
				return
			}
		}
		var u user.User
		if err := db.DB.First(&u, "id = ?", claims.UserID).Error; err != nil {
			unauthenticated(c, "Bruker ikke funnet")
			return
		}
		c.Set(principalKey, Principal{
			ID:         u.ID,
			Email:      u.Email,
			Role:       u.Role,
			IsApproved: u.IsApproved,
		})
		c.Next()
	}
}

// RequireAdmin gates a route on the ADMIN role. Must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			unauthenticated(c, "Ikke autentisert")
			return
		}
		if p.Role != user.RoleAdmin {
			forbidden(c, "Krever admin tilgang")
			return
		}
		c.Next()
	}
}

// RequireApproved gates a route on approved-borrower standing. Must run after
// Middleware.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			unauthenticated(c, "Ikke autentisert")
			return
		}
		if !p.EffectivelyApproved() {
			forbidden(c, "Du må være godkjent som låntaker for å utføre denne handlingen")
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal attached by Middleware.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// SetPrincipalForTest attaches a principal directly (test helper).
func SetPrincipalForTest(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}
