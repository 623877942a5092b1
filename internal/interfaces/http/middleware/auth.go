// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
)

const (
	principalKey      = "principal"
	AccessTokenCookie = "accessToken"
)

// Authenticator resolves an access token to the calling account
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Principal, error)
}

// RequireAuth rejects requests without a valid access token, taken from the
// Authorization header or the accessToken cookie.
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(AccessTokenCookie)
		token := auth.ExtractToken(c.GetHeader("Authorization"), cookie)

		principal, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// RequireAdmin ensures the authenticated caller is an admin. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			_ = c.Error(apperror.Unauthenticated("Unauthorized request"))
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			_ = c.Error(apperror.Forbidden("Access denied: Admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the caller stored by RequireAuth
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
