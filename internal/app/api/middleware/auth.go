package middleware

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/response"
)

// AuthMiddleware verifies an HS256 bearer token issued by the auth backend and stores its
// subject as the caller's user id. Every request is rejected when secret is empty.
func AuthMiddleware(secret string, base *zap.SugaredLogger) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	return func(c *gin.Context) {
		log := logctx.FromGin(c, base)
		if secret == "" {
			log.Errorw("auth_secret_not_configured", "path", c.FullPath())
			abortUnauthorized(c, "authentication unavailable")
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil {
			log.Warnw("jwt_validation_failed", "err", err, "path", c.FullPath())
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		if claims.Subject == "" {
			abortUnauthorized(c, "token has no subject")
			return
		}

		c.Set(logctx.UserIDKey, claims.Subject)
		ctx := context.WithValue(c.Request.Context(), logctx.UserIDKey, claims.Subject) //nolint:staticcheck
		c.Request = c.Request.WithContext(ctx)
		setLogger(c, log.With("user_id", claims.Subject))

		c.Next()
	}
}

// UserID returns the caller authenticated by AuthMiddleware, or "".
func UserID(c *gin.Context) string {
	return c.GetString(logctx.UserIDKey)
}

// AdminTokenMiddleware guards admin routes with a static X-Admin-Token. Every request is
// rejected when token is empty.
func AdminTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, "admin token required"))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", fmt.Sprintf("Bearer error=%q", "invalid_token"))
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, msg))
}
