package middleware

import (
	"errors"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/authz"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticate requires a valid access token and stores its claims on the context.
func Authenticate(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := jwtManager.ValidateAccessToken(raw)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			abort(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

// RequirePermission checks the caller's role against the casbin policy.
func RequirePermission(a *authz.Authorizer, log *zap.Logger, res authz.Resource, act authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		allowed, err := a.Authorize(claims.Role, res, act)
		if err != nil {
			log.Error("authorization check failed", zap.Error(err))
			abort(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if !allowed {
			log.Warn("permission denied",
				zap.String("user_id", claims.UserID.String()),
				zap.String("role", string(claims.Role)),
				zap.String("resource", string(res)),
				zap.String("action", string(act)),
				zap.String("request_id", RequestIDFrom(c)),
			)
			abort(c, http.StatusForbidden, "access denied")
			return
		}
		c.Next()
	}
}
