// Package middleware holds the gin middleware chain shared by every route.
package middleware

import (
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyRequestID = "request_id"
	ctxKeyClaims    = "claims"
)

const HeaderRequestID = "X-Request-ID"

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

func ClaimsFrom(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(ctxKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	return claims, ok
}

// CallerFrom builds the service-layer caller from the authenticated claims.
func CallerFrom(c *gin.Context) (domain.Caller, bool) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return domain.Caller{}, false
	}
	return domain.Caller{
		UserID:    claims.UserID,
		Role:      claims.Role,
		StaffID:   claims.StaffID,
		PatientID: claims.PatientID,
		IP:        c.ClientIP(),
		RequestID: RequestIDFrom(c),
	}, true
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
