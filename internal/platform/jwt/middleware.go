package jwtmw

import (
	"strings"

	"github.com/gin-gonic/gin"

	"videotube_backend/internal/api"
	"videotube_backend/internal/shared/apperror"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id (string).
	ContextUserID = "userID"
	// ContextClaims is the gin context key holding the verified *AccessClaims.
	ContextClaims = "accessClaims"

	// AccessTokenCookie is the cookie carrying the access token.
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie is the cookie carrying the refresh token.
	RefreshTokenCookie = "refreshToken"
)

// AccessVerifier verifies access tokens.
type AccessVerifier interface {
	// VerifyAccessToken checks signature, algorithm and expiry and returns the claims.
	VerifyAccessToken(token string) (*AccessClaims, error)
}

// AuthRequired returns a Gin middleware that validates the access token
// and restricts access to authenticated users only.
// The token is read from the accessToken cookie first, then from the Authorization header.
func AuthRequired(verifier AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractAccessToken(c)
		if tokenStr == "" {
			api.Abort(c, apperror.Authentication("Unauthorized request"))
			return
		}

		claims, err := verifier.VerifyAccessToken(tokenStr)
		if err != nil {
			api.Abort(c, apperror.Wrap(apperror.KindAuthentication, "Invalid Access Token", err))
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	if v, err := c.Cookie(AccessTokenCookie); err == nil && v != "" {
		return v
	}
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// UserIDFrom returns the authenticated user id set by AuthRequired.
func UserIDFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
