package handler

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	jwtmw "videotube_backend/internal/platform/jwt"
)

// CookieConfig controls the session cookies. MaxAge values mirror the token lifetimes.
type CookieConfig struct {
	Secure        bool
	Domain        string
	SameSite      http.SameSite
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// LoadCookieConfigFromEnv reads COOKIE_SECURE, COOKIE_DOMAIN and COOKIE_SAMESITE.
// Secure stays on unless COOKIE_SECURE is explicitly "false".
func LoadCookieConfigFromEnv() CookieConfig {
	return CookieConfig{
		Secure:   !strings.EqualFold(os.Getenv("COOKIE_SECURE"), "false"),
		Domain:   os.Getenv("COOKIE_DOMAIN"),
		SameSite: parseSameSite(os.Getenv("COOKIE_SAMESITE")),
	}
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(jwtmw.AccessTokenCookie, accessToken, int(h.cookies.AccessMaxAge.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(jwtmw.RefreshTokenCookie, refreshToken, int(h.cookies.RefreshMaxAge.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(jwtmw.AccessTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(jwtmw.RefreshTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
}
