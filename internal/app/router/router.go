package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	authhandler "videotube_backend/internal/feature/auth/transport/handler"
	channelhandler "videotube_backend/internal/feature/channel/transport/handler"
	profilehandler "videotube_backend/internal/feature/profile/transport/handler"
	healthhandler "videotube_backend/internal/platform/http/handler"
	jwtmw "videotube_backend/internal/platform/jwt"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Profile  *profilehandler.ProfileHandler
	Channel  *channelhandler.ChannelHandler
	Health   *healthhandler.HealthHandler
	Verifier jwtmw.AccessVerifier
}

// NewRouter builds the gin engine. With no allowed origins CORS accepts any
// origin but credentials are then not allowed by browsers.
func NewRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: len(allowedOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		corsCfg.AllowOrigins = allowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// health check
	r.Match([]string{"GET", "HEAD", "OPTIONS"}, "/healthz", h.Health.Health)

	users := r.Group("/api/v1/users")
	{
		users.POST("/register", h.Auth.Register)
		users.POST("/login", h.Auth.Login)
		users.POST("/refresh-token", h.Auth.RefreshAccessToken)
	}

	// routes below require a valid access token
	auth := users.Group("")
	auth.Use(jwtmw.AuthRequired(h.Verifier))
	{
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/change-password", h.Auth.ChangePassword)
		auth.GET("/current-user", h.Profile.GetCurrentUser)
		auth.PATCH("/update-account", h.Profile.UpdateAccountDetails)
		auth.PATCH("/avatar", h.Profile.UpdateAvatar)
		auth.PATCH("/cover-image", h.Profile.UpdateCoverImage)
		auth.GET("/c/:username", h.Channel.GetUserChannelProfile)
		auth.GET("/history", h.Channel.GetWatchHistory)
	}

	return r
}
