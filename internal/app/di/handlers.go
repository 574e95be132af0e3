package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"videotube_backend/internal/app/config"
	"videotube_backend/internal/app/router"
	authadapters "videotube_backend/internal/feature/auth/adapters"
	authhandler "videotube_backend/internal/feature/auth/transport/handler"
	authusecase "videotube_backend/internal/feature/auth/usecase"
	channelhandler "videotube_backend/internal/feature/channel/transport/handler"
	channelusecase "videotube_backend/internal/feature/channel/usecase"
	profileadapters "videotube_backend/internal/feature/profile/adapters"
	profilehandler "videotube_backend/internal/feature/profile/transport/handler"
	profileusecase "videotube_backend/internal/feature/profile/usecase"
	platformdb "videotube_backend/internal/platform/db"
	healthhandler "videotube_backend/internal/platform/http/handler"
	jwtmw "videotube_backend/internal/platform/jwt"
	platformredis "videotube_backend/internal/platform/redis"
	"videotube_backend/internal/platform/upload"
)

// Uploader sends a staged file to the media host.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Deps are the process-wide resources the handlers are built from. Redis may be nil.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Uploader Uploader
	Stager   *upload.Stager
}

// NewHandlers wires repositories, usecases and handlers.
func NewHandlers(cfg *config.Config, deps Deps) router.Handlers {
	tokens := jwtmw.NewTokenService(cfg.JWT)

	// Repository
	userRepo := authadapters.NewUserGorm(deps.DB)
	profileRepo := profileadapters.NewProfileGorm(deps.DB)
	channelRepo := NewChannelRepository(deps.Redis, deps.DB, cfg.ChannelCacheTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, deps.Uploader)
	profileUC := profileusecase.NewProfileUsecase(profileRepo, deps.Uploader, channelRepo)
	channelUC := channelusecase.NewChannelUsecase(channelRepo)

	pingers := map[string]healthhandler.Pinger{"database": platformdb.NewPinger(deps.DB)}
	if deps.Redis != nil {
		pingers["redis"] = platformredis.NewPinger(deps.Redis)
	}

	return router.Handlers{
		Auth:     authhandler.NewAuthHandler(authUC, deps.Stager, cfg.Cookies),
		Profile:  profilehandler.NewProfileHandler(profileUC, deps.Stager),
		Channel:  channelhandler.NewChannelHandler(channelUC),
		Health:   healthhandler.NewHealthHandler(pingers),
		Verifier: tokens,
	}
}
