// Package handler provides the HTTP handlers for the channel read views.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"videotube_backend/internal/api"
	"videotube_backend/internal/feature/channel/domain/entity"
	jwtmw "videotube_backend/internal/platform/jwt"
	"videotube_backend/internal/shared/apperror"
)

// ChannelUsecase defines the aggregated read operations.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type ChannelUsecase interface {
	// ChannelProfile returns the channel of username as seen by callerID.
	ChannelProfile(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error)
	// WatchHistory returns the caller's watched videos, never nil.
	WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error)
}

// ChannelHandler handles the channel profile and watch history endpoints.
type ChannelHandler struct {
	channels ChannelUsecase
}

// NewChannelHandler creates a ChannelHandler.
func NewChannelHandler(channels ChannelUsecase) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

// GetUserChannelProfile handles GET /c/:username.
func (h *ChannelHandler) GetUserChannelProfile(c *gin.Context) {
	callerID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		api.Error(c, apperror.Authentication("unauthorized request"))
		return
	}

	profile, err := h.channels.ChannelProfile(c.Request.Context(), c.Param("username"), callerID)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.Success(c, http.StatusOK, profile, "channel profile fetched successfully")
}

// GetWatchHistory handles GET /history.
func (h *ChannelHandler) GetWatchHistory(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		api.Error(c, apperror.Authentication("unauthorized request"))
		return
	}

	videos, err := h.channels.WatchHistory(c.Request.Context(), userID)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.Success(c, http.StatusOK, videos, "Watch history fetched successfully")
}
