package usecase

import (
	"context"
	"errors"
	"strings"

	"videotube_backend/internal/feature/channel/domain/entity"
	"videotube_backend/internal/shared/apperror"
)

// ChannelRepository reads the aggregated channel views.
type ChannelRepository interface {
	// ChannelProfile aggregates the channel of username with counts and the caller's subscription flag.
	// Returns ErrChannelNotFound when no user has that username.
	ChannelProfile(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error)
	// WatchHistory returns the user's watched videos in history order, each with its owner or nil.
	// Returns ErrUserNotFound when the user is gone.
	WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error)
}

type channelUsecase struct {
	repo ChannelRepository
}

// NewChannelUsecase creates the channel read usecase.
func NewChannelUsecase(repo ChannelRepository) *channelUsecase {
	return &channelUsecase{repo: repo}
}

// ChannelProfile returns the channel of username as seen by callerID.
func (u *channelUsecase) ChannelProfile(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validation("username is missing")
	}

	profile, err := u.repo.ChannelProfile(ctx, strings.ToLower(username), callerID)
	if err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			return nil, apperror.NotFound("channel does not exists")
		}
		return nil, apperror.Internal("Something went wrong", err)
	}
	return profile, nil
}

// WatchHistory returns the caller's watched videos in history order.
func (u *channelUsecase) WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
	videos, err := u.repo.WatchHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NotFound("user does not exist")
		}
		return nil, apperror.Internal("Something went wrong", err)
	}
	if videos == nil {
		videos = []entity.WatchedVideo{}
	}
	return videos, nil
}
