package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videotube_backend/internal/feature/channel/domain/entity"
	"videotube_backend/internal/shared/apperror"
)

type mockChannelRepository struct {
	ChannelProfileFunc func(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error)
	WatchHistoryFunc   func(ctx context.Context, userID string) ([]entity.WatchedVideo, error)
}

func (m *mockChannelRepository) ChannelProfile(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error) {
	return m.ChannelProfileFunc(ctx, username, callerID)
}

func (m *mockChannelRepository) WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
	return m.WatchHistoryFunc(ctx, userID)
}

func TestChannelUsecase_ChannelProfile(t *testing.T) {
	t.Run("lowercases the username", func(t *testing.T) {
		var gotUsername, gotCaller string
		repo := &mockChannelRepository{ChannelProfileFunc: func(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error) {
			gotUsername, gotCaller = username, callerID
			return &entity.ChannelProfile{Username: username, IsSubscribed: true}, nil
		}}
		uc := NewChannelUsecase(repo)

		p, err := uc.ChannelProfile(context.Background(), " Alice ", "u2")

		require.NoError(t, err)
		assert.Equal(t, "alice", gotUsername)
		assert.Equal(t, "u2", gotCaller)
		assert.True(t, p.IsSubscribed)
	})

	tests := []struct {
		name     string
		username string
		repoErr  error
		kind     apperror.Kind
		message  string
	}{
		{"blank username", "  ", nil, apperror.KindValidation, "username is missing"},
		{"unknown channel", "nobody", ErrChannelNotFound, apperror.KindNotFound, "channel does not exists"},
		{"storage failure", "alice", errors.New("db down"), apperror.KindInternal, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockChannelRepository{ChannelProfileFunc: func(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error) {
				return nil, tt.repoErr
			}}
			uc := NewChannelUsecase(repo)

			_, err := uc.ChannelProfile(context.Background(), tt.username, "u1")

			var appErr *apperror.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestChannelUsecase_WatchHistory(t *testing.T) {
	t.Run("nil result becomes empty", func(t *testing.T) {
		repo := &mockChannelRepository{WatchHistoryFunc: func(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
			return nil, nil
		}}

		videos, err := NewChannelUsecase(repo).WatchHistory(context.Background(), "u1")

		require.NoError(t, err)
		assert.NotNil(t, videos)
		assert.Empty(t, videos)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := &mockChannelRepository{WatchHistoryFunc: func(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
			return nil, ErrUserNotFound
		}}

		_, err := NewChannelUsecase(repo).WatchHistory(context.Background(), "ghost")

		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}
