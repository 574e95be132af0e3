package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"videotube_backend/internal/feature/auth/domain/entity"
	"videotube_backend/internal/shared/apperror"
	"videotube_backend/internal/shared/validate"
)

// ProfileRepository abstracts the profile columns of the users table.
type ProfileRepository interface {
	// FindPublicByID returns the sanitized projection, or ErrUserNotFound.
	FindPublicByID(ctx context.Context, id string) (*entity.PublicUser, error)
	// EmailTakenByOther reports whether a user other than userID owns email.
	EmailTakenByOther(ctx context.Context, email, userID string) (bool, error)
	// UpdateAccount sets full name and email. Returns ErrEmailAlreadyExists on a uniqueness race.
	UpdateAccount(ctx context.Context, id, fullName, email string) error
	// UpdateAvatar stores the avatar URL.
	UpdateAvatar(ctx context.Context, id, url string) error
	// UpdateCoverImage stores the cover image URL.
	UpdateCoverImage(ctx context.Context, id, url string) error
}

// MediaUploader sends a staged file to the media host and returns its URL.
type MediaUploader interface {
	// Upload sends the file at localPath and returns its public URL.
	Upload(ctx context.Context, localPath string) (string, error)
}

// ChannelCacheInvalidator drops cached channel views of a user.
type ChannelCacheInvalidator interface {
	// InvalidateChannel drops the cached profiles of username for every caller.
	InvalidateChannel(ctx context.Context, username string) error
}

type profileUsecase struct {
	users    ProfileRepository
	uploader MediaUploader
	cache    ChannelCacheInvalidator
}

// NewProfileUsecase creates the profile usecase. cache may be nil.
func NewProfileUsecase(users ProfileRepository, uploader MediaUploader, cache ChannelCacheInvalidator) *profileUsecase {
	return &profileUsecase{users: users, uploader: uploader, cache: cache}
}

// GetCurrentUser returns the caller's sanitized record.
func (u *profileUsecase) GetCurrentUser(ctx context.Context, userID string) (*entity.PublicUser, error) {
	return u.load(ctx, userID)
}

// UpdateAccountDetails changes the caller's full name and email.
func (u *profileUsecase) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*entity.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, apperror.Validation("All fields are required")
	}
	if err := validate.FullName(fullName); err != nil {
		return nil, err
	}
	if err := validate.Email(email); err != nil {
		return nil, err
	}

	taken, err := u.users.EmailTakenByOther(ctx, email, userID)
	if err != nil {
		return nil, apperror.Internal("Something went wrong", err)
	}
	if taken {
		return nil, apperror.Conflict("Email is already in use")
	}

	if err := u.users.UpdateAccount(ctx, userID, fullName, email); err != nil {
		return nil, u.updateError(err)
	}
	return u.reloadAndInvalidate(ctx, userID)
}

// UpdateAvatar uploads a new avatar and stores its URL.
func (u *profileUsecase) UpdateAvatar(ctx context.Context, userID, localPath string) (*entity.PublicUser, error) {
	if localPath == "" {
		return nil, apperror.Validation("Avatar file is missing")
	}
	url, err := u.uploader.Upload(ctx, localPath)
	if err != nil {
		return nil, apperror.Upload("Error while uploading on avatar", err)
	}
	if err := u.users.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, u.updateError(err)
	}
	return u.reloadAndInvalidate(ctx, userID)
}

// UpdateCoverImage uploads a new cover image and stores its URL.
func (u *profileUsecase) UpdateCoverImage(ctx context.Context, userID, localPath string) (*entity.PublicUser, error) {
	if localPath == "" {
		return nil, apperror.Validation("coverImage file is missing")
	}
	url, err := u.uploader.Upload(ctx, localPath)
	if err != nil {
		return nil, apperror.Upload("Error while uploading on cover image", err)
	}
	if err := u.users.UpdateCoverImage(ctx, userID, url); err != nil {
		return nil, u.updateError(err)
	}
	return u.reloadAndInvalidate(ctx, userID)
}

func (u *profileUsecase) load(ctx context.Context, userID string) (*entity.PublicUser, error) {
	user, err := u.users.FindPublicByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NotFound("user does not exist")
		}
		return nil, apperror.Internal("Something went wrong", err)
	}
	return user, nil
}

func (u *profileUsecase) reloadAndInvalidate(ctx context.Context, userID string) (*entity.PublicUser, error) {
	user, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.cache != nil {
		if err := u.cache.InvalidateChannel(ctx, user.Username); err != nil {
			slog.Warn("channel cache invalidation failed", "user_id", userID, "error", err)
		}
	}
	return user, nil
}

func (u *profileUsecase) updateError(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return apperror.NotFound("user does not exist")
	case errors.Is(err, ErrEmailAlreadyExists):
		return apperror.Conflict("Email is already in use")
	default:
		return apperror.Internal("Something went wrong", err)
	}
}
