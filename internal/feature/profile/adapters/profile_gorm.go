// Package adapters provides the gorm implementation of the profile repository.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"videotube_backend/internal/feature/auth/domain/entity"
	"videotube_backend/internal/feature/profile/usecase"
	platformdb "videotube_backend/internal/platform/db"
)

type profileGorm struct {
	db *gorm.DB
}

var _ usecase.ProfileRepository = (*profileGorm)(nil)

// NewProfileGorm creates a repository over the users table.
func NewProfileGorm(db *gorm.DB) *profileGorm {
	return &profileGorm{db: db}
}

// FindPublicByID selects only the public columns.
func (r *profileGorm) FindPublicByID(ctx context.Context, id string) (*entity.PublicUser, error) {
	var u entity.PublicUser
	err := r.db.WithContext(ctx).Select(entity.PublicColumns).Where("id = ?", id).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EmailTakenByOther counts users with email other than userID.
func (r *profileGorm) EmailTakenByOther(ctx context.Context, email, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ? AND id <> ?", email, userID).
		Count(&count).Error
	return count > 0, err
}

// UpdateAccount updates full_name and email in one statement.
func (r *profileGorm) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	return r.update(ctx, id, map[string]any{"full_name": fullName, "email": email})
}

// UpdateAvatar updates the avatar column.
func (r *profileGorm) UpdateAvatar(ctx context.Context, id, url string) error {
	return r.update(ctx, id, map[string]any{"avatar": url})
}

// UpdateCoverImage updates the cover_image column.
func (r *profileGorm) UpdateCoverImage(ctx context.Context, id, url string) error {
	return r.update(ctx, id, map[string]any{"cover_image": url})
}

// update maps unique violations to ErrEmailAlreadyExists and zero affected rows to ErrUserNotFound.
func (r *profileGorm) update(ctx context.Context, id string, columns map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		if platformdb.IsUniqueViolation(res.Error) {
			return usecase.ErrEmailAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
