// Package adapters provides the repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"videotube_backend/internal/feature/auth/domain/entity"
	"videotube_backend/internal/feature/auth/usecase"
	platformdb "videotube_backend/internal/platform/db"
)

// userGorm is the gorm implementation of usecase.UserRepository.
type userGorm struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a repository over the users table.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts u. A duplicate username or email yields usecase.ErrUserAlreadyExists.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if platformdb.IsUniqueViolation(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// ExistsByUsernameOrEmail reports whether any user holds username or email.
func (r *userGorm) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByEmailOrUsername matches on whichever of email and username is non-empty.
func (r *userGorm) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	q := r.db.WithContext(ctx)
	switch {
	case email != "" && username != "":
		q = q.Where("email = ? OR username = ?", email, username)
	case email != "":
		q = q.Where("email = ?", email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		return nil, usecase.ErrUserNotFound
	}

	var u entity.User
	if err := q.First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID loads the full user record, credentials included.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindPublicByID loads only the sanitized columns.
func (r *userGorm) FindPublicByID(ctx context.Context, id string) (*entity.PublicUser, error) {
	var u entity.PublicUser
	err := r.db.WithContext(ctx).
		Select(entity.PublicColumns).
		Where("id = ?", id).
		Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SetRefreshToken overwrites the stored refresh token.
func (r *userGorm) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.updateColumn(ctx, id, "refresh_token", token)
}

// ClearRefreshToken sets the stored refresh token to NULL.
func (r *userGorm) ClearRefreshToken(ctx context.Context, id string) error {
	return r.updateColumn(ctx, id, "refresh_token", gorm.Expr("NULL"))
}

// RotateRefreshToken replaces oldToken with newToken only if oldToken is still the stored value.
func (r *userGorm) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND refresh_token = ?", id, oldToken).
		Update("refresh_token", newToken)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrRefreshTokenMismatch
	}
	return nil
}

// UpdatePassword stores a new password hash.
func (r *userGorm) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateColumn(ctx, id, "password", passwordHash)
}

func (r *userGorm) updateColumn(ctx context.Context, id, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
