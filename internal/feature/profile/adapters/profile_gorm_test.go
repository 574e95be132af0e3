package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"videotube_backend/internal/feature/auth/domain/entity"
	"videotube_backend/internal/feature/profile/usecase"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *entity.User {
	t.Helper()
	u := &entity.User{
		Username: username,
		Email:    email,
		FullName: "Seed User",
		Avatar:   "https://cdn.example.com/old.png",
		Password: "hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestProfileGorm_UpdateAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileGorm(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	seedUser(t, db, "bobby", "bobby@example.com")
	ctx := context.Background()

	require.NoError(t, repo.UpdateAccount(ctx, alice.ID, "Alice Updated", "alice2@example.com"))

	got, err := repo.FindPublicByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", got.FullName)
	assert.Equal(t, "alice2@example.com", got.Email)

	err = repo.UpdateAccount(ctx, alice.ID, "Alice Updated", "bobby@example.com")
	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)

	err = repo.UpdateAccount(ctx, "missing", "Nobody Here", "nobody@example.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestProfileGorm_EmailTakenByOther(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileGorm(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	seedUser(t, db, "bobby", "bobby@example.com")

	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"own email", "alice@example.com", false},
		{"other user's email", "bobby@example.com", true},
		{"free email", "carol@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken, err := repo.EmailTakenByOther(context.Background(), tt.email, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, taken)
		})
	}
}

func TestProfileGorm_UpdateImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileGorm(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	ctx := context.Background()

	require.NoError(t, repo.UpdateAvatar(ctx, alice.ID, "https://cdn.example.com/new.png"))
	require.NoError(t, repo.UpdateCoverImage(ctx, alice.ID, "https://cdn.example.com/cover.png"))

	got, err := repo.FindPublicByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new.png", got.Avatar)
	assert.Equal(t, "https://cdn.example.com/cover.png", got.CoverImage)

	assert.ErrorIs(t, repo.UpdateAvatar(ctx, "missing", "x"), usecase.ErrUserNotFound)
	_, err = repo.FindPublicByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}
