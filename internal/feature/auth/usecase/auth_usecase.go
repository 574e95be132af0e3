package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"videotube_backend/internal/feature/auth/domain/entity"
	jwtmw "videotube_backend/internal/platform/jwt"
	"videotube_backend/internal/shared/apperror"
	"videotube_backend/internal/shared/validate"
)

// dummyHash is compared against when the user does not exist so lookups take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts user persistence for the auth usecase.
// Following Go convention, the interface is defined by the consumer (usecase), not the provider (adapter).
type UserRepository interface {
	// Create inserts a new user. Returns ErrUserAlreadyExists when the username or email is taken.
	Create(ctx context.Context, user *entity.User) error
	// ExistsByUsernameOrEmail reports whether either value is already registered.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// FindByEmailOrUsername returns the full record matching either value, or ErrUserNotFound.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
	// FindByID returns the full record including the password hash and refresh token.
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// FindPublicByID returns the sanitized projection, or ErrUserNotFound.
	FindPublicByID(ctx context.Context, id string) (*entity.PublicUser, error)
	// SetRefreshToken stores token as the user's only valid refresh token.
	SetRefreshToken(ctx context.Context, id, token string) error
	// ClearRefreshToken sets the stored refresh token to NULL.
	ClearRefreshToken(ctx context.Context, id string) error
	// RotateRefreshToken replaces oldToken with newToken only if oldToken is still stored.
	// Returns ErrRefreshTokenMismatch when another rotation or logout got there first.
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error
	// UpdatePassword stores a new bcrypt hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenIssuer signs and verifies token pairs.
type TokenIssuer interface {
	// IssueTokenPair signs a fresh access and refresh token for subject.
	IssueTokenPair(subject jwtmw.TokenSubject) (jwtmw.TokenPair, error)
	// VerifyRefreshToken checks signature and expiry and returns the user id it was issued to.
	VerifyRefreshToken(token string) (string, error)
}

// MediaUploader sends a staged file to the media host and returns its URL.
type MediaUploader interface {
	// Upload sends the file at localPath and returns its public URL. The local file is removed either way.
	Upload(ctx context.Context, localPath string) (string, error)
}

// RegisterInput is the registration form with the staged file paths.
type RegisterInput struct {
	FullName       string
	Username       string
	Email          string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginInput identifies the user by email or username.
type LoginInput struct {
	Email    string
	Username string
	Password string
}

// LoginResult is the sanitized user with a fresh token pair.
type LoginResult struct {
	User   *entity.PublicUser
	Tokens jwtmw.TokenPair
}

type authUsecase struct {
	users    UserRepository
	tokens   TokenIssuer
	uploader MediaUploader
}

// NewAuthUsecase creates the session usecase.
func NewAuthUsecase(users UserRepository, tokens TokenIssuer, uploader MediaUploader) *authUsecase {
	return &authUsecase{
		users:    users,
		tokens:   tokens,
		uploader: uploader,
	}
}

func validateRegistration(in RegisterInput) error {
	if in.FullName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return apperror.Validation("All fields are required")
	}
	rules := []func() error{
		func() error { return validate.Username(in.Username) },
		func() error { return validate.FullName(in.FullName) },
		func() error { return validate.Email(in.Email) },
		func() error { return validate.Password(in.Password) },
	}
	for _, rule := range rules {
		if err := rule(); err != nil {
			return err
		}
	}
	return nil
}

// Register creates an account after validating the form and uploading the avatar.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.PublicUser, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Password) == "" {
		in.Password = ""
	}

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	exists, err := u.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while registering the user", err)
	}
	if exists {
		return nil, apperror.Conflict("User with email or username already exists")
	}

	if in.AvatarPath == "" {
		return nil, apperror.Validation("Avatar file is required")
	}
	if _, err := os.Stat(in.AvatarPath); err != nil {
		slog.Warn("staged avatar missing", "path", in.AvatarPath, "error", err)
		return nil, apperror.Validation("Avatar file is missing or failed to upload.")
	}

	avatarURL, err := u.uploader.Upload(ctx, in.AvatarPath)
	if err != nil {
		return nil, apperror.Upload("Failed to upload avatar", err)
	}

	coverURL := ""
	if in.CoverImagePath != "" {
		if url, err := u.uploader.Upload(ctx, in.CoverImagePath); err != nil {
			slog.Warn("cover image upload failed, continuing without it", "error", err)
		} else {
			coverURL = url
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while registering the user", fmt.Errorf("failed to hash password: %w", err))
	}

	user := &entity.User{
		Username:   in.Username,
		Email:      in.Email,
		FullName:   in.FullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
		Password:   string(hashed),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return nil, apperror.Conflict("User with email or username already exists")
		}
		return nil, apperror.Internal("Something went wrong while registering the user", err)
	}

	created, err := u.users.FindPublicByID(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal("Something went wrong while registering the user", err)
	}
	return created, nil
}

// Login verifies credentials and issues a new token pair, replacing any stored refresh token.
func (u *authUsecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if email == "" && username == "" {
		return nil, apperror.Validation("email or username is required")
	}

	user, err := u.users.FindByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, apperror.Internal("Something went wrong", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(in.Password))

	if err != nil {
		return nil, apperror.NotFound("user does not exist")
	}
	if compareErr != nil {
		return nil, apperror.Authentication("Invalid user credentials")
	}

	pair, err := u.issue(user)
	if err != nil {
		return nil, err
	}
	if err := u.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperror.Internal("Something went wrong while generating refresh and access token", err)
	}

	return &LoginResult{User: user.Public(), Tokens: pair}, nil
}

// Logout revokes the caller's stored refresh token.
func (u *authUsecase) Logout(ctx context.Context, userID string) error {
	if err := u.users.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperror.NotFound("user does not exist")
		}
		return apperror.Internal("Something went wrong", err)
	}
	return nil
}

// RefreshAccessToken exchanges a still-current refresh token for a new pair.
// Every rejection carries the same message so stale and forged tokens look alike.
func (u *authUsecase) RefreshAccessToken(ctx context.Context, refreshToken string) (jwtmw.TokenPair, error) {
	if refreshToken == "" {
		return jwtmw.TokenPair{}, apperror.Authentication("unauthorized request")
	}

	invalid := func(cause error) error {
		return apperror.Wrap(apperror.KindAuthentication, "Invalid refresh token", cause)
	}

	userID, err := u.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return jwtmw.TokenPair{}, invalid(err)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return jwtmw.TokenPair{}, invalid(err)
		}
		return jwtmw.TokenPair{}, apperror.Internal("Something went wrong", err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return jwtmw.TokenPair{}, invalid(ErrRefreshTokenMismatch)
	}

	pair, err := u.issue(user)
	if err != nil {
		return jwtmw.TokenPair{}, err
	}
	if err := u.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, ErrRefreshTokenMismatch) {
			return jwtmw.TokenPair{}, invalid(err)
		}
		return jwtmw.TokenPair{}, apperror.Internal("Something went wrong while generating refresh and access token", err)
	}
	return pair, nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (u *authUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperror.NotFound("user does not exist")
		}
		return apperror.Internal("Something went wrong", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperror.Authentication("Invalid old password")
	}
	if err := validate.Password(newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("Something went wrong", fmt.Errorf("failed to hash password: %w", err))
	}
	if err := u.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return apperror.Internal("Something went wrong", err)
	}
	return nil
}

func (u *authUsecase) issue(user *entity.User) (jwtmw.TokenPair, error) {
	pair, err := u.tokens.IssueTokenPair(jwtmw.TokenSubject{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	})
	if err != nil {
		return jwtmw.TokenPair{}, apperror.Internal("Something went wrong while generating refresh and access token", err)
	}
	return pair, nil
}
