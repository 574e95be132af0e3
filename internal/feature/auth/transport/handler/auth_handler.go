// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"videotube_backend/internal/api"
	"videotube_backend/internal/feature/auth/domain/entity"
	"videotube_backend/internal/feature/auth/transport/http/dto"
	"videotube_backend/internal/feature/auth/usecase"
	jwtmw "videotube_backend/internal/platform/jwt"
	"videotube_backend/internal/platform/upload"
	"videotube_backend/internal/shared/apperror"
)

// AuthUsecase defines the session operations.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	// Register validates the form, uploads the images and creates the user.
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.PublicUser, error)
	// Login checks credentials and issues a token pair whose refresh half is stored.
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	// Logout clears the stored refresh token.
	Logout(ctx context.Context, userID string) error
	// RefreshAccessToken exchanges a valid, still stored refresh token for a new pair.
	RefreshAccessToken(ctx context.Context, refreshToken string) (jwtmw.TokenPair, error)
	// ChangePassword replaces the password after checking the old one.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// FileStager copies a multipart field to local disk.
type FileStager interface {
	// StageFormFile returns the local path and a cleanup func. The path is empty when the field was not sent.
	StageFormFile(c *gin.Context, field string) (string, func(), error)
}

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	auth    AuthUsecase
	stager  FileStager
	cookies CookieConfig
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase, stager FileStager, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, stager: stager, cookies: cookies}
}

// Register handles the multipart registration form.
// Staged files are always removed before the handler returns.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("register bind failed", "error", err, "remote_addr", c.ClientIP())
		api.Error(c, apperror.Validation("All fields are required"))
		return
	}

	avatarPath, cleanupAvatar, err := h.stager.StageFormFile(c, "avatar")
	defer cleanupAvatar()
	if err != nil {
		api.Error(c, stagingError(err, "Avatar file is missing or failed to upload."))
		return
	}

	coverPath, cleanupCover, err := h.stager.StageFormFile(c, "coverImage")
	defer cleanupCover()
	if err != nil {
		slog.Warn("cover image staging failed, continuing without it", "error", err, "remote_addr", c.ClientIP())
		coverPath = ""
	}

	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		FullName:       req.FullName,
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		api.Error(c, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	api.Success(c, http.StatusCreated, user, "User registered successfully")
}

// Login authenticates by email or username and sets the session cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		api.Error(c, apperror.Validation("password is required"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		api.Error(c, err)
		return
	}

	h.setSessionCookies(c, res.Tokens.AccessToken, res.Tokens.RefreshToken)
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	api.Success(c, http.StatusOK, dto.LoginRes{
		User:         res.User,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}, "User logged In Successfully")
}

// Logout revokes the stored refresh token and clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		api.Error(c, apperror.Authentication("unauthorized request"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		api.Error(c, err)
		return
	}

	h.clearSessionCookies(c)
	slog.Info("user logged out", "user_id", userID, "remote_addr", c.ClientIP())
	api.Success(c, http.StatusOK, nil, "User logged Out")
}

// RefreshAccessToken rotates the token pair. The token comes from the cookie, else the JSON body.
func (h *AuthHandler) RefreshAccessToken(c *gin.Context) {
	token, err := c.Cookie(jwtmw.RefreshTokenCookie)
	if err != nil || token == "" {
		var req dto.RefreshReq
		if c.Request.ContentLength != 0 {
			if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
				slog.Warn("refresh body bind failed", "error", bindErr, "remote_addr", c.ClientIP())
			}
		}
		token = req.RefreshToken
	}

	pair, err := h.auth.RefreshAccessToken(c.Request.Context(), token)
	if err != nil {
		api.Error(c, err)
		return
	}

	h.setSessionCookies(c, pair.AccessToken, pair.RefreshToken)
	api.Success(c, http.StatusOK, dto.RefreshRes{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

// ChangePassword replaces the caller's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		api.Error(c, apperror.Authentication("unauthorized request"))
		return
	}

	var req dto.ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("change password validation failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		api.Error(c, apperror.Validation("oldPassword and newPassword are required"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		api.Error(c, err)
		return
	}

	slog.Info("password changed", "user_id", userID, "remote_addr", c.ClientIP())
	api.Success(c, http.StatusOK, nil, "Password changed successfully")
}

func stagingError(err error, fallback string) error {
	if errors.Is(err, upload.ErrFileTooLarge) {
		return apperror.Validation("Uploaded file is too large")
	}
	return apperror.Wrap(apperror.KindValidation, fallback, err)
}
