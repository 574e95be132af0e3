// Package handler provides the HTTP handlers for the profile feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"videotube_backend/internal/api"
	"videotube_backend/internal/feature/auth/domain/entity"
	"videotube_backend/internal/feature/profile/transport/http/dto"
	jwtmw "videotube_backend/internal/platform/jwt"
	"videotube_backend/internal/platform/upload"
	"videotube_backend/internal/shared/apperror"
)

// ProfileUsecase defines the operations on the caller's own account.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type ProfileUsecase interface {
	// GetCurrentUser returns the caller's sanitized record.
	GetCurrentUser(ctx context.Context, userID string) (*entity.PublicUser, error)
	// UpdateAccountDetails validates and stores a new full name and email.
	UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*entity.PublicUser, error)
	// UpdateAvatar uploads the staged file and stores its URL. An empty path means no file was sent.
	UpdateAvatar(ctx context.Context, userID, localPath string) (*entity.PublicUser, error)
	// UpdateCoverImage uploads the staged file and stores its URL. An empty path means no file was sent.
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*entity.PublicUser, error)
}

// FileStager copies a multipart field to local disk.
type FileStager interface {
	// StageFormFile returns the local path and a cleanup func. The path is empty when the field was not sent.
	StageFormFile(c *gin.Context, field string) (string, func(), error)
}

// ProfileHandler handles the authenticated profile endpoints.
type ProfileHandler struct {
	profile ProfileUsecase
	stager  FileStager
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profile ProfileUsecase, stager FileStager) *ProfileHandler {
	return &ProfileHandler{profile: profile, stager: stager}
}

// GetCurrentUser returns the caller's sanitized record.
func (h *ProfileHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		api.Error(c, apperror.Authentication("unauthorized request"))
		return
	}

	user, err := h.profile.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		api.Error(c, err)
		return
	}
	api.Success(c, http.StatusOK, user, "current user fetched successfully")
}

// UpdateAccountDetails changes the caller's full name and email.
func (h *ProfileHandler) UpdateAccountDetails(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		api.Error(c, apperror.Authentication("unauthorized request"))
		return
	}

	var req dto.UpdateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update account bind failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		api.Error(c, apperror.Validation("All fields are required"))
		return
	}

	user, err := h.profile.UpdateAccountDetails(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		api.Error(c, err)
		return
	}

	slog.Info("account details updated", "user_id", userID)
	api.Success(c, http.StatusOK, user, "Account updated successfully")
}

// UpdateAvatar replaces the caller's avatar with the "avatar" multipart field.
func (h *ProfileHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", "Avatar file is missing", h.profile.UpdateAvatar, "user avatar updated successfully")
}

// UpdateCoverImage replaces the caller's cover image with the "coverImage" multipart field.
func (h *ProfileHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", "coverImage file is missing", h.profile.UpdateCoverImage, "user coverImage updated successfully")
}

type imageUpdater func(ctx context.Context, userID, localPath string) (*entity.PublicUser, error)

func (h *ProfileHandler) updateImage(c *gin.Context, field, missingMsg string, update imageUpdater, okMsg string) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		api.Error(c, apperror.Authentication("unauthorized request"))
		return
	}

	path, cleanup, err := h.stager.StageFormFile(c, field)
	defer cleanup()
	if err != nil {
		if errors.Is(err, upload.ErrFileTooLarge) {
			api.Error(c, apperror.Validation("Uploaded file is too large"))
			return
		}
		api.Error(c, apperror.Wrap(apperror.KindValidation, missingMsg, err))
		return
	}

	user, err := update(c.Request.Context(), userID, path)
	if err != nil {
		api.Error(c, err)
		return
	}

	slog.Info("profile image updated", "field", field, "user_id", userID)
	api.Success(c, http.StatusOK, user, okMsg)
}
