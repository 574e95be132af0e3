package dto

import "videotube_backend/internal/feature/auth/domain/entity"

// LoginReq identifies the user by email or username.
type LoginReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// LoginRes is returned on a successful login.
type LoginRes struct {
	User         *entity.PublicUser `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}
