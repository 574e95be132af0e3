package dto

// RefreshReq carries the refresh token when no cookie is sent.
type RefreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshRes is the rotated token pair.
type RefreshRes struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
