package dto

// UpdateAccountReq is the body of PATCH /update-account.
type UpdateAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
