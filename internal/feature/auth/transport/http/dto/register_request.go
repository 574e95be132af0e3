// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq is the text part of the multipart registration form.
// Files are read separately from the "avatar" and "coverImage" fields.
// Field rules are enforced in order by the usecase, so no binding tags here.
type RegisterReq struct {
	FullName string `form:"fullName"`
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}
