package dto

import "mytube/domain/model"

// ReqSignUp is the auth-overlay sign-up form.
type ReqSignUp struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ReqSignIn is the auth-overlay sign-in form.
type ReqSignIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResAuth is returned by successful sign-in/sign-up.
type ResAuth struct {
	Session *model.Session `json:"session"`
	Profile *model.Profile `json:"profile,omitempty"`
}
