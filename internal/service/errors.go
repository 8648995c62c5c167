package service

import "restaurantadmin/internal/apperr"

var (
	ErrDuplicateEmail         = apperr.Conflict("Email Already Exists")
	ErrInvalidActivationCode  = apperr.BadRequest("Invalid Activation Code")
	ErrMissingCredentials     = apperr.BadRequest("Please Enter Email and Password")
	ErrInvalidCredentials     = apperr.Unauthorized("Invalid Email or Password")
	ErrRefreshInvalid         = apperr.Unauthorized("Could not refresh token")
	ErrPasswordFieldsRequired = apperr.BadRequest("Password fields are required")
	ErrInvalidUser            = apperr.BadRequest("Invalid User")
	ErrOldPasswordMismatch    = apperr.BadRequest("Old password does not match")
	ErrLoginRequired          = apperr.Unauthorized("Please login to access this resource")
	ErrAvatarRequired         = apperr.BadRequest("Avatar image is required")
	ErrUnsupportedAvatar      = apperr.BadRequest("Avatar must be a JPEG, PNG, GIF or WEBP image")
)
