package model

import "time"

// User is an identity record. Phone users carry PhoneNumber and
// PasswordHash; OAuth users carry Email and GUID. Token holds the single
// active session.
type User struct {
	ID           int64
	PhoneNumber  *string
	PasswordHash *string
	Email        *string
	GUID         *string
	Token        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasPhone reports whether the user registered with a phone number.
func (u *User) HasPhone() bool {
	return u.PhoneNumber != nil && *u.PhoneNumber != ""
}

type SignupRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type CreateAccountRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	OTPCode     string `json:"otpCode"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type GoogleLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

type PasswordResetRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type PasswordResetVerifyRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
	Code  string `json:"code"`
}

type PasswordResetCompleteRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	NewPassword  string `json:"newPassword"`
}

type ChangePhoneRequest struct {
	OldPhoneNumber string `json:"oldPhoneNumber"`
	NewPhoneNumber string `json:"newPhoneNumber"`
}

type ChangePhoneVerifyRequest struct {
	OldPhoneNumber string `json:"oldPhoneNumber"`
	NewPhoneNumber string `json:"newPhoneNumber"`
	OTPCode        string `json:"otpCode"`
}

type ChangePasswordRequest struct {
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
