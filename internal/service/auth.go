package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/digireceipt/digireceipt-go/internal/crypto"
	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/notify"
	"github.com/digireceipt/digireceipt-go/internal/oauth"
	"github.com/digireceipt/digireceipt-go/internal/otp"
	"github.com/digireceipt/digireceipt-go/internal/repository"
)

const (
	MsgCodeSentToEmail = "OTP kodu e-posta adresine gönderildi"
	MsgCodeSentToPhone = "OTP kodu telefon numarasına gönderildi"
)

// UserStore is the persistence the account services need.
type UserStore interface {
	Create(ctx context.Context, user *model.User, profile *model.Profile) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetToken(ctx context.Context, id int64, token *string) error
	SetPassword(ctx context.Context, id int64, hash string) error
	SetPhone(ctx context.Context, id int64, phone string) error
	Delete(ctx context.Context, id int64) error
}

// GoogleClient resolves a Google access token to the account behind it.
type GoogleClient interface {
	UserInfo(ctx context.Context, accessToken string) (oauth.UserInfo, error)
}

// AuthService handles sign up, login, session and credential changes.
type AuthService struct {
	users  UserStore
	codes  otp.Store
	sms    notify.SMSVerifier
	mailer notify.Mailer
	google GoogleClient
	tokens crypto.TokenConfig
	log    logging.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users UserStore,
	codes otp.Store,
	sms notify.SMSVerifier,
	mailer notify.Mailer,
	google GoogleClient,
	tokens crypto.TokenConfig,
	log logging.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		codes:  codes,
		sms:    sms,
		mailer: mailer,
		google: google,
		tokens: tokens,
		log:    log,
	}
}

// Signup starts phone registration by sending a verification SMS.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) error {
	if req.PhoneNumber == "" {
		return ErrPhoneRequired
	}

	_, err := s.users.GetByPhone(ctx, req.PhoneNumber)
	switch {
	case err == nil:
		return ErrUserExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return err
	}

	if err := s.sms.SendCode(ctx, req.PhoneNumber); err != nil {
		return providerError(ErrOTPDelivery, err)
	}

	s.log.Info(ctx, "signup otp sent")
	return nil
}

// CreateAccount verifies the signup code and creates the user with an
// empty profile.
func (s *AuthService) CreateAccount(ctx context.Context, req model.CreateAccountRequest) error {
	if req.PhoneNumber == "" {
		return ErrPhoneRequired
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}
	if err := s.checkSMS(ctx, req.PhoneNumber, req.OTPCode); err != nil {
		return err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &model.User{PhoneNumber: &req.PhoneNumber, PasswordHash: &hash}
	if err := s.users.Create(ctx, user, &model.Profile{}); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return ErrUserExists
		}
		return err
	}

	s.log.Info(ctx, "user created", "user_id", user.ID)
	return nil
}

// Login checks phone and password and starts a new session.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	user, err := s.users.GetByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnknownPhone
		}
		return "", err
	}
	if !user.HasPassword() {
		return "", ErrWrongPassword
	}

	match, err := crypto.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrWrongPassword
	}

	return s.issueToken(ctx, user)
}

// GoogleLogin signs in with a Google access token, creating the user on
// first login.
func (s *AuthService) GoogleLogin(ctx context.Context, req model.GoogleLoginRequest) (string, error) {
	if req.AccessToken == "" {
		return "", ErrInvalidGoogleToken
	}

	info, err := s.google.UserInfo(ctx, req.AccessToken)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidAccessToken) {
			return "", ErrInvalidGoogleToken
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrProviderTimeout, err)
		}
		return "", fmt.Errorf("fetching google userinfo: %w", err)
	}
	if info.Email == "" {
		return "", ErrInvalidGoogleToken
	}

	user, err := s.users.GetByEmail(ctx, info.Email)
	if err == nil {
		s.log.Info(ctx, "google user logged in", "user_id", user.ID)
		return s.issueToken(ctx, user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return "", err
	}

	guid := info.Subject
	if guid == "" {
		guid = uuid.NewString()
	}
	user = &model.User{Email: &info.Email, GUID: &guid}
	profile := &model.Profile{}

	if err := s.users.Create(ctx, user, profile); err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return "", err
		}
		// A concurrent first login won the insert.
		if user, err = s.users.GetByEmail(ctx, info.Email); err != nil {
			return "", err
		}
	}

	s.log.Info(ctx, "google user created", "user_id", user.ID)
	return s.issueToken(ctx, user)
}

// PasswordReset sends a reset code by email when an email is given and by
// SMS otherwise. It returns the confirmation message for the channel used.
func (s *AuthService) PasswordReset(ctx context.Context, req model.PasswordResetRequest) (string, error) {
	switch {
	case req.Email != "":
		if _, err := s.users.GetByEmail(ctx, req.Email); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return "", ErrEmailNotRegistered
			}
			return "", err
		}

		code, err := crypto.GenerateOTP()
		if err != nil {
			return "", err
		}
		if err := s.mailer.SendOTP(ctx, req.Email, code); err != nil {
			return "", providerError(ErrEmailDelivery, err)
		}
		if err := s.codes.Set(ctx, emailCodeKey(req.Email), code); err != nil {
			return "", err
		}
		return MsgCodeSentToEmail, nil

	case req.Phone != "":
		if _, err := s.users.GetByPhone(ctx, req.Phone); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return "", ErrPhoneNotRegistered
			}
			return "", err
		}

		if err := s.sms.SendCode(ctx, req.Phone); err != nil {
			return "", providerError(ErrOTPDelivery, err)
		}
		return MsgCodeSentToPhone, nil
	}

	return "", ErrResetKeyRequired
}

// VerifyPasswordReset checks a reset code and, on success, grants one
// password change for the same email or phone.
func (s *AuthService) VerifyPasswordReset(ctx context.Context, req model.PasswordResetVerifyRequest) error {
	if req.Code == "" || (req.Email == "" && req.Phone == "") {
		return ErrResetVerifyRequired
	}

	key := req.Email
	if key != "" {
		ok, err := s.codes.Validate(ctx, emailCodeKey(req.Email), req.Code)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidOTP
		}
	} else {
		key = req.Phone
		if err := s.checkSMS(ctx, req.Phone, req.Code); err != nil {
			return err
		}
	}

	return s.codes.Grant(ctx, key)
}

// CompletePasswordReset sets a new password for the user matched by email
// or phone. A prior VerifyPasswordReset for the same key is required.
func (s *AuthService) CompletePasswordReset(ctx context.Context, req model.PasswordResetCompleteRequest) error {
	if req.EmailOrPhone == "" {
		return ErrUserNotFound
	}
	if req.NewPassword == "" {
		return ErrPasswordRequired
	}

	matchedByEmail := true
	user, err := s.users.GetByEmail(ctx, req.EmailOrPhone)
	if errors.Is(err, repository.ErrUserNotFound) {
		matchedByEmail = false
		user, err = s.users.GetByPhone(ctx, req.EmailOrPhone)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if matchedByEmail && !user.HasPassword() {
		return ErrNoPasswordSet
	}

	granted, err := s.codes.ConsumeGrant(ctx, req.EmailOrPhone)
	if err != nil {
		return err
	}
	if !granted {
		return ErrResetNotVerified
	}

	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return err
	}

	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// ChangePhone sends a verification code to the new number of the user
// currently registered under the old one.
func (s *AuthService) ChangePhone(ctx context.Context, req model.ChangePhoneRequest) error {
	if _, err := s.users.GetByPhone(ctx, req.OldPhoneNumber); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrPhoneNotFound
		}
		return err
	}
	return s.sendPhoneChangeCode(ctx, req.NewPhoneNumber)
}

// ChangePhoneFor is the authenticated variant of ChangePhone.
func (s *AuthService) ChangePhoneFor(ctx context.Context, user *model.User, req model.ChangePhoneRequest) error {
	if !user.HasPhone() {
		return ErrNotPhoneUser
	}
	return s.sendPhoneChangeCode(ctx, req.NewPhoneNumber)
}

// VerifyChangePhone checks the code sent to the new number and moves the
// user registered under the old number to it.
func (s *AuthService) VerifyChangePhone(ctx context.Context, req model.ChangePhoneVerifyRequest) error {
	if req.NewPhoneNumber == "" {
		return ErrPhoneRequired
	}
	if err := s.checkSMS(ctx, req.NewPhoneNumber, req.OTPCode); err != nil {
		return err
	}

	user, err := s.users.GetByPhone(ctx, req.OldPhoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.users.SetPhone(ctx, user.ID, req.NewPhoneNumber); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return ErrPhoneTaken
		}
		return err
	}

	s.log.Info(ctx, "phone number changed", "user_id", user.ID)
	return nil
}

// Logout ends the session that token belongs to.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenRequired
	}

	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	return s.users.SetToken(ctx, user.ID, nil)
}

// Authenticate resolves a bearer token to its user. The token must be
// validly signed, unexpired and still the user's active session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := crypto.ValidateToken(token, s.tokens)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.Token == nil || *user.Token != token {
		return nil, ErrInvalidToken
	}

	return user, nil
}

// ChangePassword replaces the password of a password-based user.
func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, req model.ChangePasswordRequest) error {
	if !user.HasPassword() {
		return ErrNotPasswordUser
	}
	if req.NewPassword != req.NewPasswordConfirm {
		return ErrPasswordMismatch
	}
	if req.NewPassword == "" {
		return ErrPasswordRequired
	}
	return s.setPassword(ctx, user.ID, req.NewPassword)
}

// DeleteAccount removes the user and everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, user *model.User) error {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.log.Info(ctx, "account deleted", "user_id", user.ID)
	return nil
}

// issueToken signs a new token and stores it as the user's only session.
func (s *AuthService) issueToken(ctx context.Context, user *model.User) (string, error) {
	token, err := crypto.GenerateToken(user.ID, s.tokens)
	if err != nil {
		return "", err
	}
	if err := s.users.SetToken(ctx, user.ID, &token); err != nil {
		return "", err
	}
	user.Token = &token
	return token, nil
}

func (s *AuthService) sendPhoneChangeCode(ctx context.Context, phone string) error {
	if phone == "" {
		return ErrPhoneRequired
	}
	if err := s.sms.SendCode(ctx, phone); err != nil {
		return providerError(ErrOTPDelivery, err)
	}
	return nil
}

// checkSMS validates a code with the SMS verifier. Provider failures other
// than a timeout count as a rejected code.
func (s *AuthService) checkSMS(ctx context.Context, phone, code string) error {
	if code == "" {
		return ErrInvalidOTP
	}

	ok, err := s.sms.CheckCode(ctx, phone, code)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
		}
		s.log.Warn(ctx, "sms code check failed", "error", err)
		return ErrInvalidOTP
	}
	if !ok {
		return ErrInvalidOTP
	}
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, id int64, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, id, hash)
}

func hashPassword(password string) (string, error) {
	hash, err := crypto.HashPassword(password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return hash, err
}

func emailCodeKey(email string) string {
	return "email:" + email
}
