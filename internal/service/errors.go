package service

import (
	"context"
	"errors"
	"fmt"
)

// Error texts are returned to clients verbatim.
var (
	ErrPhoneRequired       = errors.New("Geçerli bir telefon numarası girilmedi.")
	ErrPasswordRequired    = errors.New("Şifre boş olamaz.")
	ErrPasswordTooLong     = errors.New("Şifre en fazla 72 bayt olabilir.")
	ErrUserExists          = errors.New("Kullanıcı zaten kayıtlı")
	ErrInvalidOTP          = errors.New("Geçersiz OTP kodu")
	ErrResetKeyRequired    = errors.New("Telefon numarası veya e-posta adresi sağlanmalı")
	ErrResetVerifyRequired = errors.New("OTP kodu ve telefon veya e-posta bilgisi sağlanmalı")
	ErrResetNotVerified    = errors.New("Şifre sıfırlama için önce OTP kodu doğrulanmalı")
	ErrEmailNotRegistered  = errors.New("Bu mail adresine kayıtlı kullanıcı bulunmamaktadır")
	ErrPhoneNotRegistered  = errors.New("Bu telefon numarasına kayıtlı kullanıcı bulunmamaktadır")
	ErrNoPasswordSet       = errors.New("Kullanıcının şifre alanı boş, şifre güncellenemedi")
	ErrNotPasswordUser     = errors.New("Bu kullanıcı şifre kullanarak giriş yapmamıştır.")
	ErrNotPhoneUser        = errors.New("Bu kullanıcı telefon kullanarak giriş yapmamıştır.")
	ErrPasswordMismatch    = errors.New("Yeni şifre ve onay şifresi eşleşmiyor.")
	ErrInvalidGoogleToken  = errors.New("Geçersiz Google access token.")
	ErrTokenRequired       = errors.New("Geçersiz token")
	ErrPhoneTaken          = errors.New("Bu telefon numarası başka bir kullanıcıya kayıtlı")
	ErrEmailTaken          = errors.New("Bu e-posta adresi başka bir kullanıcıya kayıtlı")
	ErrPromptRequired      = errors.New("Prompt boş olamaz.")
	ErrImageRequired       = errors.New("Resim dosyası bulunamadı")
)

var (
	ErrUnknownPhone  = errors.New("Lütfen geçerli bir telefon numarası giriniz")
	ErrWrongPassword = errors.New("Hatalı şifre girdiniz. Lütfen tekrar deneyiniz")
	ErrInvalidToken  = errors.New("Geçersiz token")
)

var (
	ErrUserNotFound    = errors.New("Kullanıcı bulunamadı")
	ErrPhoneNotFound   = errors.New("Telefon numarası bulunamadı")
	ErrReceiptNotFound = errors.New("Fiş bulunamadı")
)

var (
	ErrOTPDelivery     = errors.New("OTP gönderilemedi")
	ErrEmailDelivery   = errors.New("OTP e-posta ile gönderilemedi")
	ErrAnalysisFailed  = errors.New("Analiz yapılamadı.")
	ErrOCRFailed       = errors.New("OCR işlemi sırasında hata oluştu.")
	ErrProviderTimeout = errors.New("Servis yanıt vermedi, lütfen tekrar deneyiniz.")
)

// providerError classifies a failed provider call, keeping the cause in the chain.
func providerError(kind, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}
