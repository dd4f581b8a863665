package notify

import (
	"context"

	"github.com/digireceipt/digireceipt-go/internal/crypto"
	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/otp"
)

// LocalVerifier stands in for Twilio in development: it generates codes
// itself, keeps them in an otp.Store and logs them instead of sending SMS.
type LocalVerifier struct {
	codes otp.Store
	log   logging.Logger
}

func NewLocalVerifier(codes otp.Store, log logging.Logger) *LocalVerifier {
	return &LocalVerifier{codes: codes, log: log}
}

func (v *LocalVerifier) SendCode(ctx context.Context, phone string) error {
	code, err := crypto.GenerateOTP()
	if err != nil {
		return err
	}
	if err := v.codes.Set(ctx, "sms:"+phone, code); err != nil {
		return err
	}
	v.log.Info(ctx, "sms verification code issued", "phone", phone, "code", code)
	return nil
}

func (v *LocalVerifier) CheckCode(ctx context.Context, phone, code string) (bool, error) {
	return v.codes.Validate(ctx, "sms:"+phone, code)
}

// LogMailer logs email codes when no SMTP relay is configured.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(ctx context.Context, email, code string) error {
	m.log.Info(ctx, "email otp issued", "email", email, "code", code)
	return nil
}
