package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

const (
	statusPending  = "pending"
	statusApproved = "approved"
)

// verifyAPI is the subset of the Twilio Verify v2 client used here.
type verifyAPI interface {
	CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error)
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	ServiceSID string
	Timeout    time.Duration
}

// TwilioVerifier sends and checks SMS codes through Twilio Verify.
type TwilioVerifier struct {
	api        verifyAPI
	serviceSID string
	timeout    time.Duration
}

func NewTwilioVerifier(cfg TwilioConfig) *TwilioVerifier {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{Client: newTwilioClient(cfg)})
	return &TwilioVerifier{
		api:        rest.VerifyV2,
		serviceSID: cfg.ServiceSID,
		timeout:    cfg.Timeout,
	}
}

// newTwilioClient bounds every REST call by cfg.Timeout so a request
// abandoned by callWithContext does not linger. Redirects are not followed,
// matching the SDK default client.
func newTwilioClient(cfg TwilioConfig) *client.Client {
	c := &client.Client{
		Credentials: client.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	c.SetAccountSid(cfg.AccountSID)
	return c
}

// SendCode starts an SMS verification; the provider must report it pending.
func (v *TwilioVerifier) SendCode(ctx context.Context, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	resp, err := callWithContext(ctx, func() (*verify.VerifyV2Verification, error) {
		return v.api.CreateVerification(v.serviceSID, params)
	})
	if err != nil {
		return err
	}
	if resp == nil || resp.Status == nil || *resp.Status != statusPending {
		return ErrVerificationRejected
	}
	return nil
}

// CheckCode reports whether the provider approved code for phone.
func (v *TwilioVerifier) CheckCode(ctx context.Context, phone, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	resp, err := callWithContext(ctx, func() (*verify.VerifyV2VerificationCheck, error) {
		return v.api.CreateVerificationCheck(v.serviceSID, params)
	})
	if err != nil {
		return false, err
	}
	return resp != nil && resp.Status != nil && *resp.Status == statusApproved, nil
}
