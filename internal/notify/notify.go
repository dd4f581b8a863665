// Package notify delivers OTP codes through external providers: SMS
// verification via Twilio Verify, and email via an SMTP relay.
package notify

import (
	"context"
	"errors"
)

var (
	ErrVerificationRejected = errors.New("verification was not started by the provider")
)

// SMSVerifier delegates both code generation and validation to an external
// verification service.
type SMSVerifier interface {
	SendCode(ctx context.Context, phone string) error
	CheckCode(ctx context.Context, phone, code string) (bool, error)
}

// Mailer sends locally generated codes by email.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// callWithContext runs fn, returning early with ctx.Err() if ctx is done
// before fn completes. fn keeps running in the background in that case.
func callWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}
