// Package otp stores locally generated one-time codes keyed by the address
// they were sent to (email or phone), plus the short-lived grants written
// once a password-reset code has been verified.
package otp

import "context"

// Store is the OTP key-value store. Set overwrites any previous code for the
// key. Validate does not consume the code; it stays valid until it expires
// or is overwritten.
type Store interface {
	Set(ctx context.Context, key, code string) error
	Validate(ctx context.Context, key, code string) (bool, error)

	// Grant records that key passed OTP verification.
	Grant(ctx context.Context, key string) error
	// ConsumeGrant reports whether key holds a grant and removes it.
	ConsumeGrant(ctx context.Context, key string) (bool, error)
}
