// Package authiface describes the shape of the external authentication
// collaborator (HTTP routing, JWT issuance/verification, OTP delivery) that
// this repository does not implement. It exists so the core services can
// accept a caller identity and so the external layer's token shape is a real,
// typed dependency of this module rather than an assumption — no handler,
// router, or token verification logic lives here.
package authiface

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT claims shape an external auth layer is expected to issue
// and verify. Kept here so the core and the (out-of-scope) HTTP layer agree
// on one type.
type Claims struct {
	UserID int64  `json:"user_id"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the caller identity a request-scoped context carries once an
// external layer has authenticated it.
type Identity struct {
	UserID int64
	Phone  string
	Role   string
}

type identityKey struct{}

// WithIdentity attaches an authenticated Identity to ctx, for core services
// that need the acting user (e.g. a broadcast's author, a report's
// submitter) without depending on how authentication happened.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the Identity attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// OTPSender delivers a one-time-password code synchronously (message_type
// OTP_VERIFICATION). outbox.LogFileMessageSender and outbox.TwilioSMSSender
// implement it by sending directly, without going through the outbox table.
// No verification or rate-limiting logic lives here.
type OTPSender interface {
	SendOTP(ctx context.Context, phone, code string, validity time.Duration) error
}
