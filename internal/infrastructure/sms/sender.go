// Package sms delivers verification codes to phones. Two gateways are
// supported: the Magfa messaging API (the campaign's Iranian provider) and
// AWS SNS. The rest of the system only sees the Sender contract.
package sms

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a sender whose gateway settings are
// missing. Callers treat it differently from a delivery failure: the code
// was generated but cannot be delivered at all.
var ErrNotConfigured = errors.New("sms gateway not configured")

// Sender sends a text message to a single recipient.
type Sender interface {
	SendSMS(ctx context.Context, to, message string) error
}
