package domain

import "time"

// OTPRecord is the one active verification code for a phone number.
// Keyed by phone, so there is at most one record per phone; an expired record
// is overwritten on the next request, never reused.
// ExpiresAt is a Unix timestamp used as the DynamoDB TTL attribute, so stale
// records the flow never touches again still get cleaned up.
type OTPRecord struct {
	Phone     string    `json:"phone" dynamodbav:"phone"`
	Code      string    `json:"code" dynamodbav:"code"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// Age returns how long ago the record was issued.
func (r *OTPRecord) Age(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}
