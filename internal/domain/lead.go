package domain

import "time"

// Lead is a captured registration record, written once when the player
// finishes the game. Phone is the partition key, which is also what enforces
// phone uniqueness at insert time.
type Lead struct {
	Phone     string    `json:"phone" dynamodbav:"phone"`
	LeadID    string    `json:"id" dynamodbav:"lead_id"`
	FirstName string    `json:"first_name" dynamodbav:"first_name"`
	LastName  string    `json:"last_name" dynamodbav:"last_name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Date      time.Time `json:"date" dynamodbav:"date"`          // game completion, client-supplied or defaulted
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"` // persistence timestamp
}

// SubmitLeadRequest is the registration payload sent on game completion.
// Date is an optional RFC3339 timestamp; the server fills in the current time
// when it is absent.
type SubmitLeadRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required,ir_mobile"`
	Email     string `json:"email"`
	Date      string `json:"date"`
}
