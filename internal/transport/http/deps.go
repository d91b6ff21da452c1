package http

import (
	"github.com/abramad/crisis-game-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/abramad/crisis-game-api/internal/infrastructure/jwt"
	s3infra "github.com/abramad/crisis-game-api/internal/infrastructure/s3"
	"github.com/abramad/crisis-game-api/internal/infrastructure/sms"
	"github.com/abramad/crisis-game-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
// SMSSender, Mailer, S3Store and JWTProvider may be nil; the affected
// features degrade (no delivery, no notification, no export, no admin
// surface) without taking the game flow down.
type Deps struct {
	OTPRepo     *dynamo.OTPRepo
	LeadRepo    *dynamo.LeadRepo
	SMSSender   sms.Sender
	Mailer      smtp.Mailer
	S3Store     *s3infra.Store
	JWTProvider *jwtinfra.Provider
}
