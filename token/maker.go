package token

import "time"

// Maker creates and verifies staff session tokens. The dashboard backend only
// verifies tokens minted by the auth service; CreateToken exists for tests and
// local tooling.
type Maker interface {
	CreateToken(email string, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}
