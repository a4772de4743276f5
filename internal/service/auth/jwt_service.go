package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for issuing and verifying session tokens.
type JWTService interface {
	// GenerateToken creates a signed session token naming the user.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the token's signature and time claims and
	// returns its claims. Tokens issued without an expiry stay valid for as
	// long as the signing secret is unchanged.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of a session token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject  string    `json:"sub,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`
	// ExpiresAt is the zero time when the token carries no exp claim.
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
