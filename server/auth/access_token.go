package auth

import (
	"time"

	"github.com/google/uuid"
)

// ACCESS_TOKEN_TTL is how long a prescription link stays readable.
const ACCESS_TOKEN_TTL = 7 * 24 * time.Hour

// NewAccessToken returns a random opaque token for a prescription link.
func NewAccessToken() string {
	return uuid.NewString()
}

// AccessTokenExpiry returns the fixed expiry for a token created at createdAt.
func AccessTokenExpiry(createdAt time.Time) time.Time {
	return createdAt.Add(ACCESS_TOKEN_TTL)
}
