package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/Daskott/rxlink/shared"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrivateKeyPem(t *testing.T) string {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.Nil(t, err)

	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}))
}

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestIssueAndVerify(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := issuedAt

	issuer, err := NewTokenIssuer(shared.JWTConfig{Secret: "secret", Expiration: "2h"})
	require.Nil(t, err)
	issuer.SetClock(fixedClock(&now))

	token, err := issuer.Issue(7)
	require.Nil(t, err)

	testCases := []struct {
		description string
		at          time.Time
		valid       bool
	}{
		{"at issuance", issuedAt, true},
		{"one second before expiry", issuedAt.Add(2*time.Hour - time.Second), true},
		{"at expiry", issuedAt.Add(2 * time.Hour), false},
		{"after expiry", issuedAt.Add(3 * time.Hour), false},
	}

	for _, tcase := range testCases {
		t.Run(tcase.description, func(t *testing.T) {
			now = tcase.at

			staffID, err := issuer.Verify(token)
			if tcase.valid {
				assert.Nil(t, err)
				assert.Equal(t, uint(7), staffID)
			} else {
				assert.Equal(t, ErrInvalidToken, err)
				assert.Equal(t, uint(0), staffID)
			}
		})
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	issuer, err := NewTokenIssuer(shared.JWTConfig{Secret: "secret"})
	require.Nil(t, err)

	otherIssuer, err := NewTokenIssuer(shared.JWTConfig{Secret: "another-secret"})
	require.Nil(t, err)

	foreignToken, err := otherIssuer.Issue(1)
	require.Nil(t, err)

	unsignedToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, RxlinkTokenClaims{
		UserID:         "1",
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.Nil(t, err)

	hs384Issuer, err := NewTokenIssuer(shared.JWTConfig{Secret: "secret", Algorithm: "HS384"})
	require.Nil(t, err)
	otherAlgToken, err := hs384Issuer.Issue(1)
	require.Nil(t, err)

	noExpiryToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, RxlinkTokenClaims{UserID: "1"}).SignedString([]byte("secret"))
	require.Nil(t, err)

	for description, token := range map[string]string{
		"malformed":          "not-a-token",
		"empty":              "",
		"other secret":       foreignToken,
		"unsigned":           unsignedToken,
		"other algorithm":    otherAlgToken,
		"missing expiration": noExpiryToken,
	} {
		t.Run(description, func(t *testing.T) {
			_, err := issuer.Verify(token)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}

func TestRS256Issuer(t *testing.T) {
	issuer, err := NewTokenIssuer(shared.JWTConfig{Algorithm: "RS256", PrivateKeyPem: testPrivateKeyPem(t)})
	require.Nil(t, err)
	require.NotNil(t, issuer.KeyPair())
	assert.Equal(t, DEFAULT_JWT_EXPIRATION, issuer.Expiration())

	token, err := issuer.Issue(3)
	require.Nil(t, err)

	staffID, err := issuer.Verify(token)
	assert.Nil(t, err)
	assert.Equal(t, uint(3), staffID)
}

func TestNewTokenIssuerErrors(t *testing.T) {
	testCases := []struct {
		description string
		config      shared.JWTConfig
	}{
		{"missing secret", shared.JWTConfig{}},
		{"unknown algorithm", shared.JWTConfig{Secret: "secret", Algorithm: "XX999"}},
		{"bad expiration", shared.JWTConfig{Secret: "secret", Expiration: "soon"}},
		{"negative expiration", shared.JWTConfig{Secret: "secret", Expiration: "-1h"}},
		{"bad private key", shared.JWTConfig{Algorithm: "RS256", PrivateKeyPem: "nope"}},
	}

	for _, tcase := range testCases {
		t.Run(tcase.description, func(t *testing.T) {
			_, err := NewTokenIssuer(tcase.config)
			assert.NotNil(t, err)
		})
	}
}

func TestOTPVerifiers(t *testing.T) {
	static := NewOTPVerifier(shared.OTPConfig{Value: "123456"})
	for _, phoneNumber := range []string{"+15550001", "+15550002", ""} {
		assert.True(t, static.Verify(phoneNumber, "123456"))
		assert.False(t, static.Verify(phoneNumber, "654321"))
		assert.False(t, static.Verify(phoneNumber, ""))
	}

	assert.False(t, StaticOTP{}.Verify("+15550001", ""), "An unset code should never match")

	hash, err := HashOTP("123456")
	require.Nil(t, err)

	hashed := NewOTPVerifier(shared.OTPConfig{Value: hash, Hashed: true})
	assert.True(t, hashed.Verify("+15550001", "123456"))
	assert.False(t, hashed.Verify("+15550001", "12345"))
	assert.False(t, hashed.Verify("+15550001", hash))
}

func TestAccessTokens(t *testing.T) {
	first := NewAccessToken()
	second := NewAccessToken()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)

	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC), AccessTokenExpiry(createdAt))
}
