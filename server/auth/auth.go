package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Daskott/rxlink/server/auth/key"
	"github.com/Daskott/rxlink/shared"
	"github.com/golang-jwt/jwt"
)

const (
	DEFAULT_JWT_ALGORITHM  = "HS256"
	DEFAULT_JWT_EXPIRATION = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token provided")

type RxlinkTokenClaims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies staff session tokens.
type TokenIssuer struct {
	method     jwt.SigningMethod
	signKey    interface{}
	verifyKey  interface{}
	keyPair    *key.KeyPair
	expiration time.Duration
	now        func() time.Time
}

func NewTokenIssuer(config shared.JWTConfig) (*TokenIssuer, error) {
	algorithm := strings.ToUpper(strings.TrimSpace(config.Algorithm))
	if algorithm == "" {
		algorithm = DEFAULT_JWT_ALGORITHM
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported jwt algorithm: %v", algorithm)
	}

	expiration := DEFAULT_JWT_EXPIRATION
	if config.Expiration != "" {
		var err error
		expiration, err = time.ParseDuration(config.Expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid jwt expiration %q: %v", config.Expiration, err)
		}
	}

	if expiration <= 0 {
		return nil, fmt.Errorf("jwt expiration must be positive, got %v", expiration)
	}

	issuer := &TokenIssuer{method: method, expiration: expiration, now: time.Now}

	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		if config.Secret == "" {
			return nil, fmt.Errorf("a jwt secret is required for %v", algorithm)
		}
		issuer.signKey = []byte(config.Secret)
		issuer.verifyKey = []byte(config.Secret)
	case *jwt.SigningMethodRSA:
		keyPair, err := key.NewKeyPairFromRSAPrivateKeyPem(config.PrivateKeyPem)
		if err != nil {
			return nil, err
		}
		issuer.keyPair = keyPair
		issuer.signKey = keyPair.PrivateKey
		issuer.verifyKey = keyPair.PublicKey
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm: %v", algorithm)
	}

	return issuer, nil
}

// SetClock replaces the time source used for issuing and checking expiry.
func (issuer *TokenIssuer) SetClock(now func() time.Time) {
	issuer.now = now
}

// KeyPair returns the RSA key pair for RS* algorithms, nil otherwise.
func (issuer *TokenIssuer) KeyPair() *key.KeyPair {
	return issuer.keyPair
}

func (issuer *TokenIssuer) Expiration() time.Duration {
	return issuer.expiration
}

func (issuer *TokenIssuer) Issue(staffID uint) (string, error) {
	issuedAt := issuer.now()
	userID := strconv.FormatUint(uint64(staffID), 10)

	claims := RxlinkTokenClaims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(issuer.expiration).Unix(),
		},
	}

	token := jwt.NewWithClaims(issuer.method, claims)
	tokenString, err := token.SignedString(issuer.signKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify returns the staff id encoded in tokenString, or ErrInvalidToken if the
// token is malformed, signed with another key/algorithm or expired.
func (issuer *TokenIssuer) Verify(tokenString string) (uint, error) {
	parser := jwt.Parser{
		ValidMethods:         []string{issuer.method.Alg()},
		SkipClaimsValidation: true,
	}

	claims := &RxlinkTokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return issuer.verifyKey, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	// expiry is an absolute instant, checked strictly
	if claims.ExpiresAt == 0 || !issuer.now().Before(time.Unix(claims.ExpiresAt, 0)) {
		return 0, ErrInvalidToken
	}

	staffID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || staffID == 0 {
		return 0, ErrInvalidToken
	}

	return uint(staffID), nil
}
