package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/Daskott/rxlink/shared"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidOTP = errors.New("invalid OTP")

// OTPVerifier checks the second factor submitted with a phone number at login.
type OTPVerifier interface {
	Verify(phoneNumber, code string) bool
}

// StaticOTP accepts one process-wide code for every phone number.
type StaticOTP struct {
	Code string
}

func (otp StaticOTP) Verify(phoneNumber, code string) bool {
	if otp.Code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) == 1
}

// HashedOTP is a StaticOTP whose code is only known to the server as a bcrypt hash.
type HashedOTP struct {
	Hash string
}

func (otp HashedOTP) Verify(phoneNumber, code string) bool {
	return CheckOTPHash(code, otp.Hash)
}

func NewOTPVerifier(config shared.OTPConfig) OTPVerifier {
	if config.Hashed {
		return HashedOTP{Hash: config.Value}
	}
	return StaticOTP{Code: config.Value}
}

func HashOTP(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckOTPHash(code, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	return err == nil
}
