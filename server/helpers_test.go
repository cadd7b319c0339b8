package server

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeStamp(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		valid    bool
	}{
		{"08:30", "08:30:00", true},
		{"8:5", "08:05:00", true},
		{"23:59:59", "23:59:59", true},
		{"00:00", "00:00:00", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"12:30:61", "", false},
		{"12", "", false},
		{"12:30:00:00", "", false},
		{"ab:cd", "", false},
	}

	for _, tcase := range testCases {
		t.Run(tcase.input, func(t *testing.T) {
			normalized, err := normalizeTimeStamp(tcase.input)
			assert.Equal(t, tcase.valid, err == nil, "unexpected result for %q: %v", tcase.input, err)
			assert.Equal(t, tcase.expected, normalized)
			assert.Equal(t, tcase.valid, validate.Var(tcase.input, "time_stamp") == nil)
		})
	}
}

func TestDecodeAndVerifyAuthHeader(t *testing.T) {
	ts := newTestServer(t)
	srv := NewServer(ts.issuer, nil, ts.workflow)

	token, err := ts.issuer.Issue(42)
	assert.Nil(t, err)

	assert.Equal(t, DecodedJWT{StaffID: 42}, srv.decodeAndVerifyAuthHeader("Bearer "+token))
	assert.Equal(t, DecodedJWT{ErrorMsg: "no token provided"}, srv.decodeAndVerifyAuthHeader(""))
	assert.Equal(t, DecodedJWT{ErrorMsg: "invalid token provided"}, srv.decodeAndVerifyAuthHeader("Token "+token))
	assert.Equal(t, DecodedJWT{ErrorMsg: "invalid token provided"}, srv.decodeAndVerifyAuthHeader("Bearer not.a.jwt"))
}

const testServerYml = `
rxlink:
  listener:
    port: 3000
  prescriptionLinkBaseURL: "https://rx.example.com/prescription"
  otp:
    value: "123456"
  jwt:
    secret: "secret"
    expiration: "12h"
twilio:
  accountSid: "AC123"
  whatsappNumber: "whatsapp:+15550101"
`

func TestLoadConfig(t *testing.T) {
	config := viper.New()
	config.SetConfigType("yaml")
	assert.Nil(t, config.ReadConfig(strings.NewReader(testServerYml)))

	serverConfig, err := LoadConfig(config)
	assert.Nil(t, err)
	assert.Equal(t, 3000, serverConfig.Rxlink.Listener.Port)
	assert.Equal(t, "123456", serverConfig.Rxlink.OTP.Value)
	assert.Equal(t, "12h", serverConfig.Rxlink.JWT.Expiration)
	assert.Equal(t, "AC123", serverConfig.Twilio.AccountSid)
	assert.Equal(t, "whatsapp:+15550101", serverConfig.Twilio.WhatsappNumber)
}

func TestLoadConfigRejectsMissingValues(t *testing.T) {
	config := viper.New()
	config.SetConfigType("yaml")
	assert.Nil(t, config.ReadConfig(strings.NewReader(`
rxlink:
  listener:
    port: 3000
  prescriptionLinkBaseURL: "not a url"
`)))

	_, err := LoadConfig(config)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "PrescriptionLinkBaseURL")
	assert.Contains(t, err.Error(), "Value")
	assert.Contains(t, err.Error(), "Secret")
}
