package twilio

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Daskott/rxlink/server/logger"
	"github.com/Daskott/rxlink/shared"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	WHATSAPP_CHANNEL = "whatsapp"
	SMS_CHANNEL      = "sms"

	WHATSAPP_ADDRESS_PREFIX = "whatsapp:"
)

var logg = logger.NewLogger()

// Notifier delivers a prescription link to a patient over the requested channel
type Notifier interface {
	SendPrescriptionLink(phoneNumber, link, channel string) error
}

type ClientWrapper struct {
	client *twilio.RestClient
	config shared.TwilioConfig
}

func NewClient(config shared.TwilioConfig) *ClientWrapper {
	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})

	return &ClientWrapper{
		client: client,
		config: config,
	}
}

// Configured reports whether account credentials were provided
func (cw *ClientWrapper) Configured() bool {
	return cw.config.AccountSid != "" && cw.config.AuthToken != ""
}

func (cw *ClientWrapper) SendPrescriptionLink(phoneNumber, link, channel string) error {
	if !cw.Configured() {
		logg.Warn("Twilio credentials not configured, prescription link not sent")
		return nil
	}

	from, to := messageAddresses(cw.config, phoneNumber, channel)

	params := &openapi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(PrescriptionMessage(link))

	resp, err := cw.client.ApiV2010.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send %v message: %v", channel, err)
	}

	if resp.ErrorMessage != nil {
		return fmt.Errorf("send %v message: %v", channel, *resp.ErrorMessage)
	}

	if resp.Sid != nil {
		logg.Infof("Message sent: %v", *resp.Sid)
	}

	return nil
}

func PrescriptionMessage(link string) string {
	return fmt.Sprintf("Your prescription is ready! Click here to view: %v", link)
}

// messageAddresses picks the sender & recipient for a channel. Anything other
// than whatsapp goes out as a plain SMS.
func messageAddresses(config shared.TwilioConfig, phoneNumber, channel string) (from string, to string) {
	if channel == WHATSAPP_CHANNEL {
		return whatsappAddress(config.WhatsappNumber), whatsappAddress(phoneNumber)
	}

	return config.PhoneNumber, phoneNumber
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, WHATSAPP_ADDRESS_PREFIX) {
		return number
	}
	return WHATSAPP_ADDRESS_PREFIX + number
}

// ---------------------------------------------------------------------------------//
// Test helpers
// --------------------------------------------------------------------------------//

type SentMessage struct {
	PhoneNumber string
	Link        string
	Channel     string
}

// NotifierStub records messages instead of sending them
type NotifierStub struct {
	mu   sync.Mutex
	Err  error
	Sent []SentMessage
}

func (stub *NotifierStub) SendPrescriptionLink(phoneNumber, link, channel string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	stub.Sent = append(stub.Sent, SentMessage{PhoneNumber: phoneNumber, Link: link, Channel: channel})
	return stub.Err
}

func (stub *NotifierStub) Messages() []SentMessage {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	return append([]SentMessage{}, stub.Sent...)
}
