package prescribe

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/Daskott/rxlink/server/logger"
	"github.com/Daskott/rxlink/server/models"
	"github.com/Daskott/rxlink/server/twilio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkBaseURL = "https://rx.example.com/prescription"

type fixture struct {
	workflow *Workflow
	notifier *twilio.NotifierStub
	doctor   *models.ClinicStaff
	nurse    *models.ClinicStaff
	patient  *models.Patient
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	models.InitializeTestDb()

	f := &fixture{
		notifier: &twilio.NotifierStub{},
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.workflow = NewWorkflow(f.notifier, linkBaseURL, logger.NewNopLogger())
	f.workflow.SetClock(func() time.Time { return f.now })

	var err error
	f.doctor, _, err = models.FindOrCreateStaff("+15550001")
	require.Nil(t, err)
	f.nurse, _, err = models.FindOrCreateStaff("+15550009")
	require.Nil(t, err)

	f.patient = &models.Patient{Name: "Jane", PhoneNumber: "+15550002"}
	require.Nil(t, models.CreatePatient(f.doctor.ID, f.patient))

	return f
}

func ibuprofen() []models.Medication {
	return []models.Medication{{Name: "Ibuprofen", Dosage: "200mg", Frequency: "2x/day", Duration: "5 days"}}
}

func TestCreateSendsLink(t *testing.T) {
	f := newFixture(t)

	prescription, err := f.workflow.Create(f.doctor.ID, f.patient.ID, ibuprofen(), twilio.SMS_CHANNEL)
	assert.Nil(t, err)
	assert.NotEmpty(t, prescription.Token)
	assert.Equal(t, f.now.Add(7*24*time.Hour), prescription.TokenExpiry)
	assert.Equal(t, "Jane", prescription.PatientName)
	assert.Equal(t, "+15550002", prescription.PatientPhone)
	assert.Equal(t, twilio.SMS_CHANNEL, prescription.LinkSentVia)
	assert.Len(t, prescription.Medications, 1)

	messages := f.notifier.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "+15550002", messages[0].PhoneNumber)
	assert.Equal(t, twilio.SMS_CHANNEL, messages[0].Channel)
	assert.Equal(t, linkBaseURL+"?token="+prescription.Token, messages[0].Link)
}

func TestCreateForPatientOfAnotherStaffIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.workflow.Create(f.nurse.ID, f.patient.ID, ibuprofen(), twilio.SMS_CHANNEL)
	assert.Equal(t, ErrPatientNotFound, err)

	_, missingErr := f.workflow.Create(f.doctor.ID, "00000000-0000-0000-0000-000000000000", ibuprofen(), twilio.SMS_CHANNEL)
	assert.Equal(t, err, missingErr, "Not owned & missing patients should look the same")

	assert.Empty(t, f.notifier.Messages())
}

func TestCreateSucceedsWhenDeliveryFails(t *testing.T) {
	f := newFixture(t)
	f.notifier.Err = errors.New("provider unavailable")

	prescription, err := f.workflow.Create(f.doctor.ID, f.patient.ID, ibuprofen(), twilio.WHATSAPP_CHANNEL)
	assert.Nil(t, err, "Delivery failures should not fail the request")
	assert.NotNil(t, prescription)
	assert.Len(t, f.notifier.Messages(), 1, "Delivery should be attempted exactly once")

	fetched, err := f.workflow.FetchByToken(prescription.Token)
	assert.Nil(t, err)
	assert.Equal(t, prescription.ID, fetched.ID)
}

func TestFetchByToken(t *testing.T) {
	f := newFixture(t)

	prescription, err := f.workflow.Create(f.doctor.ID, f.patient.ID, ibuprofen(), twilio.SMS_CHANNEL)
	require.Nil(t, err)

	testCases := []struct {
		description string
		token       string
		at          time.Time
		expectedErr error
	}{
		{"right after creation", prescription.Token, f.now, nil},
		{"just before expiry", prescription.Token, f.now.Add(7*24*time.Hour - time.Second), nil},
		{"at expiry", prescription.Token, f.now.Add(7 * 24 * time.Hour), ErrTokenExpired},
		{"long after expiry", prescription.Token, f.now.Add(30 * 24 * time.Hour), ErrTokenExpired},
		{"unknown token", "not-a-token", f.now, ErrTokenNotFound},
	}

	for _, tcase := range testCases {
		t.Run(tcase.description, func(t *testing.T) {
			at := tcase.at
			f.workflow.SetClock(func() time.Time { return at })

			fetched, err := f.workflow.FetchByToken(tcase.token)
			assert.Equal(t, tcase.expectedErr, err)

			if tcase.expectedErr != nil {
				assert.Nil(t, fetched)
				return
			}

			assert.Equal(t, prescription.Token, fetched.Token, "Token should be stable across reads")
			assert.Equal(t, "Jane", fetched.PatientName)
			require.Len(t, fetched.Medications, 1)
			assert.Equal(t, "Ibuprofen", fetched.Medications[0].Name)
		})
	}
}

func TestPrescriptionLink(t *testing.T) {
	link, err := PrescriptionLink("https://rx.example.com/view?lang=en", "abc-123")
	assert.Nil(t, err)

	parsed, err := url.Parse(link)
	assert.Nil(t, err)
	assert.Equal(t, "abc-123", parsed.Query().Get("token"))
	assert.Equal(t, "en", parsed.Query().Get("lang"))

	_, err = PrescriptionLink("://bad", "abc")
	assert.NotNil(t, err)
}
