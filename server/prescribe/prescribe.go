package prescribe

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Daskott/rxlink/server/auth"
	"github.com/Daskott/rxlink/server/models"
	"github.com/Daskott/rxlink/server/twilio"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrTokenNotFound   = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)

// Workflow creates prescriptions & serves them to patients by access token
type Workflow struct {
	notifier    twilio.Notifier
	linkBaseURL string
	logg        *zap.SugaredLogger
	now         func() time.Time
}

func NewWorkflow(notifier twilio.Notifier, linkBaseURL string, logg *zap.SugaredLogger) *Workflow {
	return &Workflow{
		notifier:    notifier,
		linkBaseURL: linkBaseURL,
		logg:        logg,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for token expiry
func (workflow *Workflow) SetClock(now func() time.Time) {
	workflow.now = now
}

// Create writes a prescription with its medications for a patient owned by staffID,
// then sends the patient a link to it. Delivery failures are logged, never returned.
func (workflow *Workflow) Create(staffID uint, patientID string, medications []models.Medication, channel string) (*models.Prescription, error) {
	patient, err := models.FindOwnedPatient(patientID, staffID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}

	createdAt := workflow.now()
	prescription := &models.Prescription{
		UUIDModel:   models.UUIDModel{CreatedAt: createdAt},
		PatientID:   patient.ID,
		CreatedByID: &staffID,
		Token:       auth.NewAccessToken(),
		TokenExpiry: auth.AccessTokenExpiry(createdAt),
		LinkSentVia: channel,
	}

	err = models.CreatePrescription(prescription, medications)
	if err != nil {
		return nil, err
	}
	prescription.AttachPatient(patient)

	link, err := PrescriptionLink(workflow.linkBaseURL, prescription.Token)
	if err != nil {
		workflow.logg.Errorf("unable to build link for prescription %v: %v", prescription.ID, err)
		return prescription, nil
	}

	err = workflow.notifier.SendPrescriptionLink(patient.PhoneNumber, link, channel)
	if err != nil {
		workflow.logg.Errorf("failed to send prescription %v via %v: %v", prescription.ID, channel, err)
	}

	return prescription, nil
}

// FetchByToken returns the prescription behind an access token, provided the
// token has not expired.
func (workflow *Workflow) FetchByToken(token string) (*models.Prescription, error) {
	prescription, err := models.FindPrescriptionByToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if !prescription.IsTokenValid(workflow.now()) {
		return nil, ErrTokenExpired
	}

	return prescription, nil
}

// PrescriptionLink adds token as the 'token' query parameter of baseURL
func PrescriptionLink(baseURL, token string) (string, error) {
	link, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid prescription link base url: %v", err)
	}

	query := link.Query()
	query.Set("token", token)
	link.RawQuery = query.Encode()

	return link.String(), nil
}
