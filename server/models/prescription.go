package models

import (
	"time"

	"github.com/Daskott/rxlink/server/auth"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	WHATSAPP_CHANNEL = "whatsapp"
	SMS_CHANNEL      = "sms"
)

type Prescription struct {
	UUIDModel
	PatientID    string       `json:"patient" gorm:"type:varchar(36);not null;index"`
	Patient      *Patient     `json:"-"`
	PatientName  string       `json:"patient_name" gorm:"-"`
	PatientPhone string       `json:"patient_phone" gorm:"-"`
	CreatedByID  *uint        `json:"-"`
	Token        string       `json:"token" gorm:"size:100;not null;unique"`
	TokenExpiry  time.Time    `json:"-" gorm:"not null"`
	LinkSentVia  string       `json:"link_sent_via" gorm:"size:20"`
	Medications  []Medication `json:"medications" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// BeforeCreate fills in the access token & its expiry if the caller left them unset.
// Neither is ever touched again once stored.
func (prescription *Prescription) BeforeCreate(tx *gorm.DB) error {
	err := prescription.UUIDModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if prescription.Token == "" {
		prescription.Token = auth.NewAccessToken()
	}

	if prescription.TokenExpiry.IsZero() {
		createdAt := prescription.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		prescription.TokenExpiry = auth.AccessTokenExpiry(createdAt)
	}

	return nil
}

// IsTokenValid reports whether the access token can still be used at now
func (prescription *Prescription) IsTokenValid(now time.Time) bool {
	return now.Before(prescription.TokenExpiry)
}

// CreatePrescription stores prescription & its medications, in submission order,
// as a single unit: either every row is written or none is.
func CreatePrescription(prescription *Prescription, medications []Medication) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Create(prescription).Error
		if err != nil {
			return translateError(err, "create prescription")
		}

		for i := range medications {
			medications[i].PrescriptionID = prescription.ID
			medications[i].Position = i

			err = tx.Create(&medications[i]).Error
			if err != nil {
				return errors.Wrapf(err, "create medication %d of prescription", i)
			}
		}

		prescription.Medications = medications
		return nil
	})
}

// FindPrescriptionByToken loads the prescription with the given access token along
// with its medications & patient details. Expiry is left for the caller to check.
func FindPrescriptionByToken(token string) (*Prescription, error) {
	prescription := Prescription{}

	err := db.Preload("Patient").
		Preload("Medications", orderedMedications).
		First(&prescription, "token = ?", token).Error
	if err != nil {
		return nil, err
	}

	prescription.setPatientDetails()
	return &prescription, nil
}

func FindPrescription(id string) (*Prescription, error) {
	prescription := Prescription{}

	err := db.Preload("Patient").
		Preload("Medications", orderedMedications).
		First(&prescription, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	prescription.setPatientDetails()
	return &prescription, nil
}

// AttachPatient sets the derived patient fields from an already loaded patient
func (prescription *Prescription) AttachPatient(patient *Patient) {
	prescription.Patient = patient
	prescription.setPatientDetails()
}

func (prescription *Prescription) setPatientDetails() {
	if prescription.Patient == nil {
		return
	}

	prescription.PatientName = prescription.Patient.Name
	prescription.PatientPhone = prescription.Patient.PhoneNumber
}
