package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	DOCTOR_ROLE     = "doctor"
	NURSE_ROLE      = "nurse"
	PHARMACIST_ROLE = "pharmacist"

	DEFAULT_STAFF_ROLE = DOCTOR_ROLE
)

type ClinicStaff struct {
	BaseModel
	Username      string         `json:"-" gorm:"not null"`
	PhoneNumber   string         `json:"phone_number" gorm:"size:15;not null;unique"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	ClinicName    string         `json:"clinic_name" gorm:"size:200"`
	Role          string         `json:"role" gorm:"size:50;not null"`
	Patients      []Patient      `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Prescriptions []Prescription `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// FindOrCreateStaff returns the staff account registered with phoneNumber,
// creating it with the default role if none exists. created reports whether
// a new account was made.
func FindOrCreateStaff(phoneNumber string) (*ClinicStaff, bool, error) {
	staff := ClinicStaff{}

	err := db.First(&staff, "phone_number = ?", phoneNumber).Error
	if err == nil {
		return &staff, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, errors.Wrapf(err, "find staff %v", phoneNumber)
	}

	staff = ClinicStaff{Username: phoneNumber, PhoneNumber: phoneNumber, Role: DEFAULT_STAFF_ROLE}
	err = db.Create(&staff).Error
	if err == nil {
		return &staff, true, nil
	}

	// Lost a race against a concurrent login for the same number
	if isUniqueViolation(err) {
		err = db.First(&staff, "phone_number = ?", phoneNumber).Error
		if err == nil {
			return &staff, false, nil
		}
	}

	return nil, false, errors.Wrapf(err, "create staff %v", phoneNumber)
}

func FindStaff(id interface{}) (*ClinicStaff, error) {
	staff := ClinicStaff{}
	err := db.First(&staff, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &staff, nil
}

func DeleteStaff(id interface{}) error {
	return db.Delete(&ClinicStaff{}, id).Error
}
