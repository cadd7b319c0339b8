package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

type MedicationReminder struct {
	UUIDModel
	MedicationID   string      `json:"medication" gorm:"type:varchar(36);not null;index"`
	Medication     *Medication `json:"-"`
	MedicationName string      `json:"medication_name" gorm:"-"`
	ReminderTime   string      `json:"reminder_time" gorm:"size:8;not null"`
	IsActive       bool        `json:"is_active" gorm:"not null"`
}

// CreateReminder attaches reminder to an existing medication. Returns
// gorm.ErrRecordNotFound if the medication does not exist.
func CreateReminder(reminder *MedicationReminder) error {
	medication, err := FindMedication(reminder.MedicationID)
	if err != nil {
		return err
	}

	err = db.Omit(clause.Associations).Create(reminder).Error
	if err != nil {
		return errors.Wrap(err, "create medication reminder")
	}

	reminder.Medication = medication
	reminder.MedicationName = medication.Name
	return nil
}

func FindReminder(id string) (*MedicationReminder, error) {
	reminder := MedicationReminder{}
	err := db.First(&reminder, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &reminder, nil
}
