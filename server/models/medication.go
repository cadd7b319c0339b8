package models

import "gorm.io/gorm"

type Medication struct {
	UUIDModel
	PrescriptionID string               `json:"-" gorm:"type:varchar(36);not null;index"`
	Position       int                  `json:"-" gorm:"not null"`
	Name           string               `json:"name" gorm:"size:200;not null"`
	Dosage         string               `json:"dosage" gorm:"size:100;not null"`
	Frequency      string               `json:"frequency" gorm:"size:100;not null"`
	Duration       string               `json:"duration" gorm:"size:100;not null"`
	Instructions   string               `json:"instructions"`
	Reminders      []MedicationReminder `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func FindMedication(id string) (*Medication, error) {
	medication := Medication{}
	err := db.First(&medication, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &medication, nil
}

// MedicationsForPrescription returns a prescription's medications in submission order
func MedicationsForPrescription(prescriptionID string) ([]Medication, error) {
	medications := []Medication{}

	err := db.Scopes(orderedMedications).Find(&medications, "prescription_id = ?", prescriptionID).Error
	if err != nil {
		return nil, err
	}

	return medications, nil
}

// ---------------------------------------------------------------------------------//
// Scopes
// --------------------------------------------------------------------------------//

func orderedMedications(db *gorm.DB) *gorm.DB {
	return db.Order("medications.position asc")
}
