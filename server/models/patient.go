package models

type Patient struct {
	UUIDModel
	Name          string         `json:"name" gorm:"size:200;not null"`
	PhoneNumber   string         `json:"phone_number" gorm:"size:15;not null;uniqueIndex:idx_patients_phone_number_created_by"`
	CreatedByID   *uint          `json:"-" gorm:"uniqueIndex:idx_patients_phone_number_created_by"`
	Prescriptions []Prescription `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// CreatePatient inserts patient on behalf of staffID. Registering the same
// phone number twice for one staff member fails with ErrUniqueViolation.
func CreatePatient(staffID uint, patient *Patient) error {
	patient.CreatedByID = uintPtr(staffID)
	return translateError(db.Create(patient).Error, "create patient")
}

// FetchPatients returns the patients created by staffID, oldest first
func FetchPatients(staffID uint) ([]Patient, error) {
	patients := []Patient{}

	err := db.Scopes(OwnedBy(staffID)).Order("created_at asc").Find(&patients).Error
	if err != nil {
		return nil, err
	}

	return patients, nil
}

// FindOwnedPatient returns the patient with the given id only if staffID created it
func FindOwnedPatient(id string, staffID uint) (*Patient, error) {
	patient := Patient{}

	err := db.Scopes(OwnedBy(staffID)).First(&patient, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return &patient, nil
}

func DeletePatient(id string) error {
	return db.Delete(&Patient{}, "id = ?", id).Error
}
