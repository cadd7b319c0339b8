package server

import "github.com/Daskott/rxlink/server/models"

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type RequestContextKey string

type DecodedJWT struct {
	StaffID  uint
	ErrorMsg string
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
	OTP         string `json:"otp" validate:"required,max=6"`
}

type LoginResponse struct {
	Token     string              `json:"token"`
	Staff     *models.ClinicStaff `json:"staff"`
	IsNewUser bool                `json:"is_new_user"`
}

type VerifyResponse struct {
	Valid bool                `json:"valid"`
	Staff *models.ClinicStaff `json:"staff,omitempty"`
}

type PatientRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
}

type MedicationRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Dosage       string `json:"dosage" validate:"required,max=100"`
	Frequency    string `json:"frequency" validate:"required,max=100"`
	Duration     string `json:"duration" validate:"required,max=100"`
	Instructions string `json:"instructions"`
}

type PrescriptionRequest struct {
	PatientID   string              `json:"patient_id" validate:"required,uuid"`
	Medications []MedicationRequest `json:"medications" validate:"required,dive"`
	SendVia     string              `json:"send_via" validate:"required,oneof=whatsapp sms"`
}

type ReminderRequest struct {
	Medication   string `json:"medication" validate:"required,uuid"`
	ReminderTime string `json:"reminder_time" validate:"required,time_stamp"`
	IsActive     *bool  `json:"is_active"`
}
