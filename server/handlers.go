package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Daskott/rxlink/server/auth"
	"github.com/Daskott/rxlink/server/auth/key"
	"github.com/Daskott/rxlink/server/models"
	"github.com/Daskott/rxlink/server/prescribe"
	"gorm.io/gorm"
)

func health(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

func (srv *Server) jwks(rw http.ResponseWriter, r *http.Request) {
	keyPair := srv.tokenIssuer.KeyPair()
	if keyPair == nil {
		writeResponse(rw, ResponsePayload{Errors: []string{"no public keys are published for this signing algorithm"}}, http.StatusNotFound)
		return
	}

	jwk, err := keyPair.JWK()
	if err != nil {
		writeInternalError(rw, err)
		return
	}

	json.NewEncoder(rw).Encode(key.ExportJWKAsJWKS(jwk))
}

func (srv *Server) logIn(rw http.ResponseWriter, r *http.Request) {
	data := LoginRequest{}
	if !decodeBody(rw, r, &data) {
		return
	}

	if !srv.otpVerifier.Verify(data.PhoneNumber, data.OTP) {
		writeResponse(rw, ResponsePayload{Errors: []string{auth.ErrInvalidOTP.Error()}}, http.StatusUnauthorized)
		return
	}

	staff, created, err := models.FindOrCreateStaff(data.PhoneNumber)
	if err != nil {
		writeInternalError(rw, err)
		return
	}

	token, err := srv.tokenIssuer.Issue(staff.ID)
	if err != nil {
		writeInternalError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{
		Success: true,
		Data:    LoginResponse{Token: token, Staff: staff, IsNewUser: created},
	}, http.StatusOK)
}

// verifyToken also confirms the staff account behind the token still exists
func (srv *Server) verifyToken(rw http.ResponseWriter, r *http.Request) {
	invalid := ResponsePayload{Errors: []string{auth.ErrInvalidToken.Error()}, Data: VerifyResponse{Valid: false}}

	decodedJWT := decodedJWTFromContext(r)
	if decodedJWT.ErrorMsg != "" {
		writeResponse(rw, invalid, http.StatusUnauthorized)
		return
	}

	staff, err := models.FindStaff(decodedJWT.StaffID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, invalid, http.StatusUnauthorized)
		return
	}

	if err != nil {
		writeInternalError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: VerifyResponse{Valid: true, Staff: staff}}, http.StatusOK)
}

func fetchPatients(rw http.ResponseWriter, r *http.Request) {
	patients, err := models.FetchPatients(requestStaffID(r))
	if err != nil {
		writeInternalError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: patients}, http.StatusOK)
}

func createPatient(rw http.ResponseWriter, r *http.Request) {
	data := PatientRequest{}
	if !decodeBody(rw, r, &data) {
		return
	}

	patient := models.Patient{Name: data.Name, PhoneNumber: data.PhoneNumber}

	err := models.CreatePatient(requestStaffID(r), &patient)
	if errors.Is(err, models.ErrUniqueViolation) {
		writeResponse(rw, ResponsePayload{Errors: []string{models.ErrUniqueViolation.Error()}}, http.StatusBadRequest)
		return
	}

	if err != nil {
		writeInternalError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: patient}, http.StatusCreated)
}

func (srv *Server) createPrescription(rw http.ResponseWriter, r *http.Request) {
	data := PrescriptionRequest{}
	if !decodeBody(rw, r, &data) {
		return
	}

	medications := make([]models.Medication, 0, len(data.Medications))
	for _, medication := range data.Medications {
		medications = append(medications, models.Medication{
			Name:         medication.Name,
			Dosage:       medication.Dosage,
			Frequency:    medication.Frequency,
			Duration:     medication.Duration,
			Instructions: medication.Instructions,
		})
	}

	prescription, err := srv.workflow.Create(requestStaffID(r), data.PatientID, medications, data.SendVia)
	if errors.Is(err, prescribe.ErrPatientNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeInternalError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: prescription}, http.StatusCreated)
}

func (srv *Server) prescriptionByToken(rw http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeResponse(rw, ResponsePayload{Errors: []string{"token required"}}, http.StatusBadRequest)
		return
	}

	prescription, err := srv.workflow.FetchByToken(token)
	switch {
	case errors.Is(err, prescribe.ErrTokenNotFound):
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
	case errors.Is(err, prescribe.ErrTokenExpired):
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusUnauthorized)
	case err != nil:
		writeInternalError(rw, err)
	default:
		writeResponse(rw, ResponsePayload{Success: true, Data: prescription}, http.StatusOK)
	}
}

func createReminder(rw http.ResponseWriter, r *http.Request) {
	data := ReminderRequest{}
	if !decodeBody(rw, r, &data) {
		return
	}

	reminderTime, err := normalizeTimeStamp(data.ReminderTime)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	reminder := models.MedicationReminder{
		MedicationID: data.Medication,
		ReminderTime: reminderTime,
		IsActive:     data.IsActive == nil || *data.IsActive,
	}

	err = models.CreateReminder(&reminder)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{"medication does not exist"}}, http.StatusBadRequest)
		return
	}

	if err != nil {
		writeInternalError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: reminder}, http.StatusCreated)
}
