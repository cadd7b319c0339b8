package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Daskott/rxlink/utils"
	"github.com/go-playground/validator"
)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	if payLoad.Errors == nil {
		payLoad.Errors = []string{}
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func writeValidationErrors(rw http.ResponseWriter, errs error) {
	writeResponse(rw, ResponsePayload{Errors: strings.Split(errs.Error(), "\n")}, http.StatusBadRequest)
}

func writeInternalError(rw http.ResponseWriter, err error) {
	logg.Error(err)
	writeResponse(rw, ResponsePayload{Errors: []string{"an application error has occurred"}}, http.StatusInternalServerError)
}

// decodeBody decodes a JSON request body into dest & validates it, writing a 400
// response & returning false if either step fails.
func decodeBody(rw http.ResponseWriter, r *http.Request, dest interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dest)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{fmt.Sprintf("malformed request body: %v", err)}}, http.StatusBadRequest)
		return false
	}

	errs := validate.Struct(dest)
	if errs != nil {
		writeValidationErrors(rw, errs)
		return false
	}

	return true
}

func RegisterValidators(validate *validator.Validate) error {
	return validate.RegisterValidation("time_stamp", func(fl validator.FieldLevel) bool {
		_, err := normalizeTimeStamp(fl.Field().String())
		return err == nil
	})
}

// normalizeTimeStamp turns HH:MM or HH:MM:SS into HH:MM:SS
func normalizeTimeStamp(value string) (string, error) {
	timeSegments := strings.Split(value, ":")
	if len(timeSegments) < 2 || len(timeSegments) > 3 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM[:SS]", value)
	}

	limits := []int{23, 59, 59}
	parts := []int{0, 0, 0}
	for i, segment := range timeSegments {
		part, err := strconv.Atoi(segment)
		if err != nil {
			return "", fmt.Errorf("invalid time %q, expected HH:MM[:SS]", value)
		}

		err = validate.Var(part, fmt.Sprintf("min=0,max=%d", limits[i]))
		if err != nil {
			return "", fmt.Errorf("invalid time %q, expected HH:MM[:SS]", value)
		}
		parts[i] = part
	}

	return fmt.Sprintf("%02d:%02d:%02d", parts[0], parts[1], parts[2]), nil
}

// ---------------------------------------------------------------------------------//
// Middleware Helper functions
// --------------------------------------------------------------------------------//

func (srv *Server) decodeAndVerifyAuthHeader(authHeaderValue string) DecodedJWT {
	if authHeaderValue == "" {
		return DecodedJWT{ErrorMsg: "no token provided"}
	}

	if !strings.HasPrefix(authHeaderValue, "Bearer ") {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	staffID, err := srv.tokenIssuer.Verify(strings.TrimPrefix(authHeaderValue, "Bearer "))
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	return DecodedJWT{StaffID: staffID}
}

func decodedJWTFromContext(r *http.Request) DecodedJWT {
	decodedJWT, ok := r.Context().Value(RequestContextKey("decodedJWT")).(DecodedJWT)
	if !ok {
		return DecodedJWT{ErrorMsg: "no token provided"}
	}

	return decodedJWT
}

func requestStaffID(r *http.Request) uint {
	return decodedJWTFromContext(r).StaffID
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Rxlink server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(server *http.Server) {
	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Rxlink server shutdown failed:%+s", err)
	}

	logg.Infof("Rxlink server stopped properly")
}

// ConfigDirectory retrieves the directory to store rxlink data
// Or logs an error message and then calls os.Exit if it's unable to.
func ConfigDirectory(devMode bool) string {
	// Use 'rxlink' folder in home directory for prod
	configFolderName := "rxlink"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err)

	return configDir
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
