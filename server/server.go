package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Daskott/rxlink/server/auth"
	"github.com/Daskott/rxlink/server/logger"
	"github.com/Daskott/rxlink/server/models"
	"github.com/Daskott/rxlink/server/prescribe"
	"github.com/Daskott/rxlink/server/twilio"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

var (
	logg     = logger.NewLogger()
	validate = validator.New()
)

func init() {
	fatalOnError(RegisterValidators(validate))
}

type Server struct {
	tokenIssuer *auth.TokenIssuer
	otpVerifier auth.OTPVerifier
	workflow    *prescribe.Workflow
}

func NewServer(tokenIssuer *auth.TokenIssuer, otpVerifier auth.OTPVerifier, workflow *prescribe.Workflow) *Server {
	return &Server{
		tokenIssuer: tokenIssuer,
		otpVerifier: otpVerifier,
		workflow:    workflow,
	}
}

func Start(config *viper.Viper, devMode bool) {
	serverConfig, err := LoadConfig(config)
	fatalOnError(err)

	dbRootDir := serverConfig.Sqlite.Dir
	if dbRootDir == "" {
		dbRootDir = ConfigDirectory(devMode)
	}

	err = models.AutoMigrate(*serverConfig, dbRootDir)
	fatalOnError(err)

	tokenIssuer, err := auth.NewTokenIssuer(serverConfig.Rxlink.JWT)
	fatalOnError(err)

	workflow := prescribe.NewWorkflow(
		twilio.NewClient(serverConfig.Twilio),
		serverConfig.Rxlink.PrescriptionLinkBaseURL,
		logg,
	)

	srv := NewServer(tokenIssuer, auth.NewOTPVerifier(serverConfig.Rxlink.OTP), workflow)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", serverConfig.Rxlink.Listener.Port),
		Handler: srv.Router(),
	}

	go serve(server)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cleanup(server)
}

func (srv *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware, srv.initialContextMiddleware)

	router.HandleFunc("/health", health).Methods("GET")
	router.HandleFunc("/.well-known/jwks.json", srv.jwks).Methods("GET")

	router.HandleFunc("/auth/login", srv.logIn).Methods("POST")
	router.HandleFunc("/auth/verify", srv.verifyToken).Methods("GET")
	router.HandleFunc("/prescriptions/public", srv.prescriptionByToken).Methods("GET")

	// TODO: require a session & medication ownership once clinics confirm patients never set their own reminders
	router.HandleFunc("/reminders", createReminder).Methods("POST")

	protected := router.NewRoute().Subrouter()
	protected.Use(protectedRouteMiddleware)
	protected.HandleFunc("/patients", fetchPatients).Methods("GET")
	protected.HandleFunc("/patients", createPatient).Methods("POST")
	protected.HandleFunc("/prescriptions", srv.createPrescription).Methods("POST")

	return router
}
