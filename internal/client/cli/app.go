package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/config"
	"github.com/antonkuprin/medilink/internal/client/services"
	"github.com/antonkuprin/medilink/internal/logging"

	_ "modernc.org/sqlite"
)

// App is the interactive client. One App owns one API client and the
// local database behind it.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	api    *api.Client

	patients      services.PatientService
	appointments  services.AppointmentService
	prescriptions services.PrescriptionService
	consultations services.ConsultationService
	documents     services.DocumentService

	role     api.Role
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	lg := logging.NewDefault(slog.LevelWarn)

	db, err := api.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	client := api.New(c, db, lg)

	return &App{
		config:        c,
		log:           lg,
		db:            db,
		api:           client,
		patients:      services.NewPatientService(client.Pipeline, api.RolePatient),
		appointments:  services.NewAppointmentService(client.Pipeline, api.RolePatient),
		prescriptions: services.NewPrescriptionService(client.Pipeline, api.RolePatient),
		consultations: services.NewConsultationService(client.Pipeline, api.RolePatient),
		documents:     services.NewDocumentService(client.Pipeline, client.Uploads, api.RolePatient),
		role:          api.RolePatient,
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

// setRole rebinds the domain services to the given acting role.
func (a *App) setRole(role api.Role) {
	a.role = role
	a.patients = services.NewPatientService(a.api.Pipeline, role)
	a.appointments = services.NewAppointmentService(a.api.Pipeline, role)
	a.prescriptions = services.NewPrescriptionService(a.api.Pipeline, role)
	a.consultations = services.NewConsultationService(a.api.Pipeline, role)
	a.documents = services.NewDocumentService(a.api.Pipeline, a.api.Uploads, role)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// status is the prompt decoration: user, role and connectivity.
func (a *App) status() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " " + string(a.role)
	}
	if !a.api.Monitor.State().Available {
		if s != "" {
			s += " "
		}
		s += "offline"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Println("Welcome to medilink CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
