// Package dig_container wires the API's dependencies with go.uber.org/dig.
package dig_container

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	echoapi "github.com/trezcool/divyang/apps/api/echo"
	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/attendance"
	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/dashboard"
	"github.com/trezcool/divyang/core/document"
	"github.com/trezcool/divyang/core/report"
	"github.com/trezcool/divyang/core/user"
	emailsvc "github.com/trezcool/divyang/services/email"
	logsvc "github.com/trezcool/divyang/services/logger"
	storagesvc "github.com/trezcool/divyang/services/storage"
	"github.com/trezcool/divyang/storage/database"
	boiledrepos "github.com/trezcool/divyang/storage/database/boiled"
	"github.com/trezcool/divyang/storage/database/sqlxrepos"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Shutdown receives OS signals, and a value whenever a handler asks for the server to stop.
	Shutdown chan os.Signal

	serverParams struct {
		dig.In
		Conf          *core.Config
		Logger        core.Logger
		Shutdown      Shutdown
		UserSvc       *user.Service
		BenSvc        *beneficiary.Service
		DocSvc        *document.Service
		AttendanceSvc *attendance.Service
		ReportSvc     *report.Service
		DashboardSvc  *dashboard.Service
	}
)

func newLogger(conf *core.Config, zl *zap.Logger) core.Logger {
	return logsvc.NewRollbarLogger(zl.Named("api"), conf)
}

func newDBLogger(conf *core.Config, zl *zap.Logger) core.Logger {
	return logsvc.NewRollbarLogger(zl.Named("db"), conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(context.Background(), conf); err != nil {
		return nil, errors.Wrap(err, "creating database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrating database")
	}
	loggerParam.Logger.Info("database ready", map[string]interface{}{"host": conf.Database.Address(), "name": conf.Database.Name})
	return db, nil
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newBlobStore(conf *core.Config) (core.BlobStore, error) {
	return storagesvc.New(conf.Storage)
}

func newReportRepository(db *sqlx.DB) report.AttendanceRepository {
	return boiledrepos.NewReportRepository(db)
}

func newDocumentService(
	conf *core.Config,
	repo document.Repository,
	benSvc *beneficiary.Service,
	blobs core.BlobStore,
	mailSvc core.EmailService,
	logger core.Logger,
) *document.Service {
	return document.NewService(repo, benSvc, blobs, mailSvc, logger, document.NewUploadPolicy(conf.Upload))
}

func newAttendanceService(repo attendance.Repository, benSvc *beneficiary.Service) *attendance.Service {
	return attendance.NewService(repo, benSvc)
}

func newReportService(benSvc *beneficiary.Service, repo report.AttendanceRepository) *report.Service {
	return report.NewService(benSvc, repo)
}

func newDashboardService(benSvc *beneficiary.Service, docSvc *document.Service, attSvc *attendance.Service) *dashboard.Service {
	return dashboard.NewService(benSvc, docSvc, attSvc)
}

func newShutdown() Shutdown {
	shutdown := make(Shutdown, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	return shutdown
}

func newServer(p serverParams) echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Conf:   p.Conf,
		Logger: p.Logger,
		SignalShutdown: func() {
			select {
			case p.Shutdown <- syscall.SIGTERM:
			default: // already shutting down
			}
		},
		UserSvc:        p.UserSvc,
		BeneficiarySvc: p.BenSvc,
		DocumentSvc:    p.DocSvc,
		AttendanceSvc:  p.AttendanceSvc,
		ReportSvc:      p.ReportSvc,
		DashboardSvc:   p.DashboardSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(logsvc.NewZap))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(newBlobStore))
	must(c.Provide(newShutdown))

	// repositories
	must(c.Provide(sqlxrepos.NewUserRepository))
	must(c.Provide(sqlxrepos.NewBeneficiaryRepository))
	must(c.Provide(sqlxrepos.NewDocumentRepository))
	must(c.Provide(sqlxrepos.NewAttendanceRepository))
	must(c.Provide(newReportRepository))

	// services
	must(c.Provide(user.NewService))
	must(c.Provide(beneficiary.NewService))
	must(c.Provide(newDocumentService))
	must(c.Provide(newAttendanceService))
	must(c.Provide(newReportService))
	must(c.Provide(newDashboardService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
