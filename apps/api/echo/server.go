package echoapi

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/kat-co/vala"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/attendance"
	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/dashboard"
	"github.com/trezcool/divyang/core/document"
	"github.com/trezcool/divyang/core/report"
	"github.com/trezcool/divyang/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool
		// SignalShutdown is called when a handler fails with a shutdown error.
		SignalShutdown func()

		UserSvc        *user.Service
		BeneficiarySvc *beneficiary.Service
		DocumentSvc    *document.Service
		AttendanceSvc  *attendance.Service
		ReportSvc      *report.Service
		DashboardSvc   *dashboard.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
		auth *authenticator
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	vala.BeginValidation().Validate(
		vala.IsNotNil(opts.Conf, "Conf"),
		vala.IsNotNil(opts.Logger, "Logger"),
		vala.IsNotNil(opts.UserSvc, "UserSvc"),
		vala.IsNotNil(opts.BeneficiarySvc, "BeneficiarySvc"),
		vala.IsNotNil(opts.DocumentSvc, "DocumentSvc"),
		vala.IsNotNil(opts.AttendanceSvc, "AttendanceSvc"),
		vala.IsNotNil(opts.ReportSvc, "ReportSvc"),
		vala.IsNotNil(opts.DashboardSvc, "DashboardSvc"),
	).CheckAndPanic()

	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
		auth: newAuthenticator(opts.Conf, opts.UserSvc),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{conf.FrontendBaseURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	s.app.Use(middleware.BodyLimit(bodyLimit(conf.Upload.MaxSizeMB)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)
	if conf.Storage.Driver == "local" && conf.Storage.LocalRoot != "" {
		root := conf.Storage.LocalRoot
		if !filepath.IsAbs(root) {
			root = filepath.Join(conf.WorkDir, root)
		}
		s.app.Static("/media", root)
	}

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.auth.jwtConfig)

	registerUserAPI(v1, jwt, s.auth, s.opts.UserSvc)
	registerBeneficiaryAPI(v1, jwt, s.opts.BeneficiarySvc, s.opts.DocumentSvc)
	registerAttendanceAPI(v1, jwt, s.opts.AttendanceSvc)
	registerDocumentAPI(v1, jwt, s.opts.DocumentSvc)
	registerReportAPI(v1, jwt, s.opts.ReportSvc)
	registerDashboardAPI(v1, jwt, s.opts.DashboardSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Server.Host)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.Conf.AppName+" API!")
}

// bodyLimit leaves 1MB of room for the multipart envelope around an upload.
func bodyLimit(maxSizeMB int) string {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return strconv.Itoa(maxSizeMB+1) + "M"
}
