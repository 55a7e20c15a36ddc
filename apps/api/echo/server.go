package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/academy"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/coach"
	"github.com/kwanza/kocha/core/court"
	"github.com/kwanza/kocha/core/report"
	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/student"
	"github.com/kwanza/kocha/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		UserSvc    *user.Service
		AcademySvc *academy.Service
		StudentSvc *student.Service
		CoachSvc   *coach.Service
		CourtSvc   *court.Service
		ClassSvc   *class.Service
		SessionSvc *session.Service
		ReportSvc  *report.Service

		Validate   *validator.Validate
		Translator ut.Translator
		Logger     core.Logger
		Shutdown   func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.Shutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc, s.opts.Validate)
	registerAcademyAPI(v1, jwt, s.opts.AcademySvc, s.opts.Validate)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc, s.opts.Validate)
	registerCoachAPI(v1, jwt, s.opts.CoachSvc, s.opts.Validate)
	registerCourtAPI(v1, jwt, s.opts.CourtSvc, s.opts.Validate)
	registerClassAPI(v1, jwt, s.opts.ClassSvc, s.opts.Validate)
	registerSessionAPI(v1, jwt, s.opts.SessionSvc, s.opts.UserSvc, s.opts.Validate)
	registerReportAPI(v1, jwt, s.opts.ReportSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Kocha API!")
}
