package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/session"
)

type (
	Options struct {
		Address        string
		AppName        string
		Debug          bool
		TestMode       bool
		DisableReqLogs bool
		Location       *time.Location // resolves "today"
		Session        *session.Session
		Logger         core.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	api := &tuitionAPI{sess: s.opts.Session, loc: s.opts.Location}
	registerStudentAPI(v1, api)
	registerScheduleAPI(v1, api)
	registerAttendanceAPI(v1, api)
	registerFeeAPI(v1, api)
	v1.GET("/dashboard", api.dashboard)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.AppName+" API!")
}
