package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/class"
	"github.com/trezcool/ratiba/core/field"
	"github.com/trezcool/ratiba/core/group"
	"github.com/trezcool/ratiba/core/level"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/school"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger

		SchoolSvc   *school.Service
		UserSvc     *user.Service
		FieldSvc    *field.Service
		ScheduleSvc *schedule.Service
		LevelSvc    *level.Service
		GroupSvc    *group.Service
		SubjectSvc  *subject.Service
		TeacherSvc  *teacher.Service
		ClassSvc    *class.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		SignalShutdown()
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan<- os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options, shutdown chan<- os.Signal) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: shutdown,
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

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerSchoolAPI(v1, s.opts.SchoolSvc)
	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerFieldAPI(v1, s.opts.FieldSvc)
	registerScheduleAPI(v1, s.opts.ScheduleSvc)
	registerBreakAPI(v1, s.opts.ScheduleSvc)
	registerLevelAPI(v1, s.opts.LevelSvc)
	registerGroupAPI(v1, s.opts.GroupSvc)
	registerSubjectAPI(v1, s.opts.SubjectSvc)
	registerTeacherAPI(v1, s.opts.TeacherSvc)
	registerClassAPI(v1, s.opts.ClassSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// SignalShutdown tells the app to initiate a graceful shutdown.
func (s *server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Ratiba API!")
}
