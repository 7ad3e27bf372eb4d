package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
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
	emailsvc "github.com/trezcool/ratiba/services/email"
	logsvc "github.com/trezcool/ratiba/services/logger"
	"github.com/trezcool/ratiba/storage/database"
	sqlxrepos "github.com/trezcool/ratiba/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Fatal("Failed to close DB", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	// repositories
	schoolRepo := sqlxrepos.NewSchoolRepository(db)
	userRepo := sqlxrepos.NewUserRepository(db)
	fieldRepo := sqlxrepos.NewFieldRepository(db)
	scheduleRepo := sqlxrepos.NewScheduleRepository(db)
	breakRepo := sqlxrepos.NewBreakRepository(db)
	levelRepo := sqlxrepos.NewLevelRepository(db)
	groupRepo := sqlxrepos.NewGroupRepository(db)
	subjectRepo := sqlxrepos.NewSubjectRepository(db)
	teacherRepo := sqlxrepos.NewTeacherRepository(db)
	tfRepo := sqlxrepos.NewTeacherFieldRepository(db)
	classRepo := sqlxrepos.NewClassRepository(db)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:     conf.Server.Addr,
			Logger:      logger,
			SchoolSvc:   school.NewService(schoolRepo),
			UserSvc:     user.NewService(userRepo, schoolRepo, mailSvc),
			FieldSvc:    field.NewService(fieldRepo, schoolRepo),
			ScheduleSvc: schedule.NewService(scheduleRepo, breakRepo, schoolRepo),
			LevelSvc:    level.NewService(levelRepo, scheduleRepo),
			GroupSvc:    group.NewService(groupRepo, levelRepo, schoolRepo, userRepo),
			SubjectSvc:  subject.NewService(subjectRepo, groupRepo, fieldRepo),
			TeacherSvc:  teacher.NewService(teacherRepo, tfRepo, userRepo, schoolRepo, fieldRepo),
			ClassSvc:    class.NewService(classRepo, subjectRepo, tfRepo),
		},
		shutdown,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
