package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/kwanza/kocha/apps/api/echo"
	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/academy"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/coach"
	"github.com/kwanza/kocha/core/court"
	"github.com/kwanza/kocha/core/report"
	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/student"
	"github.com/kwanza/kocha/core/user"
	emailsvc "github.com/kwanza/kocha/services/email"
	logsvc "github.com/kwanza/kocha/services/logger"
	notifsvc "github.com/kwanza/kocha/services/notification"
	"github.com/kwanza/kocha/storage/database"
	sqlxrepos "github.com/kwanza/kocha/storage/database/sqlx"
)

func main() {
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	notifSvc := notifsvc.NewService(mailSvc, logger)
	validate, translator := core.NewValidator()

	classRepo := sqlxrepos.NewClassRepository(db)
	studentRepo := sqlxrepos.NewStudentRepository(db)
	sessionRepo := sqlxrepos.NewSessionRepository(db)

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, validate, translator)
	academySvc := academy.NewService(sqlxrepos.NewAcademyRepository(db))
	studentSvc := student.NewService(studentRepo)
	coachSvc := coach.NewService(sqlxrepos.NewCoachRepository(db))
	courtSvc := court.NewService(sqlxrepos.NewCourtRepository(db))
	classSvc := class.NewService(classRepo)
	sessionSvc := session.NewService(sessionRepo, classRepo, studentRepo, notifSvc, logger)
	reportSvc := report.NewService(sessionRepo)

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:    core.Conf.Server.Addr(),
		UserSvc:    usrSvc,
		AcademySvc: academySvc,
		StudentSvc: studentSvc,
		CoachSvc:   coachSvc,
		CourtSvc:   courtSvc,
		ClassSvc:   classSvc,
		SessionSvc: sessionSvc,
		ReportSvc:  reportSvc,
		Validate:   validate,
		Translator: translator,
		Logger:     logger,
		Shutdown:   func() { shutdown <- syscall.SIGTERM },
	})

	go server.Start()

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
