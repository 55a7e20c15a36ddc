package main

import (
	"log"
	"os"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/session"
	emailsvc "github.com/kwanza/kocha/services/email"
	logsvc "github.com/kwanza/kocha/services/logger"
	notifsvc "github.com/kwanza/kocha/services/notification"
	"github.com/kwanza/kocha/storage/database"
	sqlxrepos "github.com/kwanza/kocha/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	appLogger := logsvc.NewRollbarLogger(logger, core.Conf)
	appLogger.Enable(!core.Conf.Debug)

	// set up DB; skip the ping for createdb since the DB may not exist yet
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	if len(os.Args) > 1 && os.Args[1] != "createdb" {
		errAndDie(db.Ping())
	}

	notifSvc := notifsvc.NewService(emailsvc.NewConsoleService(), appLogger)

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(db),
		sessionSvc: session.NewService(
			sqlxrepos.NewSessionRepository(db),
			sqlxrepos.NewClassRepository(db),
			sqlxrepos.NewStudentRepository(db),
			notifSvc,
			appLogger,
		),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
