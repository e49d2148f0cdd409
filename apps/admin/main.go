package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/core/timetable"
	emailsvc "github.com/schooldesk/schooldesk/services/email"
	logsvc "github.com/schooldesk/schooldesk/services/logger"
	"github.com/schooldesk/schooldesk/storage/database"
	inmemdb "github.com/schooldesk/schooldesk/storage/database/inmem"
	sqlxrepos "github.com/schooldesk/schooldesk/storage/database/sqlx"
)

var logger *logsvc.RollbarLogger

func main() {
	conf := core.NewConfig()

	logger = logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	// set up DB; connections are only made when needed
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	repo, err := newRosterRepository(conf, db)
	errAndDie(err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	timetable.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		out:        os.Stdout,
		db:         db.DB,
		svc:        timetable.NewService(repo, emailsvc.NewConsoleService(conf, logger), logger),
		validate:   validate,
		translator: translator,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}

func newRosterRepository(conf *core.Config, db *sqlx.DB) (timetable.Repository, error) {
	if conf.Roster.Source == core.RosterSourcePostgres {
		return sqlxrepos.NewRosterRepository(db), nil
	}
	memDB, err := inmemdb.OpenFixture(conf.Roster.FixturePath)
	if err != nil {
		return nil, err
	}
	return inmemdb.NewRosterRepository(memDB), nil
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
