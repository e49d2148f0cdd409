package dig_container

import (
	"fmt"
	"io"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/schooldesk/schooldesk/apps/api/echo"
	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/core/timetable"
	emailsvc "github.com/schooldesk/schooldesk/services/email"
	logsvc "github.com/schooldesk/schooldesk/services/logger"
	"github.com/schooldesk/schooldesk/storage/database"
	inmemdb "github.com/schooldesk/schooldesk/storage/database/inmem"
	sqlxrepos "github.com/schooldesk/schooldesk/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// StorageCloser releases the roster source (closes the DB connection pool, if any).
type StorageCloser io.Closer

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newRosterRepository returns the roster source selected by conf.Roster.Source.
func newRosterRepository(conf *core.Config, loggerParam DBLoggerParam) (timetable.Repository, StorageCloser) {
	logger := loggerParam.Logger

	switch conf.Roster.Source {
	case core.RosterSourcePostgres:
		setUp := func() (timetable.Repository, StorageCloser, error) {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, nil, err
			}
			db, err := database.Open(conf)
			if err != nil {
				return nil, nil, err
			}
			if err = database.Ping(db, 30); err != nil {
				return nil, nil, err
			}
			if err = database.Migrate(db.DB); err != nil {
				return nil, nil, err
			}
			return sqlxrepos.NewRosterRepository(db), db, nil
		}

		repo, closer, err := setUp()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		return repo, closer

	case core.RosterSourceMemory:
		db, err := inmemdb.OpenFixture(conf.Roster.FixturePath)
		if err != nil {
			logger.Fatal(fmt.Sprintf("loading roster fixture: %v", err), err)
		}
		logger.Info(fmt.Sprintf("roster loaded from %s", conf.Roster.FixturePath))
		return inmemdb.NewRosterRepository(db), closerFunc(func() error { return nil })

	default:
		logger.Fatal(fmt.Sprintf("unknown roster source %q", conf.Roster.Source))
		return nil, nil
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	svc timetable.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(
		echoapi.Options{
			Address:        conf.Server.Address,
			Debug:          conf.Debug,
			TestMode:       conf.TestMode,
			DisableReqLogs: conf.Server.DisableReqLogs,
		},
		echoapi.Deps{
			Logger:       logger,
			TimetableSvc: svc,
			Validate:     validate,
			Translator:   translator,
		},
	)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRosterRepository))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(timetable.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
