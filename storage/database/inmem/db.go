package inmemdb

import (
	"io/ioutil"
	"sync"

	"github.com/pkg/errors"

	"github.com/schooldesk/schooldesk/core/timetable"
)

type (
	DB struct {
		roster *rosterTable
	}

	rosterTable struct {
		r     timetable.Roster
		mutex sync.RWMutex
	}
)

// Open returns an empty in-memory database.
func Open() *DB {
	return &DB{roster: &rosterTable{}}
}

// OpenFixture returns an in-memory database loaded from a YAML roster fixture.
func OpenFixture(path string) (*DB, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading roster fixture")
	}
	roster, err := ParseRoster(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing roster fixture %s", path)
	}

	db := Open()
	if err = db.Load(roster); err != nil {
		return nil, err
	}
	return db, nil
}

// Load replaces the stored roster with a copy of roster.
func (db *DB) Load(roster timetable.Roster) error {
	if err := roster.Validate(); err != nil {
		return errors.Wrap(err, "invalid roster")
	}

	db.roster.mutex.Lock()
	defer db.roster.mutex.Unlock()
	db.roster.r = roster.Clone()
	return nil
}
