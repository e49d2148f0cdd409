package inmemdb

import (
	"context"

	"github.com/schooldesk/schooldesk/core/timetable"
)

type rosterRepository struct {
	db *rosterTable
}

func NewRosterRepository(db *DB) timetable.Repository {
	return &rosterRepository{db: db.roster}
}

// Roster returns a deep copy of the stored roster: callers never share state with the store.
func (repo *rosterRepository) Roster(ctx context.Context) (timetable.Roster, error) {
	if err := ctx.Err(); err != nil {
		return timetable.Roster{}, err
	}

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.r.Clone(), nil
}
