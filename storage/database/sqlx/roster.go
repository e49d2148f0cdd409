package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/schooldesk/schooldesk/core/timetable"
)

const (
	slotsQuery    = `SELECT id FROM time_slot ORDER BY position, id`
	teachersQuery = `SELECT id, name, email FROM teacher ORDER BY position, id`
	subjectsQuery = `SELECT teacher_id, subject FROM teacher_subject ORDER BY teacher_id, subject`
	entriesQuery  = `SELECT teacher_id, day, slot_id, subject, class, room FROM timetable_entry`
)

type (
	slotRow struct {
		ID string `db:"id"`
	}

	teacherRow struct {
		ID    string      `db:"id"`
		Name  string      `db:"name"`
		Email null.String `db:"email"`
	}

	subjectRow struct {
		TeacherID string `db:"teacher_id"`
		Subject   string `db:"subject"`
	}

	entryRow struct {
		TeacherID string      `db:"teacher_id"`
		Day       string      `db:"day"`
		SlotID    string      `db:"slot_id"`
		Subject   string      `db:"subject"`
		Class     null.String `db:"class"`
		Room      null.String `db:"room"`
	}
)

type rosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) timetable.Repository {
	return &rosterRepository{db: db}
}

// Roster reads the whole roster inside one read-only transaction so the snapshot is consistent.
func (repo *rosterRepository) Roster(ctx context.Context) (_ timetable.Roster, err error) {
	tx, err := repo.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return timetable.Roster{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		slots    []slotRow
		teachers []teacherRow
		subjects []subjectRow
		entries  []entryRow
	)
	if err = tx.SelectContext(ctx, &slots, slotsQuery); err != nil {
		return timetable.Roster{}, errors.Wrap(err, "querying time slots")
	}
	if err = tx.SelectContext(ctx, &teachers, teachersQuery); err != nil {
		return timetable.Roster{}, errors.Wrap(err, "querying teachers")
	}
	if err = tx.SelectContext(ctx, &subjects, subjectsQuery); err != nil {
		return timetable.Roster{}, errors.Wrap(err, "querying teacher subjects")
	}
	if err = tx.SelectContext(ctx, &entries, entriesQuery); err != nil {
		return timetable.Roster{}, errors.Wrap(err, "querying timetable entries")
	}
	if err = tx.Commit(); err != nil {
		return timetable.Roster{}, errors.Wrap(err, "committing transaction")
	}

	return buildRoster(slots, teachers, subjects, entries)
}

func buildRoster(slots []slotRow, teachers []teacherRow, subjects []subjectRow, entries []entryRow) (timetable.Roster, error) {
	roster := timetable.Roster{
		Slots:    make([]timetable.Slot, 0, len(slots)),
		Teachers: make([]timetable.Teacher, 0, len(teachers)),
	}
	for _, s := range slots {
		roster.Slots = append(roster.Slots, timetable.ParseSlot(s.ID))
	}

	index := make(map[string]int, len(teachers))
	for i, t := range teachers {
		index[t.ID] = i
		roster.Teachers = append(roster.Teachers, timetable.Teacher{
			ID:        t.ID,
			Name:      t.Name,
			Email:     t.Email.String,
			Subjects:  make([]string, 0),
			Timetable: make(timetable.Timetable),
		})
	}

	for _, s := range subjects {
		i, ok := index[s.TeacherID]
		if !ok {
			continue
		}
		roster.Teachers[i].Subjects = append(roster.Teachers[i].Subjects, s.Subject)
	}

	for _, e := range entries {
		i, ok := index[e.TeacherID]
		if !ok {
			continue
		}
		day, ok := timetable.ParseDay(e.Day)
		if !ok {
			return timetable.Roster{}, fmt.Errorf("teacher %q: %w %q", e.TeacherID, timetable.ErrInvalidDay, e.Day)
		}
		period := timetable.Period{Subject: e.Subject, Class: e.Class.String, Room: e.Room.String}
		if err := roster.Teachers[i].Timetable.Assign(day, timetable.ParseSlot(e.SlotID), period); err != nil {
			return timetable.Roster{}, fmt.Errorf("teacher %q, %s %s: %w", e.TeacherID, day, e.SlotID, err)
		}
	}

	if err := roster.Validate(); err != nil {
		return timetable.Roster{}, errors.Wrap(err, "invalid roster")
	}
	return roster, nil
}
