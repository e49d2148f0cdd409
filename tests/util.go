package testutil

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/core/timetable"
)

// Booking is a (day, slot) pair a teacher is busy in, eg. {"Mon", "slot2"}.
type Booking [2]string

// NewTeacher builds a teacher teaching subjects[0] in every booked slot.
func NewTeacher(t *testing.T, id, name, email string, subjects []string, bookings ...Booking) timetable.Teacher {
	t.Helper()

	tt := make(timetable.Timetable)
	for _, b := range bookings {
		day, ok := timetable.ParseDay(b[0])
		if !ok {
			t.Fatalf("NewTeacher() bad day %q", b[0])
		}
		if err := tt.Assign(day, timetable.ParseSlot(b[1]), timetable.Period{Subject: subjects[0]}); err != nil {
			t.Fatalf("NewTeacher() failed: %v", err)
		}
	}
	return timetable.Teacher{ID: id, Name: name, Email: email, Subjects: subjects, Timetable: tt}
}

// Roster returns a small school: T1 & T2 teach Math (T1 is busy on Monday slot2), T3 teaches Science.
func Roster(t *testing.T) timetable.Roster {
	t.Helper()

	return timetable.Roster{
		Slots: []timetable.Slot{"slot1", "slot2", "slot3"},
		Teachers: []timetable.Teacher{
			NewTeacher(t, "T1", "Tina", "tina@school.test", []string{"Math"}, Booking{"Mon", "slot2"}),
			NewTeacher(t, "T2", "Tom", "tom@school.test", []string{"Math"}),
			NewTeacher(t, "T3", "Tess", "tess@school.test", []string{"Science"}),
		},
	}
}

// NewValidator returns a validator & translator with every app validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	timetable.InitValidators(validate, translator)
	return validate, translator
}

type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
