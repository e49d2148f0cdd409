package timetable

import (
	"errors"
	"fmt"

	"github.com/schooldesk/schooldesk/core"
)

var (
	// errors
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrSlotTaken       = errors.New("teacher already has a period in this slot")
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidSlot     = errors.New("invalid time slot")
)

// Slot identifies a period within a school day, eg. "slot2" or "08:00-08:45".
type Slot string

// ParseSlot returns the normalized form of a slot identifier.
func ParseSlot(s string) Slot {
	return Slot(core.CleanString(s, true /* lower */))
}

func (s Slot) String() string { return string(s) }

// Period is a lesson assigned to a teacher.
type Period struct {
	Subject string `json:"subject" yaml:"subject"`
	Class   string `json:"class,omitempty" yaml:"class,omitempty"`
	Room    string `json:"room,omitempty" yaml:"room,omitempty"`
}

// Timetable is a teacher's weekly schedule: day -> slot -> period.
// A missing entry means the teacher is free.
type Timetable map[Day]map[Slot]Period

// Entry returns the period scheduled at (day, slot), if any.
func (tt Timetable) Entry(day Day, slot Slot) (Period, bool) {
	p, ok := tt[day][slot]
	return p, ok
}

// Busy reports whether a period is scheduled at (day, slot).
func (tt Timetable) Busy(day Day, slot Slot) bool {
	_, ok := tt.Entry(day, slot)
	return ok
}

// Assign schedules p at (day, slot). A teacher cannot hold two periods in the same slot.
func (tt Timetable) Assign(day Day, slot Slot, p Period) error {
	if !day.Valid() {
		return ErrInvalidDay
	}
	if slot == "" {
		return ErrInvalidSlot
	}
	if tt.Busy(day, slot) {
		return ErrSlotTaken
	}
	slots, ok := tt[day]
	if !ok {
		slots = make(map[Slot]Period)
		tt[day] = slots
	}
	slots[slot] = p
	return nil
}

func (tt Timetable) clone() Timetable {
	if tt == nil {
		return nil
	}
	c := make(Timetable, len(tt))
	for day, slots := range tt {
		cs := make(map[Slot]Period, len(slots))
		for slot, p := range slots {
			cs[slot] = p
		}
		c[day] = cs
	}
	return c
}

type Teacher struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Subjects  []string  `json:"subjects"`
	Timetable Timetable `json:"timetable,omitempty"`
}

// Teaches reports whether the teacher is qualified for subject (exact match).
func (t Teacher) Teaches(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t.
func (t Teacher) Clone() Teacher {
	c := t
	c.Subjects = append([]string(nil), t.Subjects...)
	c.Timetable = t.Timetable.clone()
	return c
}

// Roster is a snapshot of the school's slot grid, teachers and their timetables.
// The order of Teachers is the roster enumeration order.
type Roster struct {
	Slots    []Slot    `json:"slots"`
	Teachers []Teacher `json:"teachers"`
}

// Teacher finds a teacher by ID.
func (r Roster) Teacher(id string) (Teacher, error) {
	for _, t := range r.Teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return Teacher{}, ErrTeacherNotFound
}

// HasSlot reports whether slot belongs to the school's slot grid.
// A roster without a declared grid accepts any slot.
func (r Roster) HasSlot(slot Slot) bool {
	if len(r.Slots) == 0 {
		return slot != ""
	}
	for _, s := range r.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of r.
func (r Roster) Clone() Roster {
	c := Roster{
		Slots:    append([]Slot(nil), r.Slots...),
		Teachers: make([]Teacher, 0, len(r.Teachers)),
	}
	for _, t := range r.Teachers {
		c.Teachers = append(c.Teachers, t.Clone())
	}
	return c
}

// Validate checks the roster's structural invariants: unique teacher IDs
// and timetable keys in canonical form.
func (r Roster) Validate() error {
	seen := make(map[string]bool, len(r.Teachers))
	for _, t := range r.Teachers {
		if t.ID == "" {
			return fmt.Errorf("teacher %q: missing id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("teacher %q: duplicate id", t.ID)
		}
		seen[t.ID] = true
		for day, slots := range t.Timetable {
			if !day.Valid() {
				return fmt.Errorf("teacher %q: %w %q", t.ID, ErrInvalidDay, day)
			}
			for slot := range slots {
				if slot != ParseSlot(string(slot)) || !r.HasSlot(slot) {
					return fmt.Errorf("teacher %q: %w %q", t.ID, ErrInvalidSlot, slot)
				}
			}
		}
	}
	return nil
}
