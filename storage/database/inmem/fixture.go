package inmemdb

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/schooldesk/schooldesk/core/timetable"
)

type (
	rosterFixture struct {
		Slots    []string         `yaml:"slots"`
		Teachers []teacherFixture `yaml:"teachers"`
	}

	teacherFixture struct {
		ID        string                                 `yaml:"id"`
		Name      string                                 `yaml:"name"`
		Email     string                                 `yaml:"email"`
		Subjects  []string                               `yaml:"subjects"`
		Timetable map[string]map[string]timetable.Period `yaml:"timetable"`
	}
)

// ParseRoster decodes a YAML roster. Day keys may use any form timetable.ParseDay accepts
// and slot keys are normalized; a teacher booked twice in one slot is rejected.
func ParseRoster(data []byte) (timetable.Roster, error) {
	var fx rosterFixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return timetable.Roster{}, errors.Wrap(err, "decoding yaml")
	}

	roster := timetable.Roster{
		Slots:    make([]timetable.Slot, 0, len(fx.Slots)),
		Teachers: make([]timetable.Teacher, 0, len(fx.Teachers)),
	}
	for _, s := range fx.Slots {
		roster.Slots = append(roster.Slots, timetable.ParseSlot(s))
	}

	for _, tf := range fx.Teachers {
		teacher := timetable.Teacher{
			ID:        tf.ID,
			Name:      tf.Name,
			Email:     tf.Email,
			Subjects:  tf.Subjects,
			Timetable: make(timetable.Timetable),
		}
		for rawDay, slots := range tf.Timetable {
			day, ok := timetable.ParseDay(rawDay)
			if !ok {
				return timetable.Roster{}, fmt.Errorf("teacher %q: %w %q", tf.ID, timetable.ErrInvalidDay, rawDay)
			}
			for rawSlot, period := range slots {
				if err := teacher.Timetable.Assign(day, timetable.ParseSlot(rawSlot), period); err != nil {
					return timetable.Roster{}, fmt.Errorf("teacher %q, %s %s: %w", tf.ID, day, rawSlot, err)
				}
			}
		}
		roster.Teachers = append(roster.Teachers, teacher)
	}

	if err := roster.Validate(); err != nil {
		return timetable.Roster{}, err
	}
	return roster, nil
}
