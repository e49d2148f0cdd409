package timetable

import "fmt"

// Availability ranks how free a teacher is for a vacancy. Higher is better.
// It is ordered independently of its display text.
type Availability int

const (
	Unavailable Availability = iota
	Available
)

var availabilityLabels = map[Availability]string{
	Unavailable: "Unavailable",
	Available:   "Available",
}

func (a Availability) String() string {
	if l, ok := availabilityLabels[a]; ok {
		return l
	}
	return fmt.Sprintf("Availability(%d)", int(a))
}

func (a Availability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Availability) UnmarshalText(text []byte) error {
	for av, l := range availabilityLabels {
		if l == string(text) {
			*a = av
			return nil
		}
	}
	return fmt.Errorf("unknown availability %q", text)
}

// Vacancy is a period needing coverage because its teacher is absent.
type Vacancy struct {
	TeacherID string `json:"teacher_id"`
	Subject   string `json:"subject"`
	Slot      Slot   `json:"slot"`
	Day       Day    `json:"day"`
	Class     string `json:"class,omitempty"`
	Room      string `json:"room,omitempty"`
}

// Candidate is a teacher eligible to cover a vacancy.
type Candidate struct {
	TeacherID    string       `json:"id"`
	Name         string       `json:"name"`
	Subject      string       `json:"subject"`
	Availability Availability `json:"availability"`
}

// FindSubstitutes lists the teachers of roster who can cover v: everyone but the absent teacher
// who is qualified for v.Subject and has no period at (v.Day, v.Slot).
// Candidates come in roster order. An empty result is a legitimate outcome, including for
// a day or slot the roster does not know about.
func FindSubstitutes(roster Roster, v Vacancy) []Candidate {
	candidates := make([]Candidate, 0)
	if !v.Day.Valid() || !roster.HasSlot(v.Slot) {
		return candidates
	}

	for _, t := range roster.Teachers {
		if t.ID == v.TeacherID {
			continue
		}
		if !t.Teaches(v.Subject) {
			continue
		}
		if t.Timetable.Busy(v.Day, v.Slot) {
			continue
		}
		candidates = append(candidates, Candidate{
			TeacherID:    t.ID,
			Name:         t.Name,
			Subject:      v.Subject,
			Availability: Available,
		})
	}
	return candidates
}
