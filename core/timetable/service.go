package timetable

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/schooldesk/schooldesk/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotACandidate = errors.New("teacher is not an available substitute for this period")
)

type (
	// Repository is the roster & timetable data source.
	Repository interface {
		// Roster returns a snapshot of the slot grid, teachers and timetables, consistent
		// for the duration of one call. Callers may not mutate shared state through it.
		Roster(ctx context.Context) (Roster, error)
	}

	Service interface {
		Roster(ctx context.Context) (Roster, error)
		Teacher(ctx context.Context, id string) (Teacher, error)
		FindSubstitutes(ctx context.Context, v Vacancy) ([]Candidate, error)
		Confirm(ctx context.Context, v Vacancy, substituteID string) (Substitution, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}

	// Substitution is a confirmed choice of substitute for a vacancy. It is not stored.
	Substitution struct {
		ID          string    `json:"id"`
		Vacancy     Vacancy   `json:"vacancy"`
		Substitute  Candidate `json:"substitute"`
		ConfirmedAt time.Time `json:"confirmed_at"` // UTC
	}

	substitutionMailData struct {
		SubstituteName string
		AbsentName     string
		Subject        string
		Day            string
		Slot           string
		Class          string
		Room           string
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *service) Roster(ctx context.Context) (Roster, error) {
	roster, err := svc.repo.Roster(ctx)
	if err != nil {
		return Roster{}, errors.Wrap(err, "loading roster")
	}
	return roster, nil
}

func (svc *service) Teacher(ctx context.Context, id string) (Teacher, error) {
	roster, err := svc.Roster(ctx)
	if err != nil {
		return Teacher{}, err
	}
	return roster.Teacher(id)
}

func (svc *service) FindSubstitutes(ctx context.Context, v Vacancy) ([]Candidate, error) {
	roster, err := svc.Roster(ctx)
	if err != nil {
		return nil, err
	}
	candidates := FindSubstitutes(roster, v)
	svc.logger.Debug(
		fmt.Sprintf("resolved %d substitute(s)", len(candidates)),
		map[string]interface{}{
			"teacher_id": v.TeacherID,
			"subject":    v.Subject,
			"day":        v.Day,
			"slot":       v.Slot,
		},
	)
	return candidates, nil
}

// Confirm accepts substituteID for v if they are still a candidate on a fresh roster snapshot,
// then notifies the substitute (and the absent teacher, when known) by email.
func (svc *service) Confirm(ctx context.Context, v Vacancy, substituteID string) (Substitution, error) {
	roster, err := svc.Roster(ctx)
	if err != nil {
		return Substitution{}, err
	}

	var chosen *Candidate
	for _, c := range FindSubstitutes(roster, v) {
		if c.TeacherID == substituteID {
			c := c
			chosen = &c
			break
		}
	}
	if chosen == nil {
		return Substitution{}, core.NewValidationError(
			ErrNotACandidate,
			core.FieldError{Field: "substitute_id", Error: ErrNotACandidate.Error()},
		)
	}

	sub := Substitution{
		ID:          uuid.New().String(),
		Vacancy:     v,
		Substitute:  *chosen,
		ConfirmedAt: NowFunc().UTC(),
	}

	substitute, _ := roster.Teacher(substituteID)
	absent, absentErr := roster.Teacher(v.TeacherID)
	svc.sendSubstitutionMail(roster, substitute, absent, absentErr == nil, v)
	svc.logger.Info(
		fmt.Sprintf("substitution %s confirmed", sub.ID),
		map[string]interface{}{"substitute_id": substituteID, "teacher_id": v.TeacherID},
	)
	return sub, nil
}

func (svc *service) sendSubstitutionMail(roster Roster, substitute, absent Teacher, absentKnown bool, v Vacancy) {
	if substitute.Email == "" {
		svc.logger.Warn(fmt.Sprintf("substitute %s has no email: not notified", substitute.ID))
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: substitute.Name, Address: substitute.Email}},
		Subject:      fmt.Sprintf("Substitution request: %s, %s %s", v.Subject, v.Day.Title(), v.Slot),
		TemplateName: "substitution_request",
		TemplateData: substitutionMailData{
			SubstituteName: substitute.Name,
			AbsentName:     absent.Name,
			Subject:        v.Subject,
			Day:            v.Day.Title(),
			Slot:           v.Slot.String(),
			Class:          v.Class,
			Room:           v.Room,
		},
	}
	if absentKnown && absent.Email != "" {
		msg.Cc = []mail.Address{{Name: absent.Name, Address: absent.Email}}
	}
	if plan := dayPlan(roster, absent, v.Day); plan != "" {
		fname := fmt.Sprintf("%s-%s.txt", absent.ID, v.Day)
		if err := msg.Attach(strings.NewReader(plan), fname, "text/plain; charset=utf-8"); err != nil {
			svc.logger.Warn(fmt.Sprintf("attaching %s: %v", fname, err), err)
		}
	}
	svc.mailSvc.SendMessages(msg)
}

// dayPlan lists the periods t holds on day, in slot grid order. Empty when t is free all day.
func dayPlan(roster Roster, t Teacher, day Day) string {
	periods := t.Timetable[day]
	if len(periods) == 0 {
		return ""
	}

	rank := make(map[Slot]int, len(roster.Slots))
	for i, s := range roster.Slots {
		rank[s] = i
	}
	slots := make([]Slot, 0, len(periods))
	for s := range periods {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		ri, iok := rank[slots[i]]
		rj, jok := rank[slots[j]]
		if iok != jok {
			return iok // slots outside the grid go last
		}
		if iok && ri != rj {
			return ri < rj
		}
		return slots[i] < slots[j]
	})

	b := new(strings.Builder)
	_, _ = fmt.Fprintf(b, "%s, %s\n", t.Name, day.Title())
	for _, s := range slots {
		p := periods[s]
		_, _ = fmt.Fprintf(b, "%-8s %-12s %-6s %s\n", s, p.Subject, p.Class, p.Room)
	}
	return b.String()
}
