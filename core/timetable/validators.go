package timetable

import (
	"regexp"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/schooldesk/schooldesk/core"
)

const dateLayout = "2006-01-02"

var (
	slotIDTag   = "slotid"
	slotIDText  = "invalid time slot"
	slotIDRegex = regexp.MustCompile(`^[\w:.\- ]+$`)

	dayMatchTag  = "daymatch"
	dayMatchText = "date does not fall on the given day"

	dateTag  = "datetime"
	dateText = "date must be formatted as YYYY-MM-DD"
)

// InitValidators registers the timetable validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(slotIDTag, slotIDValidation)
	core.RegisterCustomTranslation(validate, translator, slotIDTag, slotIDText)

	validate.RegisterStructValidation(vacancyStructValidation, VacancyQuery{})
	core.RegisterCustomTranslation(validate, translator, dayMatchTag, dayMatchText)
	core.RegisterCustomTranslation(validate, translator, dateTag, dateText, true)
}

// VacancyQuery is a vacancy descriptor as supplied by callers (query string, JSON body, CLI flags).
// Day may be omitted when Date is set; the day is then derived from the date.
type VacancyQuery struct {
	TeacherID string `json:"teacher_id" query:"teacher_id" validate:"required"`
	Subject   string `json:"subject" query:"subject" validate:"required,alphanum_"`
	Slot      string `json:"slot" query:"slot" validate:"required,slotid"`
	Day       string `json:"day" query:"day" validate:"required_without=Date"`
	Date      string `json:"date" query:"date" validate:"omitempty,datetime=2006-01-02"`
	Class     string `json:"class" query:"class"`
	Room      string `json:"room" query:"room"`
}

func (vq *VacancyQuery) Clean() {
	vq.TeacherID = core.CleanString(vq.TeacherID)
	vq.Subject = core.CleanString(vq.Subject)
	vq.Slot = core.CleanString(vq.Slot)
	vq.Day = core.CleanString(vq.Day)
	vq.Date = core.CleanString(vq.Date)
	vq.Class = core.CleanString(vq.Class)
	vq.Room = core.CleanString(vq.Room)
}

func (vq *VacancyQuery) Validate(validate *validator.Validate) error {
	vq.Clean()
	return validate.Struct(vq)
}

// Vacancy converts a validated query into a Vacancy.
// An unrecognized day is kept invalid rather than rejected: it simply matches nobody.
func (vq VacancyQuery) Vacancy() Vacancy {
	v := Vacancy{
		TeacherID: vq.TeacherID,
		Subject:   vq.Subject,
		Slot:      ParseSlot(vq.Slot),
		Class:     vq.Class,
		Room:      vq.Room,
	}
	if vq.Day != "" {
		if day, ok := ParseDay(vq.Day); ok {
			v.Day = day
		} else {
			v.Day = Day(core.CleanString(vq.Day, true /* lower */))
		}
	} else if date, err := time.Parse(dateLayout, vq.Date); err == nil {
		v.Day = DayOf(date)
	}
	return v
}

// ConfirmRequest selects a substitute for a vacancy.
type ConfirmRequest struct {
	VacancyQuery
	SubstituteID string `json:"substitute_id" validate:"required"`
}

func (cr *ConfirmRequest) Validate(validate *validator.Validate) error {
	cr.VacancyQuery.Clean()
	cr.SubstituteID = core.CleanString(cr.SubstituteID)
	return validate.Struct(cr)
}

// Custom Validators

func slotIDValidation(fl validator.FieldLevel) bool {
	return slotIDRegex.MatchString(fl.Field().String())
}

// vacancyStructValidation checks that Day and Date agree when both are provided.
func vacancyStructValidation(sl validator.StructLevel) {
	vq, ok := sl.Current().Interface().(VacancyQuery)
	if !ok || vq.Day == "" || vq.Date == "" {
		return
	}
	date, err := time.Parse(dateLayout, vq.Date)
	if err != nil {
		return // reported by the datetime tag
	}
	if day, ok := ParseDay(vq.Day); ok && day != DayOf(date) {
		sl.ReportError(vq.Date, "date", "Date", dayMatchTag, "")
	}
}
