package timetable

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk/core"
)

func newValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func fieldErrors(t *testing.T, translator ut.Translator, err error) map[string]string {
	t.Helper()
	verr, ok := core.TranslateValidationErrors(err, translator).(*core.ValidationError)
	require.True(t, ok, "expected validation errors, got %v", err)
	flds := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		flds[f.Field] = f.Error
	}
	return flds
}

func TestVacancyQuery_Validate(t *testing.T) {
	validate, translator := newValidate()

	tests := []struct {
		name       string
		query      VacancyQuery
		wantFields []string
	}{
		{name: "valid with day", query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: "Mon"}},
		{name: "valid with date", query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Date: "2026-10-19"}},
		{name: "valid with matching day & date", query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: "monday", Date: "2026-10-19"}},
		{name: "unknown day is not a validation error", query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: "someday"}},
		{name: "empty", query: VacancyQuery{}, wantFields: []string{"teacher_id", "subject", "slot", "day"}},
		{name: "blank strings", query: VacancyQuery{TeacherID: " ", Subject: "\t", Slot: " ", Day: " "}, wantFields: []string{"teacher_id", "subject", "slot", "day"}},
		{name: "subject in another script", query: VacancyQuery{TeacherID: "t1", Subject: "Français 2", Slot: "slot2", Day: "Mon"}},
		{name: "bad subject", query: VacancyQuery{TeacherID: "t1", Subject: "Math;--", Slot: "slot2", Day: "mon"}, wantFields: []string{"subject"}},
		{name: "bad slot", query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot;2", Day: "mon"}, wantFields: []string{"slot"}},
		{name: "bad date", query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Date: "19/10/2026"}, wantFields: []string{"date"}},
		{name: "day & date disagree", query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: "tue", Date: "2026-10-19"}, wantFields: []string{"date"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate(validate)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			flds := fieldErrors(t, translator, err)
			for _, f := range tt.wantFields {
				assert.Contains(t, flds, f)
			}
			assert.Len(t, flds, len(tt.wantFields))
		})
	}
}

func TestVacancyQuery_Vacancy(t *testing.T) {
	tests := []struct {
		name  string
		query VacancyQuery
		want  Vacancy
	}{
		{
			name:  "day normalized",
			query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: " Slot2 ", Day: "WED"},
			want:  Vacancy{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: Wednesday},
		},
		{
			name:  "day derived from the vacancy date",
			query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Date: "2026-10-23", Class: "5A", Room: "B12"},
			want:  Vacancy{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: Friday, Class: "5A", Room: "B12"},
		},
		{
			name:  "unknown day stays invalid",
			query: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: "Someday"},
			want:  Vacancy{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: Day("someday")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			q.Clean()
			got := q.Vacancy()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmRequest_Validate(t *testing.T) {
	validate, translator := newValidate()

	ok := ConfirmRequest{
		VacancyQuery: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: "mon"},
		SubstituteID: " t2 ",
	}
	require.NoError(t, ok.Validate(validate))
	assert.Equal(t, "t2", ok.SubstituteID)

	missing := ConfirmRequest{VacancyQuery: VacancyQuery{TeacherID: "t1", Subject: "Math", Slot: "slot2", Day: "tue", Date: "2026-10-19"}}
	flds := fieldErrors(t, translator, missing.Validate(validate))
	assert.Equal(t, "this field is required", flds["substitute_id"])
	assert.Equal(t, dayMatchText, flds["date"])
}
