package echoapi_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk/core/timetable"
	testutil "github.com/schooldesk/schooldesk/tests"
)

func substitutesPath(teacherID, subject, slot, day, date string) string {
	v := make(url.Values)
	for key, val := range map[string]string{
		"teacher_id": teacherID,
		"subject":    subject,
		"slot":       slot,
		"day":        day,
		"date":       date,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return "/v1/substitutes?" + v.Encode()
}

func Test_timetableApi_findSubstitutes(t *testing.T) {
	app := setup(t)

	tom := timetable.Candidate{TeacherID: "T2", Name: "Tom", Subject: "Math", Availability: timetable.Available}
	tina := timetable.Candidate{TeacherID: "T1", Name: "Tina", Subject: "Math", Availability: timetable.Available}
	tess := timetable.Candidate{TeacherID: "T3", Name: "Tess", Subject: "Science", Availability: timetable.Available}
	empty := []byte(`[]`)

	tests := []httpTest{
		{
			name:     "busy teacher excluded",
			path:     substitutesPath("T9", "Math", "slot2", "Mon", ""),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []timetable.Candidate{tom}),
		},
		{
			name:     "another slot: roster order",
			path:     substitutesPath("T9", "Math", "slot1", "monday", ""),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []timetable.Candidate{tina, tom}),
		},
		{
			name:     "absent teacher excluded",
			path:     substitutesPath("T2", "Math", "slot1", "MON", ""),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []timetable.Candidate{tina}),
		},
		{
			name:     "another subject",
			path:     substitutesPath("T9", "Science", "slot2", "1", ""),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []timetable.Candidate{tess}),
		},
		{
			name:     "nobody qualified",
			path:     substitutesPath("T9", "Art", "slot2", "Mon", ""),
			wantCode: http.StatusOK,
			wantData: empty,
		},
		{
			name:     "unknown day",
			path:     substitutesPath("T9", "Math", "slot2", "Someday", ""),
			wantCode: http.StatusOK,
			wantData: empty,
		},
		{
			name:     "slot not in grid",
			path:     substitutesPath("T9", "Math", "slot9", "Mon", ""),
			wantCode: http.StatusOK,
			wantData: empty,
		},
		{
			name:     "day derived from date",
			path:     substitutesPath("T9", "Math", "slot2", "", "2024-01-01"), // a Monday
			wantCode: http.StatusOK,
			wantData: marshallObj(t, []timetable.Candidate{tom}),
		},
		{
			name:     "missing fields",
			path:     "/v1/substitutes",
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"teacher_id": "this field is required",
				"subject":    "this field is required",
				"slot":       "this field is required",
				"day":        "this field is required",
			}),
		},
		{
			name:     "bad date",
			path:     substitutesPath("T9", "Math", "slot2", "", "01/01/2024"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"date": "date must be formatted as YYYY-MM-DD"}),
		},
		{
			name:     "day & date disagree",
			path:     substitutesPath("T9", "Math", "slot2", "Tue", "2024-01-01"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"date": "date does not fall on the given day"}),
		},
		{
			name:     "bad slot",
			path:     substitutesPath("T9", "Math", "slot#2", "Mon", ""),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"slot": "invalid time slot"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodGet
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}

func Test_timetableApi_findSubstitutes_freshSnapshot(t *testing.T) {
	app := setup(t)
	tt := httpTest{method: http.MethodGet, path: substitutesPath("T9", "Math", "slot2", "Mon", "")}

	var before []timetable.Candidate
	require.NoError(t, json.Unmarshal(app.do(tt).Body.Bytes(), &before))
	require.Len(t, before, 1)

	// Tom gets booked: the next resolution sees it
	require.NoError(t, app.db.Load(rosterWithBooking(t, "T2", timetable.Monday, "slot2")))

	rec := app.do(tt)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func Test_timetableApi_queryTeachers(t *testing.T) {
	app := setup(t)
	tt := httpTest{
		method:   http.MethodGet,
		path:     "/v1/teachers",
		wantCode: http.StatusOK,
		wantData: []byte(`[
			{"id": "T1", "name": "Tina", "subjects": ["Math"]},
			{"id": "T2", "name": "Tom", "subjects": ["Math"]},
			{"id": "T3", "name": "Tess", "subjects": ["Science"]}
		]`),
	}
	checkCodeAndData(t, tt, app.do(tt))
}

func Test_timetableApi_retrieveTimetable(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "found",
			path:     "/v1/teachers/T1/timetable",
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"id": "T1",
				"name": "Tina",
				"email": "tina@school.test",
				"subjects": ["Math"],
				"timetable": {"monday": {"slot2": {"subject": "Math"}}}
			}`),
		},
		{
			name:     "not found",
			path:     "/v1/teachers/T9/timetable",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: timetable.ErrTeacherNotFound.Error()}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodGet
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}

func Test_timetableApi_confirmSubstitution(t *testing.T) {
	app := setup(t)

	t.Run("confirmed", func(t *testing.T) {
		app.mailSvc.Reset()
		tt := httpTest{
			method: http.MethodPost,
			path:   "/v1/substitutions",
			body: []byte(`{
				"teacher_id": "T1", "subject": "Math", "slot": "slot2", "day": "Mon",
				"class": "5A", "substitute_id": "T2"
			}`),
		}
		rec := app.do(tt)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var sub timetable.Substitution
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, "T2", sub.Substitute.TeacherID)
		assert.Equal(t, timetable.Available, sub.Substitute.Availability)
		assert.Equal(t, timetable.Vacancy{
			TeacherID: "T1", Subject: "Math", Slot: "slot2", Day: timetable.Monday, Class: "5A",
		}, sub.Vacancy)

		sent := app.mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "tom@school.test", sent[0].To[0].Address)
		require.Len(t, sent[0].Cc, 1)
		assert.Equal(t, "tina@school.test", sent[0].Cc[0].Address)
		assert.Contains(t, sent[0].TextContent, "class 5A")
		require.Len(t, sent[0].Attachments, 1)
		assert.Equal(t, "T1-monday.txt", sent[0].Attachments[0].Filename)
	})

	t.Run("not a candidate", func(t *testing.T) {
		app.mailSvc.Reset()
		tt := httpTest{
			method: http.MethodPost,
			path:   "/v1/substitutions",
			body: []byte(`{
				"teacher_id": "T2", "subject": "Math", "slot": "slot2", "day": "Mon", "substitute_id": "T1"
			}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"substitute_id": timetable.ErrNotACandidate.Error()}),
		}
		checkCodeAndData(t, tt, app.do(tt))
		assert.Empty(t, app.mailSvc.SentMessages())
	})

	t.Run("invalid body", func(t *testing.T) {
		tt := httpTest{
			method:   http.MethodPost,
			path:     "/v1/substitutions",
			body:     []byte(`{"teacher_id": "T2", "subject": "Math", "slot": "slot2", "day": "Mon"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"substitute_id": "this field is required"}),
		}
		checkCodeAndData(t, tt, app.do(tt))
	})

	t.Run("malformed json", func(t *testing.T) {
		tt := httpTest{
			method:   http.MethodPost,
			path:     "/v1/substitutions",
			body:     []byte(`{"teacher_id": `),
			wantCode: http.StatusBadRequest,
		}
		checkCodeAndData(t, tt, app.do(tt))
	})
}

func rosterWithBooking(t *testing.T, teacherID string, day timetable.Day, slot timetable.Slot) timetable.Roster {
	t.Helper()
	r := testutil.Roster(t)
	for i := range r.Teachers {
		if r.Teachers[i].ID == teacherID {
			require.NoError(t, r.Teachers[i].Timetable.Assign(day, slot, timetable.Period{Subject: "Math"}))
		}
	}
	return r
}
