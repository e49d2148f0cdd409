package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/schooldesk/schooldesk/core/timetable"
)

type timetableApi struct {
	svc      timetable.Service
	validate *validator.Validate
	metrics  *metrics
}

type teacherSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
}

func registerTimetableAPI(g *echo.Group, svc timetable.Service, validate *validator.Validate, m *metrics) {
	api := timetableApi{
		svc:      svc,
		validate: validate,
		metrics:  m,
	}

	g.GET("/teachers", api.queryTeachers)
	g.GET("/teachers/:id/timetable", api.retrieveTimetable)
	g.GET("/substitutes", api.findSubstitutes)
	g.POST("/substitutions", api.confirmSubstitution)
}

// Handlers

func (api *timetableApi) queryTeachers(ctx echo.Context) error {
	roster, err := api.svc.Roster(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}

	teachers := make([]teacherSummary, 0, len(roster.Teachers))
	for _, t := range roster.Teachers {
		teachers = append(teachers, teacherSummary{ID: t.ID, Name: t.Name, Subjects: t.Subjects})
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *timetableApi) retrieveTimetable(ctx echo.Context) error {
	teacher, err := api.svc.Teacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "retrieving teacher")
	}
	if teacher.Timetable == nil {
		teacher.Timetable = make(timetable.Timetable)
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *timetableApi) findSubstitutes(ctx echo.Context) error {
	var query timetable.VacancyQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to VacancyQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	candidates, err := api.svc.FindSubstitutes(ctx.Request().Context(), query.Vacancy())
	if err != nil {
		return errors.Wrap(err, "finding substitutes")
	}
	api.metrics.observeResolution(len(candidates))

	return ctx.JSON(http.StatusOK, candidates)
}

func (api *timetableApi) confirmSubstitution(ctx echo.Context) error {
	var data timetable.ConfirmRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ConfirmRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Confirm(ctx.Request().Context(), data.Vacancy(), data.SubstituteID)
	if err != nil {
		return errors.Wrap(err, "confirming substitution")
	}
	api.metrics.observeConfirmation()

	return ctx.JSON(http.StatusCreated, sub)
}
