package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/core/timetable"
)

func (cli *commandLine) resolveCmd() *cobra.Command {
	var (
		query  timetable.VacancyQuery
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "List the teachers who can cover an absent teacher's period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.resolve(cmd.Context(), query, asJSON)
		},
	}

	cmd.Flags().StringVar(&query.TeacherID, "teacher", "", "Absent teacher ID")
	cmd.Flags().StringVar(&query.Subject, "subject", "", "Subject of the period")
	cmd.Flags().StringVar(&query.Slot, "slot", "", "Time slot of the period")
	cmd.Flags().StringVar(&query.Day, "day", "", "Day of the period (monday, Mon, 1...)")
	cmd.Flags().StringVar(&query.Date, "date", "", "Date of the period (YYYY-MM-DD), instead of --day")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print candidates as JSON")
	return cmd
}

func (cli *commandLine) resolve(ctx context.Context, query timetable.VacancyQuery, asJSON bool) error {
	if err := query.Validate(cli.validate); err != nil {
		return core.TranslateValidationErrors(err, cli.translator)
	}

	candidates, err := cli.svc.FindSubstitutes(ctx, query.Vacancy())
	if err != nil {
		return errors.Wrap(err, "finding substitutes")
	}

	if asJSON {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}

	if len(candidates) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no available substitute")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSUBJECT\tAVAILABILITY")
	for _, c := range candidates {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.TeacherID, c.Name, c.Subject, c.Availability)
	}
	return w.Flush()
}
