package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/schooldesk/schooldesk/core/timetable"
)

func (cli *commandLine) rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Print the teachers and their weekly timetables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.printRoster(cmd.Context())
		},
	}
}

func (cli *commandLine) printRoster(ctx context.Context) error {
	roster, err := cli.svc.Roster(ctx)
	if err != nil {
		return errors.Wrap(err, "loading roster")
	}

	if len(roster.Slots) > 0 {
		slots := make([]string, 0, len(roster.Slots))
		for _, s := range roster.Slots {
			slots = append(slots, s.String())
		}
		_, _ = fmt.Fprintf(cli.out, "slots: %s\n", strings.Join(slots, ", "))
	}

	for _, t := range roster.Teachers {
		_, _ = fmt.Fprintf(cli.out, "%s  %s  [%s]\n", t.ID, t.Name, strings.Join(t.Subjects, ", "))
		for _, day := range timetable.Days {
			periods, ok := t.Timetable[day]
			if !ok {
				continue
			}
			slots := make([]string, 0, len(periods))
			for slot := range periods {
				slots = append(slots, slot.String())
			}
			sort.Strings(slots)
			for _, slot := range slots {
				p := periods[timetable.Slot(slot)]
				_, _ = fmt.Fprintf(cli.out, "    %-9s %-8s %s", day.Title(), slot, p.Subject)
				if p.Class != "" {
					_, _ = fmt.Fprintf(cli.out, " (%s)", p.Class)
				}
				_, _ = fmt.Fprintln(cli.out)
			}
		}
	}
	return nil
}
