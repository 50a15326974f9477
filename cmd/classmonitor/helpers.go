package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

type rosterRow struct {
	Student  string
	HasToken bool
	Checked  bool
	CheckErr error
}

func printRoster(out io.Writer, rows []rosterRow) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STUDENT\tTOKEN\tCHECK")
	for _, r := range rows {
		token := "missing"
		if r.HasToken {
			token = "ok"
		}
		check := "-"
		if r.Checked {
			check = "ok"
			if r.CheckErr != nil {
				check = r.CheckErr.Error()
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Student, token, check)
	}
	tw.Flush()
}

// printResult renders the master list and per-student breakdown.
func printResult(out io.Writer, res *monitor.AggregateResult) {
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "WARNING %s\n", w)
	}

	if res.Empty() {
		if n := res.Failures(); n > 0 {
			fmt.Fprintf(out, "\nNothing collected, but %d facet fetches failed. Check the warnings above.\n", n)
		} else {
			fmt.Fprintln(out, "\nNo active assignments, messages or grade issues found for this period!")
		}
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	if len(res.Planner) > 0 {
		fmt.Fprintf(tw, "\nMASTER LIST (%d)\n", len(res.Planner))
		fmt.Fprintln(tw, "STUDENT\tTASK\tSTATUS\tDUE")
		for _, p := range res.Planner {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Student, p.Title, p.Label(), p.DueLabel())
		}
	}

	if len(res.GradeIssues) > 0 {
		fmt.Fprintf(tw, "\nGRADE ISSUES (%d)\n", len(res.GradeIssues))
		fmt.Fprintln(tw, "STUDENT\tCOURSE\tASSIGNMENT\tISSUE")
		for _, g := range res.GradeIssues {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.Student, g.Course, g.Assignment, g.Kind)
		}
	}

	if len(res.Messages) > 0 {
		fmt.Fprintf(tw, "\nUNREAD MESSAGES (%d)\n", len(res.Messages))
		fmt.Fprintln(tw, "STUDENT\tFROM\tSUBJECT\tSENT")
		for _, m := range res.Messages {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Student, m.Sender, m.Subject, m.SentAt.Local().Format("01-02 15:04"))
		}
	}

	if len(res.Announcements) > 0 {
		fmt.Fprintf(tw, "\nANNOUNCEMENTS (%d)\n", len(res.Announcements))
		fmt.Fprintln(tw, "STUDENT\tCOURSE\tTITLE\tPOSTED")
		for _, a := range res.Announcements {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Student, a.Course, a.Title, a.PostedAt.Local().Format("01-02 15:04"))
		}
	}

	fmt.Fprintln(tw, "\nSTUDENT BREAKDOWN")
	fmt.Fprintln(tw, "STUDENT\tTODO\tSUBMITTED\tMESSAGES\tANNOUNCEMENTS\tISSUES\tWARNINGS")
	for _, s := range res.Summary() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n", s.Student, s.Todo, s.Submitted, s.Messages, s.Announcements, s.Issues(), s.Warnings)
	}
	tw.Flush()
}
