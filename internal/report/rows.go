package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

var titleCase = cases.Title(language.English)

// Table is one facet rendered as header plus string rows. Every exporter
// writes the same tables.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables renders r in sheet order: Dashboard, then one table per facet,
// then Warnings.
func Tables(r *monitor.AggregateResult) []Table {
	return []Table{
		dashboardTable(r),
		plannerTable(r.Planner),
		messagesTable(r.Messages),
		announcementsTable(r.Announcements),
		gradeIssuesTable(r.GradeIssues),
		warningsTable(r.Warnings),
	}
}

func dashboardTable(r *monitor.AggregateResult) Table {
	t := Table{
		Name:   "Dashboard",
		Header: []string{"Student", "Todo", "Submitted", "Unread Messages", "Announcements", "Zero Grades", "Missing", "Unsubmitted", "Warnings"},
	}
	for _, s := range r.Summary() {
		t.Rows = append(t.Rows, []string{
			s.Student,
			strconv.Itoa(s.Todo),
			strconv.Itoa(s.Submitted),
			strconv.Itoa(s.Messages),
			strconv.Itoa(s.Announcements),
			strconv.Itoa(s.ZeroGrades),
			strconv.Itoa(s.Missing),
			strconv.Itoa(s.Unsubmitted),
			strconv.Itoa(s.Warnings),
		})
	}
	return t
}

func plannerTable(records []monitor.PlannerRecord) Table {
	t := Table{Name: title(monitor.FacetPlanner), Header: []string{"Student", "Task", "Course", "Due", "Status"}}
	for _, p := range records {
		t.Rows = append(t.Rows, []string{p.Student, p.Title, p.Course, p.DueLabel(), p.Label()})
	}
	return t
}

func messagesTable(msgs []monitor.Message) Table {
	t := Table{Name: "Messages", Header: []string{"Student", "Subject", "From", "Sent", "Preview"}}
	for _, m := range msgs {
		t.Rows = append(t.Rows, []string{m.Student, m.Subject, m.Sender, formatTime(m.SentAt), m.Preview})
	}
	return t
}

func announcementsTable(anns []monitor.Announcement) Table {
	t := Table{Name: title(monitor.FacetAnnouncements), Header: []string{"Student", "Course", "Title", "Posted", "Preview"}}
	for _, a := range anns {
		t.Rows = append(t.Rows, []string{a.Student, a.Course, a.Title, formatTime(a.PostedAt), a.Preview})
	}
	return t
}

func gradeIssuesTable(issues []monitor.GradeIssue) Table {
	t := Table{Name: "Grade Issues", Header: []string{"Student", "Course", "Assignment", "Issue", "Due", "State"}}
	for _, g := range issues {
		due := monitor.NoDate
		if g.Due != nil {
			due = formatTime(*g.Due)
		}
		t.Rows = append(t.Rows, []string{g.Student, g.Course, g.Assignment, g.Kind.String(), due, normalizeState(g.WorkflowState)})
	}
	return t
}

func warningsTable(warnings []monitor.Warning) Table {
	t := Table{Name: "Warnings", Header: []string{"Student", "Facet", "Kind", "Detail"}}
	for _, w := range warnings {
		t.Rows = append(t.Rows, []string{w.Student, title(w.Facet), title(w.Kind.String()), w.String()})
	}
	return t
}

func title(s string) string {
	return titleCase.String(s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func normalizeState(state string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(state)), "_", " ")
}

func filePrefix(generatedAt time.Time) string {
	return fmt.Sprintf("classmonitor_%s", generatedAt.Format("2006-01-02_15-04-05"))
}
