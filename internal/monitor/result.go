package monitor

import (
	"fmt"
	"time"
)

const (
	FacetCredential    = "credential"
	FacetCourses       = "courses"
	FacetPlanner       = "planner"
	FacetConversations = "conversations"
	FacetAnnouncements = "announcements"
	FacetGrades        = "grades"
)

type WarningKind int

const (
	WarnMissingCredential WarningKind = iota
	WarnUpstreamStatus
	WarnTransport
)

func (k WarningKind) String() string {
	switch k {
	case WarnMissingCredential:
		return "missing credential"
	case WarnUpstreamStatus:
		return "upstream status"
	case WarnTransport:
		return "transport"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is an operator-visible, recoverable per-student problem.
type Warning struct {
	Student string
	Facet   string
	Kind    WarningKind
	Status  int
	Err     error
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnMissingCredential:
		return fmt.Sprintf("%s: token not found, skipped", w.Student)
	case WarnUpstreamStatus:
		return fmt.Sprintf("%s: %s returned status %d (check token)", w.Student, w.Facet, w.Status)
	default:
		return fmt.Sprintf("%s: %s failed: %v", w.Student, w.Facet, w.Err)
	}
}

// AggregateResult holds the roster-wide collections of one run.
// Each run produces a new value; nothing is carried over between runs.
type AggregateResult struct {
	Students      []string
	Window        Window
	GeneratedAt   time.Time
	Planner       []PlannerRecord
	Messages      []Message
	Announcements []Announcement
	GradeIssues   []GradeIssue
	Warnings      []Warning
}

// Failures counts facet fetches that failed, excluding skipped students.
// It separates "the upstream broke" from "the roster is quiet".
func (r *AggregateResult) Failures() int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind != WarnMissingCredential {
			n++
		}
	}
	return n
}

// Skipped lists the students that had no credential.
func (r *AggregateResult) Skipped() []string {
	var out []string
	for _, w := range r.Warnings {
		if w.Kind == WarnMissingCredential {
			out = append(out, w.Student)
		}
	}
	return out
}

func (r *AggregateResult) Empty() bool {
	return len(r.Planner) == 0 && len(r.Messages) == 0 && len(r.Announcements) == 0 && len(r.GradeIssues) == 0
}

// StudentSummary is one row of the per-student breakdown.
type StudentSummary struct {
	Student       string
	Todo          int
	Submitted     int
	Messages      int
	Announcements int
	ZeroGrades    int
	Missing       int
	Unsubmitted   int
	Warnings      int
}

func (s StudentSummary) Issues() int { return s.ZeroGrades + s.Missing + s.Unsubmitted }

// Summary returns per-student counts in roster order.
func (r *AggregateResult) Summary() []StudentSummary {
	rows := make([]StudentSummary, len(r.Students))
	pos := make(map[string]int, len(r.Students))
	for i, s := range r.Students {
		rows[i].Student = s
		pos[s] = i
	}
	row := func(student string) *StudentSummary {
		i, ok := pos[student]
		if !ok {
			rows = append(rows, StudentSummary{Student: student})
			i = len(rows) - 1
			pos[student] = i
		}
		return &rows[i]
	}

	for _, p := range r.Planner {
		if p.Status == StatusSubmitted {
			row(p.Student).Submitted++
		} else {
			row(p.Student).Todo++
		}
	}
	for _, m := range r.Messages {
		row(m.Student).Messages++
	}
	for _, a := range r.Announcements {
		row(a.Student).Announcements++
	}
	for _, g := range r.GradeIssues {
		switch g.Kind {
		case IssueZeroGrade:
			row(g.Student).ZeroGrades++
		case IssueMissing:
			row(g.Student).Missing++
		case IssueUnsubmitted:
			row(g.Student).Unsubmitted++
		}
	}
	for _, w := range r.Warnings {
		row(w.Student).Warnings++
	}
	return rows
}
