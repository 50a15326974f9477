package monitor

import (
	"context"
	"fmt"
	"time"
)

// Status is the submission state of a planner item.
type Status int

const (
	StatusTodo Status = iota
	StatusSubmitted
)

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	default:
		return "Todo"
	}
}

// IssueKind classifies a submission that needs attention.
type IssueKind int

const (
	IssueZeroGrade IssueKind = iota
	IssueMissing
	IssueUnsubmitted
)

func (k IssueKind) String() string {
	switch k {
	case IssueZeroGrade:
		return "Zero Grade"
	case IssueMissing:
		return "Missing"
	case IssueUnsubmitted:
		return "Unsubmitted"
	default:
		return fmt.Sprintf("IssueKind(%d)", int(k))
	}
}

const (
	NoDate        = "No Date"
	UnknownCourse = "Unknown Course"
	Unknown       = "Unknown"
	Untitled      = "Untitled"
)

type Course struct {
	ID   int64
	Name string
	Code string
}

// CourseIndex maps course ids to courses for one aggregation pass.
type CourseIndex map[int64]Course

func NewCourseIndex(courses []Course) CourseIndex {
	idx := make(CourseIndex, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}

// Name resolves a course id, falling back to UnknownCourse.
func (idx CourseIndex) Name(id int64) string {
	if c, ok := idx[id]; ok && c.Name != "" {
		return c.Name
	}
	return UnknownCourse
}

type PlannerRecord struct {
	Student string
	Title   string
	Course  string
	Due     *time.Time
	Status  Status
	Score   *float64
}

// Label renders the status column, e.g. "Submitted (Score: 9.5)".
func (r PlannerRecord) Label() string {
	if r.Status == StatusSubmitted && r.Score != nil {
		return fmt.Sprintf("%s (Score: %g)", r.Status, *r.Score)
	}
	return r.Status.String()
}

// DueLabel renders the due column, NoDate when the item is undated.
func (r PlannerRecord) DueLabel() string {
	if r.Due == nil {
		return NoDate
	}
	return r.Due.Format("01-02 15:04")
}

type Message struct {
	Student string
	Subject string
	Preview string
	SentAt  time.Time
	Sender  string
}

type Announcement struct {
	Student  string
	Title    string
	Preview  string
	PostedAt time.Time
	Course   string
}

type GradeIssue struct {
	Student       string
	Assignment    string
	Course        string
	Kind          IssueKind
	Due           *time.Time
	WorkflowState string
}

// TokenStore resolves a student's bearer credential.
type TokenStore interface {
	Token(student string) (string, bool)
}

// Source fetches the facets of one student from the upstream system.
// Implementations return an empty slice together with the error on failure;
// GradeIssues may return partial results with a joined error when only some
// courses failed.
type Source interface {
	Name() string
	Courses(ctx context.Context, student, token string) ([]Course, error)
	Planner(ctx context.Context, student, token string, cutoff *time.Time) ([]PlannerRecord, error)
	Conversations(ctx context.Context, student, token string, since *time.Time) ([]Message, error)
	Announcements(ctx context.Context, student, token string, courses []Course, since *time.Time) ([]Announcement, error)
	GradeIssues(ctx context.Context, student, token string, courses []Course, now time.Time) ([]GradeIssue, error)
}
