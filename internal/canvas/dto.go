package canvas

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// Upstream payloads are loosely shaped: every optional field is a pointer
// and read through an accessor that applies the documented default.

type plannerItemDTO struct {
	PlannableDate *string            `json:"plannable_date"`
	ContextName   *string            `json:"context_name"`
	Plannable     *plannableDTO      `json:"plannable"`
	Submissions   plannerSubmissions `json:"submissions"`
}

type plannableDTO struct {
	Title *string `json:"title"`
	DueAt *string `json:"due_at"`
}

// title defaults to monitor.Untitled.
func (p plannerItemDTO) title() string {
	if p.Plannable != nil && p.Plannable.Title != nil && strings.TrimSpace(*p.Plannable.Title) != "" {
		return *p.Plannable.Title
	}
	return monitor.Untitled
}

// due prefers plannable_date and falls back to the plannable's due_at.
// Absent or unparseable dates yield nil.
func (p plannerItemDTO) due() *time.Time {
	if t := parseTime(p.PlannableDate); t != nil {
		return t
	}
	if p.Plannable != nil {
		return parseTime(p.Plannable.DueAt)
	}
	return nil
}

func (p plannerItemDTO) course() string {
	if p.ContextName != nil && *p.ContextName != "" {
		return *p.ContextName
	}
	return monitor.Unknown
}

type plannerSubmissionDTO struct {
	Submitted *bool    `json:"submitted"`
	Graded    *bool    `json:"graded"`
	Score     *float64 `json:"score"`
}

const (
	shapeAbsent    = ""
	shapeNull      = "null"
	shapeBool      = "bool"
	shapeObject    = "object"
	shapeList      = "list"
	shapeEmptyList = "empty list"
	shapeUnknown   = "unknown"
)

// plannerSubmissions accepts the submission sub-record as an object, a list
// (first element wins), a bare boolean or null.
type plannerSubmissions struct {
	shape string
	first *plannerSubmissionDTO
}

func (s *plannerSubmissions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		s.shape = shapeUnknown
		return nil
	}
	switch data[0] {
	case 'n':
		s.shape = shapeNull
	case 't', 'f':
		s.shape = shapeBool
	case '{':
		var one plannerSubmissionDTO
		if err := json.Unmarshal(data, &one); err != nil {
			s.shape = shapeUnknown
			return nil
		}
		s.shape, s.first = shapeObject, &one
	case '[':
		var many []plannerSubmissionDTO
		if err := json.Unmarshal(data, &many); err != nil {
			s.shape = shapeUnknown
			return nil
		}
		if len(many) == 0 {
			s.shape = shapeEmptyList
			return nil
		}
		s.shape, s.first = shapeList, &many[0]
	default:
		s.shape = shapeUnknown
	}
	return nil
}

func (s plannerSubmissions) submitted() bool {
	return s.first != nil && s.first.Submitted != nil && *s.first.Submitted
}

// score is set only when the record is graded and carries a score.
func (s plannerSubmissions) score() *float64 {
	if s.first == nil || s.first.Graded == nil || !*s.first.Graded || s.first.Score == nil {
		return nil
	}
	v := *s.first.Score
	return &v
}

type courseDTO struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name"`
	CourseCode *string `json:"course_code"`
}

type conversationDTO struct {
	ID            int64            `json:"id"`
	Subject       *string          `json:"subject"`
	LastMessage   *string          `json:"last_message"`
	LastMessageAt *string          `json:"last_message_at"`
	Participants  []participantDTO `json:"participants"`
}

type participantDTO struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

func (c conversationDTO) subject() string {
	if c.Subject != nil && strings.TrimSpace(*c.Subject) != "" {
		return *c.Subject
	}
	return noSubject
}

// sender is the first participant's name.
func (c conversationDTO) sender() string {
	if len(c.Participants) == 0 || c.Participants[0].Name == nil || *c.Participants[0].Name == "" {
		return monitor.Unknown
	}
	return *c.Participants[0].Name
}

type announcementDTO struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title"`
	Message     *string `json:"message"`
	PostedAt    *string `json:"posted_at"`
	ContextCode *string `json:"context_code"`
}

func (a announcementDTO) title() string {
	if a.Title != nil && strings.TrimSpace(*a.Title) != "" {
		return *a.Title
	}
	return monitor.Untitled
}

// courseID parses the "course_<id>" context code; zero when absent.
func (a announcementDTO) courseID() int64 {
	if a.ContextCode == nil {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(*a.ContextCode, "course_"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

type submissionDTO struct {
	AssignmentID  int64          `json:"assignment_id"`
	Score         *float64       `json:"score"`
	Excused       *bool          `json:"excused"`
	Missing       *bool          `json:"missing"`
	WorkflowState *string        `json:"workflow_state"`
	CachedDueDate *string        `json:"cached_due_date"`
	Assignment    *assignmentDTO `json:"assignment"`
}

type assignmentDTO struct {
	Name  *string `json:"name"`
	DueAt *string `json:"due_at"`
}

func (s submissionDTO) excused() bool { return s.Excused != nil && *s.Excused }

func (s submissionDTO) missing() bool { return s.Missing != nil && *s.Missing }

func (s submissionDTO) workflowState() string {
	if s.WorkflowState == nil {
		return ""
	}
	return *s.WorkflowState
}

func (s submissionDTO) assignmentName() string {
	if s.Assignment != nil && s.Assignment.Name != nil && *s.Assignment.Name != "" {
		return *s.Assignment.Name
	}
	return monitor.Untitled
}

func (s submissionDTO) due() *time.Time {
	if t := parseTime(s.CachedDueDate); t != nil {
		return t
	}
	if s.Assignment != nil {
		return parseTime(s.Assignment.DueAt)
	}
	return nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseTime returns nil for absent, empty or unparseable timestamps.
func parseTime(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			return &t
		}
	}
	return nil
}
