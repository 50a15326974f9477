package canvas

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

func ptr[T any](v T) *T { return &v }

func TestClassifySubmission(t *testing.T) {
	past := "2026-10-10T23:59:00Z"
	future := "2026-10-20T23:59:00Z"

	tests := []struct {
		name string
		sub  submissionDTO
		want monitor.IssueKind
		ok   bool
	}{
		{"zero score", submissionDTO{Score: ptr(0.0), Excused: ptr(false), Missing: ptr(false), WorkflowState: ptr("graded")}, monitor.IssueZeroGrade, true},
		{"zero beats missing", submissionDTO{Score: ptr(0.0), Missing: ptr(true), WorkflowState: ptr("graded")}, monitor.IssueZeroGrade, true},
		{"zero beats unsubmitted", submissionDTO{Score: ptr(0.0), WorkflowState: ptr("unsubmitted"), CachedDueDate: &past}, monitor.IssueZeroGrade, true},
		{"missing", submissionDTO{Missing: ptr(true), WorkflowState: ptr("unsubmitted"), CachedDueDate: &past}, monitor.IssueMissing, true},
		{"unsubmitted past due", submissionDTO{WorkflowState: ptr("unsubmitted"), CachedDueDate: &past}, monitor.IssueUnsubmitted, true},
		{"unsubmitted due from assignment", submissionDTO{WorkflowState: ptr("unsubmitted"), Assignment: &assignmentDTO{DueAt: &past}}, monitor.IssueUnsubmitted, true},
		{"unsubmitted not yet due", submissionDTO{WorkflowState: ptr("unsubmitted"), CachedDueDate: &future}, 0, false},
		{"unsubmitted undated", submissionDTO{WorkflowState: ptr("unsubmitted")}, 0, false},
		{"excused zero", submissionDTO{Score: ptr(0.0), Excused: ptr(true), Missing: ptr(true)}, 0, false},
		{"graded fine", submissionDTO{Score: ptr(17.0), WorkflowState: ptr("graded")}, 0, false},
		{"ungraded submitted", submissionDTO{WorkflowState: ptr("submitted")}, 0, false},
	}

	src := newTestSource(newFakeTransport())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := src.classifySubmission(tt.sub, testNow)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassifySubmission_UnknownStateIsTracked(t *testing.T) {
	src := newTestSource(newFakeTransport())
	for i := 0; i < 3; i++ {
		_, ok := src.classifySubmission(submissionDTO{WorkflowState: ptr("frozen")}, testNow)
		assert.False(t, ok)
	}
	assert.Equal(t, 3, src.arms.count("workflow_state", "frozen"))
	assert.Equal(t, 0, src.arms.count("workflow_state", "graded"))
}

func TestGradeIssues_ZeroGradeScenario(t *testing.T) {
	body := `[{"assignment_id": 5, "score": 0, "excused": false, "missing": false,
		"workflow_state": "graded", "cached_due_date": "2026-10-09T23:59:00Z",
		"assignment": {"name": "Cell diagram"}}]`
	tr := newFakeTransport().on("tok", "/api/v1/courses/11/students/submissions", 200, body)
	src := newTestSource(tr)

	issues, err := src.GradeIssues(context.Background(), "Olivia", "tok", []monitor.Course{{ID: 11, Name: "Biology"}}, testNow)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, monitor.GradeIssue{
		Student:       "Olivia",
		Assignment:    "Cell diagram",
		Course:        "Biology",
		Kind:          monitor.IssueZeroGrade,
		Due:           ptr(time.Date(2026, 10, 9, 23, 59, 0, 0, time.UTC)),
		WorkflowState: "graded",
	}, issues[0])

	q := tr.calls[0].query
	assert.Equal(t, []string{"assignment"}, q["include[]"])
}

func TestGradeIssues_FailedCourseIsSkipped(t *testing.T) {
	tr := newFakeTransport().
		on("tok", "/api/v1/courses/1/students/submissions", 403, `{"status":"unauthorized"}`).
		fail("tok", "/api/v1/courses/2/students/submissions").
		on("tok", "/api/v1/courses/3/students/submissions", 200,
			`[{"missing": true, "workflow_state": "unsubmitted"}, {"excused": true, "score": 0}, {"score": 10, "workflow_state": "graded"}]`)
	src := newTestSource(tr)

	courses := []monitor.Course{{ID: 1, Name: "Art"}, {ID: 2, Name: "Math"}, {ID: 3}}
	issues, err := src.GradeIssues(context.Background(), "Tava", "tok", courses, testNow)

	require.Error(t, err)
	var se *StatusError
	assert.ErrorAs(t, err, &se)
	assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)

	require.Len(t, issues, 1)
	assert.Equal(t, monitor.IssueMissing, issues[0].Kind)
	assert.Equal(t, monitor.UnknownCourse, issues[0].Course)
	assert.Equal(t, monitor.Untitled, issues[0].Assignment)
	assert.Len(t, tr.calls, 3)
}

func TestGradeIssues_NoCourses(t *testing.T) {
	tr := newFakeTransport()
	issues, err := newTestSource(tr).GradeIssues(context.Background(), "Tava", "tok", nil, testNow)
	assert.NoError(t, err)
	assert.Empty(t, issues)
	assert.Empty(t, tr.calls)
}
