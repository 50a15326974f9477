package canvas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// GradeIssues walks every course's submissions and keeps the ones that
// classify as an issue. A failing course is skipped; its error is joined
// into the returned error while the other courses' issues are still returned.
func (s *Source) GradeIssues(ctx context.Context, student, token string, courses []monitor.Course, now time.Time) ([]monitor.GradeIssue, error) {
	var (
		issues []monitor.GradeIssue
		errs   []error
	)

	for _, c := range courses {
		q := s.pageParams()
		q.Add("include[]", "assignment")

		path := fmt.Sprintf("%s/courses/%d/students/submissions", apiPrefix, c.ID)
		var subs []submissionDTO
		if err := s.getJSON(ctx, path, q, token, &subs); err != nil {
			errs = append(errs, fmt.Errorf("course %d: %w", c.ID, err))
			continue
		}

		course := c.Name
		if course == "" {
			course = monitor.UnknownCourse
		}
		for _, sub := range subs {
			kind, ok := s.classifySubmission(sub, now)
			if !ok {
				continue
			}
			issues = append(issues, monitor.GradeIssue{
				Student:       student,
				Assignment:    sub.assignmentName(),
				Course:        course,
				Kind:          kind,
				Due:           sub.due(),
				WorkflowState: sub.workflowState(),
			})
		}
	}

	return issues, errors.Join(errs...)
}
