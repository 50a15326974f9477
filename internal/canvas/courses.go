package canvas

import (
	"context"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// Courses fetches the student's active student-role enrollments.
func (s *Source) Courses(ctx context.Context, student, token string) ([]monitor.Course, error) {
	q := s.pageParams()
	q.Set("enrollment_type", "student")
	q.Set("enrollment_state", "active")

	var dtos []courseDTO
	if err := s.getJSON(ctx, apiPrefix+"/courses", q, token, &dtos); err != nil {
		return nil, err
	}

	courses := make([]monitor.Course, 0, len(dtos))
	for _, d := range dtos {
		c := monitor.Course{ID: d.ID}
		if d.Name != nil {
			c.Name = *d.Name
		}
		if d.CourseCode != nil {
			c.Code = *d.CourseCode
		}
		courses = append(courses, c)
	}
	return courses, nil
}
