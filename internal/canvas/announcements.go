package canvas

import (
	"context"
	"strconv"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// Announcements fetches announcements posted in the given courses. With no
// courses no request is made.
func (s *Source) Announcements(ctx context.Context, student, token string, courses []monitor.Course, since *time.Time) ([]monitor.Announcement, error) {
	if len(courses) == 0 {
		return nil, nil
	}

	q := s.pageParams()
	for _, c := range courses {
		q.Add("context_codes[]", "course_"+strconv.FormatInt(c.ID, 10))
	}
	// without start_date the API only looks back two weeks
	if since != nil {
		q.Set("start_date", since.Format("2006-01-02"))
		q.Set("end_date", s.now().AddDate(0, 0, 1).Format("2006-01-02"))
	}

	var dtos []announcementDTO
	if err := s.getJSON(ctx, apiPrefix+"/announcements", q, token, &dtos); err != nil {
		return nil, err
	}

	index := monitor.NewCourseIndex(courses)
	anns := make([]monitor.Announcement, 0, len(dtos))
	for _, d := range dtos {
		posted := parseTime(d.PostedAt)
		if posted == nil {
			continue
		}

		var body string
		if d.Message != nil {
			body = *d.Message
		}
		anns = append(anns, monitor.Announcement{
			Student:  student,
			Title:    d.title(),
			Preview:  monitor.Preview(body, monitor.AnnouncementPreviewLen),
			PostedAt: *posted,
			Course:   index.Name(d.courseID()),
		})
	}
	return anns, nil
}
