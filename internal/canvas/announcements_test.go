package canvas

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

const announcementsPath = "/api/v1/announcements"

func TestAnnouncements(t *testing.T) {
	long := strings.Repeat("y", 200)
	body := `[
		{"id": 1, "title": "Quiz moved", "message": "<p>Quiz is now <em>Friday</em></p>", "posted_at": "2026-10-13T15:00:00Z", "context_code": "course_11"},
		{"id": 2, "title": "Draft", "message": "never posted", "posted_at": null, "context_code": "course_11"},
		{"id": 3, "title": "", "message": "` + long + `", "posted_at": "2026-10-12T15:00:00Z", "context_code": "course_99"},
		{"id": 4, "title": "No context", "message": "", "posted_at": "2026-10-11T15:00:00Z"}
	]`
	tr := newFakeTransport().on("tok", announcementsPath, 200, body)
	src := newTestSource(tr)

	courses := []monitor.Course{{ID: 11, Name: "Biology"}, {ID: 12, Name: "History"}}
	since := testNow.AddDate(0, 0, -14)
	anns, err := src.Announcements(context.Background(), "Melody", "tok", courses, &since)
	require.NoError(t, err)
	require.Len(t, anns, 3)

	assert.Equal(t, "Quiz moved", anns[0].Title)
	assert.Equal(t, "Quiz is now Friday", anns[0].Preview)
	assert.Equal(t, "Biology", anns[0].Course)
	assert.Equal(t, "Melody", anns[0].Student)

	assert.Equal(t, monitor.Untitled, anns[1].Title)
	assert.Equal(t, monitor.UnknownCourse, anns[1].Course)
	assert.Equal(t, strings.Repeat("y", monitor.AnnouncementPreviewLen)+monitor.Ellipsis, anns[1].Preview)

	assert.Equal(t, monitor.UnknownCourse, anns[2].Course)

	q := tr.calls[0].query
	assert.Equal(t, []string{"course_11", "course_12"}, q["context_codes[]"])
	assert.Equal(t, "2026-09-30", q.Get("start_date"))
	assert.Equal(t, "2026-10-15", q.Get("end_date"))
}

func TestAnnouncements_NoCoursesNoRequest(t *testing.T) {
	tr := newFakeTransport()
	anns, err := newTestSource(tr).Announcements(context.Background(), "Melody", "tok", nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, anns)
	assert.Empty(t, tr.calls)
}

func TestCourses(t *testing.T) {
	tr := newFakeTransport().on("tok", "/api/v1/courses", 200,
		`[{"id": 11, "name": "Biology", "course_code": "BIO-1"}, {"id": 12, "access_restricted_by_date": true}]`)
	courses, err := newTestSource(tr).Courses(context.Background(), "Melody", "tok")
	require.NoError(t, err)
	assert.Equal(t, []monitor.Course{{ID: 11, Name: "Biology", Code: "BIO-1"}, {ID: 12}}, courses)

	q := tr.calls[0].query
	assert.Equal(t, "student", q.Get("enrollment_type"))
	assert.Equal(t, "active", q.Get("enrollment_state"))
	assert.Equal(t, "100", q.Get("per_page"))
}
