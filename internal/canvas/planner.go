package canvas

import (
	"context"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// Planner fetches the student's planner items from today on, bounded above
// by cutoff when set. Items come back in ascending due order.
func (s *Source) Planner(ctx context.Context, student, token string, cutoff *time.Time) ([]monitor.PlannerRecord, error) {
	q := s.pageParams()
	q.Set("start_date", s.now().Format("2006-01-02"))
	q.Set("order", "asc")
	if s.newActivity {
		q.Set("filter", "new_activity")
	}
	if cutoff != nil {
		q.Set("end_date", cutoff.Format(time.RFC3339))
	}

	var items []plannerItemDTO
	if err := s.getJSON(ctx, apiPrefix+"/planner/items", q, token, &items); err != nil {
		return nil, err
	}

	records := make([]monitor.PlannerRecord, 0, len(items))
	for _, item := range items {
		status, score := s.plannerStatus(item.Submissions)
		records = append(records, monitor.PlannerRecord{
			Student: student,
			Title:   item.title(),
			Course:  item.course(),
			Due:     item.due(),
			Status:  status,
			Score:   score,
		})
	}
	return records, nil
}
