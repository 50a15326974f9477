package canvas

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// defaultArmRepeat is how often a repeating default arm is logged again.
const defaultArmRepeat = 10

// defaultArms counts values that fell through to a default branch. A new
// upstream state showing up here repeatedly means the contract changed.
type defaultArms struct {
	mu     sync.Mutex
	counts map[string]int
	logger *slog.Logger
}

func newDefaultArms(logger *slog.Logger) *defaultArms {
	return &defaultArms{counts: make(map[string]int), logger: logger}
}

func (d *defaultArms) hit(field, value string) {
	d.mu.Lock()
	key := field + "=" + value
	d.counts[key]++
	n := d.counts[key]
	d.mu.Unlock()

	switch {
	case n == 1:
		d.logger.Info("unrecognized upstream value", "field", field, "value", value)
	case n%defaultArmRepeat == 0:
		d.logger.Warn("unrecognized upstream value keeps appearing", "field", field, "value", value, "count", n)
	}
}

func (d *defaultArms) count(field, value string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[field+"="+value]
}

var knownWorkflowStates = map[string]bool{
	"submitted":      true,
	"unsubmitted":    true,
	"graded":         true,
	"pending_review": true,
}

// classifySubmission applies the issue precedence: zero score, then the
// missing flag, then an unsubmitted assignment whose due date has passed.
// Excused submissions never produce an issue.
func (s *Source) classifySubmission(sub submissionDTO, now time.Time) (monitor.IssueKind, bool) {
	if sub.excused() {
		return 0, false
	}

	state := sub.workflowState()
	if !knownWorkflowStates[state] {
		s.arms.hit("workflow_state", state)
	}

	switch {
	case sub.Score != nil && *sub.Score == 0:
		return monitor.IssueZeroGrade, true
	case sub.missing():
		return monitor.IssueMissing, true
	case state == "unsubmitted":
		if due := sub.due(); due != nil && due.Before(now) {
			return monitor.IssueUnsubmitted, true
		}
	}
	return 0, false
}

// plannerStatus derives the planner status and, when graded, the score.
func (s *Source) plannerStatus(subs plannerSubmissions) (monitor.Status, *float64) {
	if subs.shape == shapeUnknown {
		s.arms.hit("submissions", subs.shape)
	}
	if !subs.submitted() {
		return monitor.StatusTodo, nil
	}
	return monitor.StatusSubmitted, subs.score()
}
