package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Aggregator drives the roster loop: one student at a time, one facet at a
// time, appending into roster-wide collections.
type Aggregator struct {
	Source Source
	Tokens TokenStore
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// Progress, when set, is called after each student.
	Progress func(done, total int, student string)
}

func NewAggregator(src Source, tokens TokenStore, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{Source: src, Tokens: tokens, Logger: logger, Now: time.Now}
}

// Run aggregates the given students. Per-student failures become warnings
// on the result; the only error returned is ctx's, together with the
// result collected so far.
func (a *Aggregator) Run(ctx context.Context, students []string, period Period, trailing Trailing) (*AggregateResult, error) {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	w := Window{Now: now, Period: period, Trailing: trailing}
	res := &AggregateResult{
		Students:    append([]string(nil), students...),
		Window:      w,
		GeneratedAt: now,
	}

	a.Logger.Info("aggregating roster",
		"source", a.Source.Name(),
		"students", len(students),
		"period", period.String(),
		"window", trailing.String(),
	)

	for i, student := range students {
		select {
		case <-ctx.Done():
			w.Apply(res)
			return res, ctx.Err()
		default:
		}

		token, ok := a.Tokens.Token(student)
		if !ok || token == "" {
			a.Logger.Warn("token not found, skipping student", "student", student)
			res.Warnings = append(res.Warnings, Warning{Student: student, Facet: FacetCredential, Kind: WarnMissingCredential})
		} else {
			a.collect(ctx, res, student, token, w)
		}

		if a.Progress != nil {
			a.Progress(i+1, len(students), student)
		}
	}

	w.Apply(res)

	a.Logger.Info("aggregation complete",
		"planner", len(res.Planner),
		"messages", len(res.Messages),
		"announcements", len(res.Announcements),
		"grade_issues", len(res.GradeIssues),
		"failures", res.Failures(),
	)
	return res, nil
}

func (a *Aggregator) collect(ctx context.Context, res *AggregateResult, student, token string, w Window) {
	courses, err := a.Source.Courses(ctx, student, token)
	if err != nil {
		a.fail(res, student, FacetCourses, err)
		courses = nil
	}

	planner, err := a.Source.Planner(ctx, student, token, w.cutoffPtr())
	if err != nil {
		a.fail(res, student, FacetPlanner, err)
	}
	res.Planner = append(res.Planner, planner...)

	msgs, err := a.Source.Conversations(ctx, student, token, w.sincePtr())
	if err != nil {
		a.fail(res, student, FacetConversations, err)
	}
	res.Messages = append(res.Messages, msgs...)

	anns, err := a.Source.Announcements(ctx, student, token, courses, w.sincePtr())
	if err != nil {
		a.fail(res, student, FacetAnnouncements, err)
	}
	res.Announcements = append(res.Announcements, anns...)

	// grade issues may be partial: failed courses are reported, the rest kept
	issues, err := a.Source.GradeIssues(ctx, student, token, courses, w.Now)
	if err != nil {
		a.fail(res, student, FacetGrades, err)
	}
	res.GradeIssues = append(res.GradeIssues, issues...)

	a.Logger.Debug("student collected",
		"student", student,
		"courses", len(courses),
		"planner", len(planner),
		"messages", len(msgs),
		"announcements", len(anns),
		"grade_issues", len(issues),
	)
}

func (a *Aggregator) fail(res *AggregateResult, student, facet string, err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		w := Warning{Student: student, Facet: facet, Kind: WarnTransport, Err: e}
		var st interface{ HTTPStatus() int }
		if errors.As(e, &st) {
			w.Kind = WarnUpstreamStatus
			w.Status = st.HTTPStatus()
		}
		a.Logger.Warn("facet fetch failed", "student", student, "facet", facet, "kind", w.Kind.String(), "error", e)
		res.Warnings = append(res.Warnings, w)
	}
}
