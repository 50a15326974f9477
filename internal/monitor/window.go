package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Period selects how far ahead planner items are shown.
type Period int

const (
	ThisWeek Period = iota
	Next1Week
	Next2Weeks
	Next3Weeks
	AllTime
)

var periodLabels = map[Period]string{
	ThisWeek:   "this-week",
	Next1Week:  "next-1-week",
	Next2Weeks: "next-2-weeks",
	Next3Weeks: "next-3-weeks",
	AllTime:    "all-time",
}

func (p Period) String() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

// ParsePeriod accepts the labels printed by Period.String, case-insensitive.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, l := range periodLabels {
		if s == l || s == strings.ReplaceAll(l, "-", "") {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown period %q (valid: this-week, next-1-week, next-2-weeks, next-3-weeks, all-time)", s)
}

// Cutoff returns the instant ending the selected week: midnight after the
// next Sunday at or after now, pushed out by the period's week offset.
// Sunday itself counts as the current week. AllTime has no cutoff.
func Cutoff(now time.Time, p Period) (time.Time, bool) {
	if p < ThisWeek || p >= AllTime {
		return time.Time{}, false
	}
	days := (int(time.Sunday) - int(now.Weekday()) + 7) % 7
	sunday := time.Date(now.Year(), now.Month(), now.Day()+days, 0, 0, 0, 0, now.Location())
	return sunday.AddDate(0, 0, 1+7*int(p)), true
}

// Trailing selects how far back messages and announcements are shown.
type Trailing int

const (
	Last3Days Trailing = iota
	LastWeek
	Last2Weeks
	Last3Weeks
	AnyTime
)

var trailingLabels = map[Trailing]string{
	Last3Days:  "last-3-days",
	LastWeek:   "last-week",
	Last2Weeks: "last-2-weeks",
	Last3Weeks: "last-3-weeks",
	AnyTime:    "any-time",
}

var trailingDays = map[Trailing]int{
	Last3Days:  3,
	LastWeek:   7,
	Last2Weeks: 14,
	Last3Weeks: 21,
}

func (t Trailing) String() string {
	if l, ok := trailingLabels[t]; ok {
		return l
	}
	return fmt.Sprintf("Trailing(%d)", int(t))
}

func ParseTrailing(s string) (Trailing, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, l := range trailingLabels {
		if s == l || s == strings.ReplaceAll(l, "-", "") {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown window %q (valid: last-3-days, last-week, last-2-weeks, last-3-weeks, any-time)", s)
}

// Since returns the start of the trailing window. AnyTime is unbounded.
func Since(now time.Time, t Trailing) (time.Time, bool) {
	days, ok := trailingDays[t]
	if !ok {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -days), true
}

// Window is the resolved time filter of one aggregation run.
type Window struct {
	Now      time.Time
	Period   Period
	Trailing Trailing
}

func (w Window) Cutoff() (time.Time, bool) { return Cutoff(w.Now, w.Period) }

func (w Window) Since() (time.Time, bool) { return Since(w.Now, w.Trailing) }

// Caption describes the window the way the dashboard header shows it.
func (w Window) Caption() string {
	cutoff, ok := w.Cutoff()
	if !ok {
		return "Showing everything on the planner."
	}
	// the cutoff is the Monday midnight ending the selected Sunday
	return fmt.Sprintf("Showing assignments due before: %s", cutoff.AddDate(0, 0, -1).Format("Monday, Jan 02"))
}

func (w Window) cutoffPtr() *time.Time {
	if c, ok := w.Cutoff(); ok {
		return &c
	}
	return nil
}

func (w Window) sincePtr() *time.Time {
	if s, ok := w.Since(); ok {
		return &s
	}
	return nil
}

// Apply trims and orders the merged collections of r in place.
// Planner records due at or after the cutoff are dropped; undated ones are
// kept and sorted last. Messages and announcements older than the trailing
// start are dropped and the rest sorted newest first.
func (w Window) Apply(r *AggregateResult) {
	if cutoff, ok := w.Cutoff(); ok {
		kept := r.Planner[:0]
		for _, p := range r.Planner {
			if p.Due == nil || p.Due.Before(cutoff) {
				kept = append(kept, p)
			}
		}
		r.Planner = kept
	}
	sort.SliceStable(r.Planner, func(i, j int) bool {
		a, b := r.Planner[i].Due, r.Planner[j].Due
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})

	if since, ok := w.Since(); ok {
		msgs := r.Messages[:0]
		for _, m := range r.Messages {
			if !m.SentAt.Before(since) {
				msgs = append(msgs, m)
			}
		}
		r.Messages = msgs

		anns := r.Announcements[:0]
		for _, a := range r.Announcements {
			if !a.PostedAt.Before(since) {
				anns = append(anns, a)
			}
		}
		r.Announcements = anns
	}
	sort.SliceStable(r.Messages, func(i, j int) bool {
		return r.Messages[i].SentAt.After(r.Messages[j].SentAt)
	})
	sort.SliceStable(r.Announcements, func(i, j int) bool {
		return r.Announcements[i].PostedAt.After(r.Announcements[j].PostedAt)
	})
}
