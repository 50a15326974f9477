// Package canvas fetches student facets from a Canvas LMS instance and
// normalizes them into monitor records.
package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// DefaultPageSize is the per_page sent with every request. Only one page is
// read; anything past it is not retrieved.
const DefaultPageSize = 100

const noSubject = "(No Subject)"

type SourceConfig struct {
	PageSize int

	// NewActivityOnly restricts planner items to those with new activity.
	NewActivityOnly bool

	Logger *slog.Logger
}

// Source implements monitor.Source on top of a Transport.
type Source struct {
	transport   Transport
	pageSize    int
	newActivity bool
	logger      *slog.Logger
	arms        *defaultArms

	// Now defaults to time.Now; it anchors the planner start date.
	Now func() time.Time
}

var _ monitor.Source = (*Source)(nil)

func NewSource(t Transport, cfg SourceConfig) *Source {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Source{
		transport:   t,
		pageSize:    cfg.PageSize,
		newActivity: cfg.NewActivityOnly,
		logger:      cfg.Logger,
		arms:        newDefaultArms(cfg.Logger),
		Now:         time.Now,
	}
}

func (s *Source) Name() string {
	return "Canvas"
}

func (s *Source) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Source) pageParams() url.Values {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(s.pageSize))
	return q
}

// getJSON issues a GET and decodes a 2xx body into v. Non-2xx responses
// become *StatusError.
func (s *Source) getJSON(ctx context.Context, path string, q url.Values, token string, v any) error {
	status, body, err := s.transport.Get(ctx, path, q, token)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	if status < 200 || status > 299 {
		return &StatusError{StatusCode: status, Path: path, Body: string(body)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
