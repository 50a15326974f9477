package canvas

import (
	"context"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

// Conversations fetches unread threads. The API has no date filter, so
// threads without activity, or with activity before since, are dropped here.
func (s *Source) Conversations(ctx context.Context, student, token string, since *time.Time) ([]monitor.Message, error) {
	q := s.pageParams()
	q.Set("scope", "unread")

	var threads []conversationDTO
	if err := s.getJSON(ctx, apiPrefix+"/conversations", q, token, &threads); err != nil {
		return nil, err
	}

	msgs := make([]monitor.Message, 0, len(threads))
	for _, t := range threads {
		sent := parseTime(t.LastMessageAt)
		if sent == nil {
			continue
		}
		if since != nil && sent.Before(*since) {
			continue
		}

		var body string
		if t.LastMessage != nil {
			body = *t.LastMessage
		}
		msgs = append(msgs, monitor.Message{
			Student: student,
			Subject: t.subject(),
			Preview: monitor.Preview(body, monitor.MessagePreviewLen),
			SentAt:  *sent,
			Sender:  t.sender(),
		})
	}
	return msgs, nil
}
