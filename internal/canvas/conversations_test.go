package canvas

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

const conversationsPath = "/api/v1/conversations"

func TestConversations(t *testing.T) {
	long := strings.Repeat("x", 150)
	body := `[
		{"id": 1, "subject": "Field trip", "last_message": "<p>Bring your <b>permission</b> slip</p>",
		 "last_message_at": "2026-10-13T09:00:00Z", "participants": [{"id": 7, "name": "Ms. Rivera"}, {"id": 8, "name": "Alex"}]},
		{"id": 2, "subject": "", "last_message": "` + long + `", "last_message_at": "2026-10-12T09:00:00Z", "participants": []},
		{"id": 3, "subject": "No timestamp", "last_message": "hi", "last_message_at": null},
		{"id": 4, "subject": "Ancient", "last_message": "old", "last_message_at": "2026-09-01T09:00:00Z", "participants": [{"name": "X"}]}
	]`
	tr := newFakeTransport().on("tok", conversationsPath, 200, body)
	src := newTestSource(tr)

	since := testNow.AddDate(0, 0, -7)
	msgs, err := src.Conversations(context.Background(), "Alex", "tok", &since)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, monitor.Message{
		Student: "Alex",
		Subject: "Field trip",
		Preview: "Bring your permission slip",
		SentAt:  time.Date(2026, 10, 13, 9, 0, 0, 0, time.UTC),
		Sender:  "Ms. Rivera",
	}, msgs[0])

	assert.Equal(t, noSubject, msgs[1].Subject)
	assert.Equal(t, monitor.Unknown, msgs[1].Sender)
	assert.Equal(t, strings.Repeat("x", monitor.MessagePreviewLen)+monitor.Ellipsis, msgs[1].Preview)

	assert.Equal(t, "unread", tr.calls[0].query.Get("scope"))

	// unbounded window keeps the old thread but still drops the undated one
	msgs, err = src.Conversations(context.Background(), "Alex", "tok", nil)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestConversations_Forbidden(t *testing.T) {
	tr := newFakeTransport().on("tok", conversationsPath, 403, `{"status":"unauthorized"}`)
	msgs, err := newTestSource(tr).Conversations(context.Background(), "Alex", "tok", nil)
	assert.Empty(t, msgs)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 403, se.StatusCode)
}
