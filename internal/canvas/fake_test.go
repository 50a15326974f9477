package canvas

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"time"
)

type fakeResponse struct {
	status int
	body   string
	err    error
}

type fakeCall struct {
	path  string
	query url.Values
	token string
}

// fakeTransport answers by token and path; unknown routes return 404.
type fakeTransport struct {
	routes map[string]fakeResponse // token + " " + path
	calls  []fakeCall
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{routes: map[string]fakeResponse{}}
}

func (f *fakeTransport) on(token, path string, status int, body string) *fakeTransport {
	f.routes[token+" "+path] = fakeResponse{status: status, body: body}
	return f
}

func (f *fakeTransport) fail(token, path string) *fakeTransport {
	f.routes[token+" "+path] = fakeResponse{err: errors.New("connection reset by peer")}
	return f
}

func (f *fakeTransport) Get(ctx context.Context, path string, query url.Values, token string) (int, []byte, error) {
	f.calls = append(f.calls, fakeCall{path: path, query: query, token: token})
	r, ok := f.routes[token+" "+path]
	if !ok {
		return 404, []byte(`{"errors":[{"message":"not found"}]}`), nil
	}
	if r.err != nil {
		return 0, nil, r.err
	}
	return r.status, []byte(r.body), nil
}

func (f *fakeTransport) callsTo(path string) []fakeCall {
	var out []fakeCall
	for _, c := range f.calls {
		if c.path == path {
			out = append(out, c)
		}
	}
	return out
}

var testNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSource(t Transport) *Source {
	s := NewSource(t, SourceConfig{Logger: discardLogger()})
	s.Now = func() time.Time { return testNow }
	return s
}
