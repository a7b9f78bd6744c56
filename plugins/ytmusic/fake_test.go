package ytmusic

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCookie = "SAPISID=sapisid-value; SID=sid-value; HSID=hsid-value"

// recordedRequest is one request seen by the fake upstream.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// ClientName returns context.client.clientName of an innertube body.
func (r recordedRequest) ClientName() string {
	var body struct {
		Context struct {
			Client struct {
				ClientName string `json:"clientName"`
			} `json:"client"`
		} `json:"context"`
	}
	_ = json.Unmarshal(r.Body, &body)
	return body.Context.Client.ClientName
}

// OnBehalfOfUser returns context.user.onBehalfOfUser of an innertube body.
func (r recordedRequest) OnBehalfOfUser() string {
	var body struct {
		Context struct {
			User struct {
				OnBehalfOfUser string `json:"onBehalfOfUser"`
			} `json:"user"`
		} `json:"context"`
	}
	_ = json.Unmarshal(r.Body, &body)
	return body.Context.User.OnBehalfOfUser
}

type fakeHandler func(req recordedRequest) (int, []byte)

// fakeUpstream is a music.youtube.com stand-in keyed by URL path.
// Unknown paths answer 404.
type fakeUpstream struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	handlers map[string]fakeHandler
	requests []recordedRequest
	headers  map[string]http.Header
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{
		t:        t,
		handlers: map[string]fakeHandler{},
		headers:  map[string]http.Header{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) URL() string { return f.server.URL + "/" }

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone(), Body: body}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	handler, ok := f.handlers[r.URL.Path]
	extra := f.headers[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	for k, vs := range extra {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status, out := handler(req)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// Handle registers fn for an absolute path such as /youtubei/v1/browse.
func (f *fakeUpstream) Handle(path string, fn fakeHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = fn
}

// Respond answers path with a fixed status and body.
func (f *fakeUpstream) Respond(path string, status int, body []byte) {
	f.Handle(path, func(recordedRequest) (int, []byte) { return status, body })
}

// Fixture answers path with 200 and a file from testdata.
func (f *fakeUpstream) Fixture(path, name string) {
	f.Respond(path, http.StatusOK, readFixture(f.t, name))
}

// SetHeader adds a response header for path.
func (f *fakeUpstream) SetHeader(path, key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headers[path] == nil {
		f.headers[path] = http.Header{}
	}
	f.headers[path].Add(key, value)
}

// Requests returns the requests made to path, or all requests when path is "".
func (f *fakeUpstream) Requests(path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.requests {
		if path == "" || r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeUpstream) Count(path string) int {
	return len(f.Requests(path))
}

func innertube(endpoint string) string {
	return "/" + innertubePath + endpoint
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newTestSession(t *testing.T, f *fakeUpstream, headers map[string]string, mutate ...func(*SessionOptions)) *Session {
	t.Helper()
	opts := SessionOptions{
		BaseURL:   f.URL(),
		Transport: TransportOptions{Retries: 0},
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	s, err := NewSession(headers, opts)
	require.NoError(t, err)
	return s
}

func cookieHeaders() map[string]string {
	return HeadersFromCookie(testCookie)
}

func jsonBody(s string) []byte {
	return []byte(strings.TrimSpace(s))
}

// respondJSON answers 200 with body.
func respondJSON(body string) fakeHandler {
	return func(recordedRequest) (int, []byte) { return http.StatusOK, jsonBody(body) }
}

// newTestService wires a session, a backend and a service to one fake
// upstream that plays both music.youtube.com and the api proxy.
func newTestService(t *testing.T, f *fakeUpstream, headers map[string]string) (*Session, *Service) {
	t.Helper()
	s := newTestSession(t, f, headers)
	backend, err := NewBackend(s, BackendOptions{BaseURL: f.server.URL, Transport: TransportOptions{Retries: 0}})
	require.NoError(t, err)
	return s, NewService(backend, ServiceOptions{PageSize: 2})
}
