package ytmusic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/liuran001/MusicHost-Go/host"
)

// clientProfile is the innertube client identity a request claims.
type clientProfile struct {
	Name    string
	Version string
}

var (
	webRemixClient = clientProfile{Name: webRemixClientName, Version: webRemixClientVersion}
	webClient      = clientProfile{Name: webClientName, Version: webClientVersion}
)

// SessionOptions configures a Session.
type SessionOptions struct {
	// BaseURL overrides https://music.youtube.com/, mainly for tests.
	BaseURL  string
	Language string
	AuthUser string

	// HeaderFile receives merged cookies when PersistCookies is set.
	HeaderFile     string
	PersistCookies bool

	Transport TransportOptions
	Logger    host.Logger

	// Now is used for SAPISIDHASH timestamps.
	Now func() time.Time
}

// Session is the authenticated music.youtube.com client: a header bag, the
// per-request innertube context and the behalf-of-user scope.
type Session struct {
	baseURL        string
	language       string
	headerFile     string
	persistCookies bool
	transport      *transport
	logger         host.Logger
	now            func() time.Time

	mu             sync.RWMutex
	headers        http.Header
	onBehalfOfUser string
	rejected       bool
}

// NewSession builds a session from a header bag such as the one stored in the
// header file. Empty headers give an unauthenticated session.
func NewSession(headers map[string]string, opts SessionOptions) (*Session, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if opts.Transport.Logger == nil {
		opts.Transport.Logger = opts.Logger
	}
	tr, err := newTransport(opts.Transport)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = host.NopLogger{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = defaultLanguage
	}

	s := &Session{
		baseURL:        baseURL,
		language:       lang,
		headerFile:     opts.HeaderFile,
		persistCookies: opts.PersistCookies,
		transport:      tr,
		logger:         logger,
		now:            now,
	}
	s.headers = buildHeaderBag(headers, opts.AuthUser)
	return s, nil
}

// HeadersFromCookie builds a header bag from a browser cookie string.
func HeadersFromCookie(cookie string) map[string]string {
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return nil
	}
	return map[string]string{
		"Accept":          "*/*",
		"Content-Type":    "application/json",
		"X-Goog-AuthUser": "0",
		"x-origin":        Origin,
		"Cookie":          cookie,
	}
}

func buildHeaderBag(headers map[string]string, authUser string) http.Header {
	h := make(http.Header)
	for k, v := range headers {
		if strings.TrimSpace(v) == "" {
			continue
		}
		h.Set(k, v)
	}
	if authUser != "" {
		h.Set("X-Goog-AuthUser", authUser)
	}
	return h
}

// SetHeaders replaces the header bag and clears a previous rejection.
func (s *Session) SetHeaders(headers map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	authUser := s.headers.Get("X-Goog-AuthUser")
	s.headers = buildHeaderBag(headers, "")
	if s.headers.Get("X-Goog-AuthUser") == "" && authUser != "" {
		s.headers.Set("X-Goog-AuthUser", authUser)
	}
	s.rejected = false
}

// Cookie returns the current Cookie header.
func (s *Session) Cookie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headers.Get("Cookie")
}

// HasCredentials reports whether a cookie or an Authorization value is present.
func (s *Session) HasCredentials() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headers.Get("Cookie") != "" || s.headers.Get("Authorization") != ""
}

// Authenticated is true when credentials are present and the account
// endpoints have not rejected them.
func (s *Session) Authenticated() bool {
	if !s.HasCredentials() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.rejected
}

func (s *Session) markRejected() {
	s.mu.Lock()
	s.rejected = true
	s.mu.Unlock()
}

// SetOnBehalfOfUser scopes subsequent requests to the given obfuscated
// account id. An empty id returns to the primary account.
func (s *Session) SetOnBehalfOfUser(gaiaID string) {
	s.mu.Lock()
	s.onBehalfOfUser = gaiaID
	s.mu.Unlock()
}

// OnBehalfOfUser returns the current scope, "" when unscoped.
func (s *Session) OnBehalfOfUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onBehalfOfUser
}

// RequestHeaders returns a copy of the header bag ready to send. The
// Authorization value is recomputed from SAPISID when the cookie carries one.
func (s *Session) RequestHeaders() http.Header {
	s.mu.RLock()
	h := s.headers.Clone()
	s.mu.RUnlock()

	if sapisid := sapisidFromCookie(h.Get("Cookie")); sapisid != "" {
		h.Set("Authorization", sapisidHash(sapisid, Origin, s.now()))
	}
	if h.Get("User-Agent") == "" {
		h.Set("User-Agent", userAgent)
	}
	if h.Get("X-Origin") == "" {
		h.Set("X-Origin", Origin)
	}
	return h
}

// innertubeContext builds {"context":{"client":...,"user":...}}.
func (s *Session) innertubeContext(client clientProfile) map[string]any {
	user := map[string]any{}
	if id := s.OnBehalfOfUser(); id != "" {
		user["onBehalfOfUser"] = id
	}
	return map[string]any{
		"client": map[string]any{
			"clientName":    client.Name,
			"clientVersion": client.Version,
			"hl":            s.language,
		},
		"user": user,
	}
}

// SendRequest POSTs body to youtubei/v1/<endpoint> under the WEB_REMIX client.
func (s *Session) SendRequest(ctx context.Context, endpoint string, body map[string]any) ([]byte, error) {
	return s.sendRequestAs(ctx, webRemixClient, endpoint, body)
}

func (s *Session) sendRequestAs(ctx context.Context, client clientProfile, endpoint string, body map[string]any) ([]byte, error) {
	payload := make(map[string]any, len(body)+1)
	for k, v := range body {
		payload[k] = v
	}
	payload["context"] = s.innertubeContext(client)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	header := s.RequestHeaders()
	header.Set("Content-Type", "application/json")
	header.Set("Origin", Origin)

	return s.exchange(ctx, http.MethodPost, s.baseURL+innertubePath+endpoint+innertubeQuery, header, data)
}

// Get issues a GET relative to the base URL with the session headers plus extra.
func (s *Session) Get(ctx context.Context, path string, extra http.Header) ([]byte, error) {
	header := s.RequestHeaders()
	for k, vs := range extra {
		header.Del(k)
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	return s.exchange(ctx, http.MethodGet, s.baseURL+strings.TrimPrefix(path, "/"), header, nil)
}

func (s *Session) exchange(ctx context.Context, method, rawURL string, header http.Header, body []byte) ([]byte, error) {
	ex, err := s.transport.do(ctx, method, rawURL, header, body)
	if ex != nil {
		s.mergeCookies(ex.cookies)
	}
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Unauthorized() {
			s.markRejected()
			s.logger.Warn("ytmusic: credentials rejected", "status", statusErr.StatusCode)
		}
		return nil, err
	}
	return ex.body, nil
}

// mergeCookies folds Set-Cookie values into the Cookie header and optionally
// writes the result back to the header file.
func (s *Session) mergeCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	s.mu.Lock()
	merged, changed := mergeSetCookies(s.headers.Get("Cookie"), cookies)
	if changed {
		s.headers.Set("Cookie", merged)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.Debug("ytmusic: session cookies updated", "count", len(cookies))
	if !s.persistCookies || s.headerFile == "" {
		return
	}
	if _, err := UpdateHeaderFileCookie(s.headerFile, merged); err != nil {
		s.logger.Warn("ytmusic: failed to persist cookies", "path", s.headerFile, "error", err)
	}
}
