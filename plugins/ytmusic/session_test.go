package ytmusic

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

func fixedNow() time.Time { return time.Unix(1700000000, 0) }

func TestSessionSendRequest(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond(innertube("browse"), http.StatusOK, []byte(`{"ok":true}`))

	s := newTestSession(t, f, cookieHeaders(), func(o *SessionOptions) {
		o.Language = "en"
		o.Now = fixedNow
	})

	body, err := s.SendRequest(context.Background(), "browse", map[string]any{"browseId": "FEmusic_home"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	reqs := f.Requests(innertube("browse"))
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, sapisidHash("sapisid-value", Origin, fixedNow()), req.Header.Get("Authorization"))
	assert.Equal(t, "0", req.Header.Get("X-Goog-AuthUser"))
	assert.Equal(t, Origin, req.Header.Get("Origin"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, testCookie, req.Header.Get("Cookie"))
	assert.Equal(t, webRemixClientName, req.ClientName())
	assert.Empty(t, req.OnBehalfOfUser())
	assert.Contains(t, string(req.Body), `"browseId":"FEmusic_home"`)
	assert.Contains(t, string(req.Body), `"hl":"en"`)
}

func TestSessionOnBehalfOfUser(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond(innertube("browse"), http.StatusOK, []byte(`{}`))
	s := newTestSession(t, f, cookieHeaders())

	s.SetOnBehalfOfUser("gaia-brand")
	_, err := s.SendRequest(context.Background(), "browse", nil)
	require.NoError(t, err)

	s.SetOnBehalfOfUser("")
	_, err = s.SendRequest(context.Background(), "browse", nil)
	require.NoError(t, err)

	reqs := f.Requests(innertube("browse"))
	require.Len(t, reqs, 2)
	assert.Equal(t, "gaia-brand", reqs[0].OnBehalfOfUser())
	assert.Empty(t, reqs[1].OnBehalfOfUser())
}

func TestSessionGetExtraHeaders(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond("/"+accountSwitcherPath, http.StatusOK, []byte(`{}`))
	s := newTestSession(t, f, cookieHeaders())

	_, err := s.Get(context.Background(), accountSwitcherPath, http.Header{"Origin": {"https://example.test"}})
	require.NoError(t, err)

	reqs := f.Requests("/" + accountSwitcherPath)
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "https://example.test", reqs[0].Header.Get("Origin"))
	assert.True(t, strings.HasPrefix(reqs[0].Header.Get("Authorization"), "SAPISIDHASH "))
	assert.Equal(t, userAgent, reqs[0].Header.Get("User-Agent"))
}

func TestSessionMergesAndPersistsCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers.json")
	require.NoError(t, WriteHeaderFile(path, "", testCookie))

	f := newFakeUpstream(t)
	f.Respond(innertube("browse"), http.StatusOK, []byte(`{}`))
	f.SetHeader(innertube("browse"), "Set-Cookie", "SID=rotated; Path=/; Domain=.youtube.com; Secure")

	headers, err := LoadHeaderFile(path)
	require.NoError(t, err)
	s := newTestSession(t, f, headers, func(o *SessionOptions) {
		o.HeaderFile = path
		o.PersistCookies = true
	})

	_, err = s.SendRequest(context.Background(), "browse", nil)
	require.NoError(t, err)

	assert.Contains(t, s.Cookie(), "SID=rotated")
	assert.Contains(t, s.Cookie(), "SAPISID=sapisid-value")

	stored, err := LoadHeaderFile(path)
	require.NoError(t, err)
	assert.Contains(t, stored["Cookie"], "SID=rotated")
	assert.Equal(t, "0", stored["X-Goog-AuthUser"])
}

func TestSessionCookiesNotPersistedByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers.json")
	require.NoError(t, WriteHeaderFile(path, "", testCookie))

	f := newFakeUpstream(t)
	f.Respond(innertube("browse"), http.StatusOK, []byte(`{}`))
	f.SetHeader(innertube("browse"), "Set-Cookie", "SID=rotated")

	s := newTestSession(t, f, cookieHeaders(), func(o *SessionOptions) { o.HeaderFile = path })
	_, err := s.SendRequest(context.Background(), "browse", nil)
	require.NoError(t, err)

	assert.Contains(t, s.Cookie(), "SID=rotated")
	stored, err := LoadHeaderFile(path)
	require.NoError(t, err)
	assert.Equal(t, testCookie, stored["Cookie"])
}

func TestSessionRejectedOnUnauthorized(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond(innertube(endpointAccountMenu), http.StatusUnauthorized, []byte(`{"error":{"code":401}}`))
	s := newTestSession(t, f, cookieHeaders())
	require.True(t, s.Authenticated())

	_, err := s.SendRequest(context.Background(), endpointAccountMenu, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, platform.ErrAuthRequired))
	assert.False(t, s.Authenticated())
	assert.True(t, s.HasCredentials())

	s.SetHeaders(cookieHeaders())
	assert.True(t, s.Authenticated())
}

func TestSessionServerError(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond(innertube("search"), http.StatusInternalServerError, []byte(`oops`))
	s := newTestSession(t, f, cookieHeaders())

	_, err := s.SendRequest(context.Background(), "search", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, s.Authenticated())
}

func TestSessionWithoutCredentials(t *testing.T) {
	f := newFakeUpstream(t)
	s := newTestSession(t, f, nil)
	assert.False(t, s.HasCredentials())
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.RequestHeaders().Get("Authorization"))
}

func TestSetHeadersKeepsAuthUser(t *testing.T) {
	f := newFakeUpstream(t)
	s := newTestSession(t, f, cookieHeaders(), func(o *SessionOptions) { o.AuthUser = "2" })
	assert.Equal(t, "2", s.RequestHeaders().Get("X-Goog-AuthUser"))

	s.SetHeaders(map[string]string{"Cookie": "SAPISID=other"})
	assert.Equal(t, "2", s.RequestHeaders().Get("X-Goog-AuthUser"))
	assert.Equal(t, "SAPISID=other", s.Cookie())
}

func TestHeadersFromCookie(t *testing.T) {
	assert.Nil(t, HeadersFromCookie("  "))
	h := HeadersFromCookie(" SID=1 ")
	assert.Equal(t, "SID=1", h["Cookie"])
	assert.Equal(t, Origin, h["x-origin"])
}
