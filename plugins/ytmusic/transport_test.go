package ytmusic

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportBreakerOpensAfterFailures(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond("/fail", http.StatusBadGateway, []byte(`down`))

	tr, err := newTransport(TransportOptions{Name: "test", Retries: 0})
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		_, err := tr.do(context.Background(), http.MethodGet, f.URL()+"fail", nil, nil)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
	}

	_, err = tr.do(context.Background(), http.MethodGet, f.URL()+"fail", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, 6, f.Count("/fail"))
}

func TestTransportClientErrorsKeepBreakerClosed(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond("/missing", http.StatusNotFound, []byte(`{}`))

	tr, err := newTransport(TransportOptions{Retries: 0})
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		ex, err := tr.do(context.Background(), http.MethodGet, f.URL()+"missing", nil, nil)
		require.Error(t, err)
		require.NotNil(t, ex)
		assert.Equal(t, http.StatusNotFound, ex.status)
	}
	assert.Equal(t, 8, f.Count("/missing"))
	assert.Equal(t, gobreaker.StateClosed, tr.breaker.State())
}

func TestTransportSendsBodyAndHeaders(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond("/echo", http.StatusOK, []byte(`{"ok":1}`))

	tr, err := newTransport(TransportOptions{})
	require.NoError(t, err)

	ex, err := tr.do(context.Background(), http.MethodPost, f.URL()+"echo?key=secret",
		http.Header{"X-Test": {"1"}}, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, ex.status)
	assert.Equal(t, `{"ok":1}`, string(ex.body))

	reqs := f.Requests("/echo")
	require.Len(t, reqs, 1)
	assert.Equal(t, "1", reqs[0].Header.Get("X-Test"))
	assert.Equal(t, `{"a":1}`, string(reqs[0].Body))
}

func TestTransportRateLimiterHonoursContext(t *testing.T) {
	tr, err := newTransport(TransportOptions{RateLimit: 1, RateBurst: 1})
	require.NoError(t, err)
	require.NotNil(t, tr.limiter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.do(ctx, http.MethodGet, "http://127.0.0.1:1/", nil, nil)
	require.Error(t, err)
}

func TestTransportInvalidProxy(t *testing.T) {
	_, err := newTransport(TransportOptions{Proxy: "://bad"})
	require.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://x/a", redactURL("https://x/a?key=1"))
	assert.Equal(t, "https://x/a", redactURL("https://x/a"))
}
