package ytmusic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/liuran001/MusicHost-Go/host"
)

// TransportOptions tunes the HTTP stack shared by the session and the backend.
type TransportOptions struct {
	Name    string
	Timeout time.Duration
	Retries int
	// RateLimit is requests per second; 0 disables pacing.
	RateLimit float64
	RateBurst int
	// Proxy is an http(s) or socks5 proxy URL.
	Proxy  string
	Logger host.Logger
}

// exchange is a completed HTTP round trip.
type exchange struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    []byte
}

type transport struct {
	client  *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  host.Logger
}

func newTransport(opts TransportOptions) (*transport, error) {
	if opts.Name == "" {
		opts.Name = "ytmusic-api"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	client.HTTPClient.Timeout = opts.Timeout

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("ytmusic: invalid proxy %q: %w", opts.Proxy, err)
		}
		if tr, ok := client.HTTPClient.Transport.(*http.Transport); ok {
			tr.Proxy = http.ProxyURL(proxyURL)
		}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = host.NopLogger{}
	}

	settings := gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// Client errors are answers, not outages.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("ytmusic: circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &transport{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: limiter,
		logger:  logger,
	}, nil
}

// do sends req. The exchange is returned whenever a response arrived, even
// one with an error status, in which case err is a *StatusError.
func (t *transport) do(ctx context.Context, method, rawURL string, header http.Header, body []byte) (*exchange, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var ex *exchange
	_, err := t.breaker.Execute(func() (interface{}, error) {
		var reqBody interface{}
		if body != nil {
			reqBody = body
		}
		req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, reqBody)
		if err != nil {
			return nil, err
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := t.client.Do(req)
		if err != nil {
			return nil, transportError(method+" "+redactURL(rawURL), err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, transportError("read "+redactURL(rawURL), err)
		}
		ex = &exchange{
			status:  resp.StatusCode,
			header:  resp.Header,
			cookies: resp.Cookies(),
			body:    data,
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &StatusError{URL: redactURL(rawURL), StatusCode: resp.StatusCode, Body: string(data)}
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, transportError("circuit breaker", err)
	}

	if err != nil {
		t.logger.Debug("ytmusic: request failed", "method", method, "url", redactURL(rawURL), "error", err)
	}
	return ex, err
}

// redactURL drops the query string, which may carry keys.
func redactURL(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
