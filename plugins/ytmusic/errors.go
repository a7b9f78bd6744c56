package ytmusic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

var (
	// ErrNotAuthenticated is returned before any network call when the session
	// has no credentials, or when they were rejected by the account endpoints.
	ErrNotAuthenticated = fmt.Errorf("ytmusic: not authenticated: %w", platform.ErrAuthRequired)

	// ErrNoAccountInfo means every discovery path ran but none produced an account.
	ErrNoAccountInfo = fmt.Errorf("ytmusic: no account info available; cookies or authorization may be expired: %w", platform.ErrAuthRequired)

	// ErrProfileNotFound is returned by SwitchProfile when no item matches.
	ErrProfileNotFound = fmt.Errorf("ytmusic: profile not found: %w", platform.ErrNotFound)

	// ErrTransport marks failures of the underlying HTTP exchange.
	ErrTransport = errors.New("ytmusic: transport failure")
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("ytmusic: %s: unexpected status %d: %s", e.URL, e.StatusCode, strings.TrimSpace(body))
}

// Unauthorized reports whether the upstream rejected the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// Is maps the status onto the platform sentinels so the host can report it.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case platform.ErrAuthRequired:
		return e.Unauthorized()
	case platform.ErrNotFound:
		return e.StatusCode == 404
	case platform.ErrRateLimited:
		return e.StatusCode == 429
	}
	return false
}

// DiscoveryError aggregates the failures of every account discovery source.
type DiscoveryError struct {
	Sources []string
	Err     error
}

func newDiscoveryError(sources []string, errs []error) *DiscoveryError {
	return &DiscoveryError{Sources: sources, Err: errors.Join(errs...)}
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("ytmusic: all account sources failed (%s): %v", strings.Join(e.Sources, ", "), e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

func (e *DiscoveryError) Is(target error) bool {
	return target == ErrTransport
}

// transportError wraps err so errors.Is(err, ErrTransport) holds.
func transportError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
