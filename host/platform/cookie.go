package platform

import "context"

// CookieCheckResult reports whether stored credentials look usable.
type CookieCheckResult struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

// CookieChecker is implemented by platforms that authenticate with browser cookies.
type CookieChecker interface {
	CheckCookie(ctx context.Context) (CookieCheckResult, error)
}
