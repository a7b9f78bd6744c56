package ytmusic

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	durationWordPattern = regexp.MustCompile(`(?i)(\d+)\s*(hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)\b`)
	durationLeftover    = regexp.MustCompile(`(?i)^[\s,]*(?:and[\s,]*)*$`)
)

// ParseDurationMS converts an upstream duration into milliseconds.
// Accepted forms are "H:MM:SS", "M:SS", "N hours, N minutes, N seconds"
// (any subset) and a bare number of seconds. Anything else yields 0.
func ParseDurationMS(text string) int64 {
	secs, ok := parseDurationSeconds(text)
	if !ok {
		return 0
	}
	return secs * 1000
}

func parseDurationSeconds(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ":") {
		return parseClock(s)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, n >= 0
	}
	return parseWords(s)
}

func parseClock(s string) (int64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	var total int64
	for i, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		// Everything after the leading field is base 60.
		if i > 0 && n >= 60 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

func parseWords(s string) (int64, bool) {
	matches := durationWordPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	if !durationLeftover.MatchString(durationWordPattern.ReplaceAllString(s, "")) {
		return 0, false
	}

	var total int64
	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		switch strings.ToLower(m[2])[0] {
		case 'h':
			total += n * 3600
		case 'm':
			total += n * 60
		default:
			total += n
		}
	}
	return total, true
}
