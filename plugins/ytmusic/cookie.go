package ytmusic

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// cookieJar is an insertion-ordered name=value set parsed from a Cookie header.
type cookieJar struct {
	names  []string
	values map[string]string
}

func parseCookieHeader(header string) *cookieJar {
	jar := &cookieJar{values: make(map[string]string)}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		jar.Set(name, strings.TrimSpace(value))
	}
	return jar
}

// Set overwrites an existing cookie in place or appends a new one.
func (j *cookieJar) Set(name, value string) {
	if _, ok := j.values[name]; !ok {
		j.names = append(j.names, name)
	}
	j.values[name] = value
}

func (j *cookieJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

func (j *cookieJar) Len() int {
	return len(j.names)
}

func (j *cookieJar) String() string {
	parts := make([]string, 0, len(j.names))
	for _, name := range j.names {
		parts = append(parts, name+"="+j.values[name])
	}
	return strings.Join(parts, "; ")
}

// mergeSetCookies applies response cookies to a Cookie header. It reports
// whether the header changed.
func mergeSetCookies(header string, cookies []*http.Cookie) (string, bool) {
	if len(cookies) == 0 {
		return header, false
	}
	jar := parseCookieHeader(header)
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		jar.Set(c.Name, c.Value)
	}
	merged := jar.String()
	if merged == "" {
		return header, false
	}
	return merged, merged != header
}

// sapisidFromCookie returns the SAPISID value, falling back to __Secure-3PAPISID.
func sapisidFromCookie(header string) string {
	jar := parseCookieHeader(header)
	if v, ok := jar.Get("SAPISID"); ok && v != "" {
		return v
	}
	if v, ok := jar.Get("__Secure-3PAPISID"); ok {
		return v
	}
	return ""
}

// sapisidHash builds the Authorization value music.youtube.com expects:
// "SAPISIDHASH <unix>_<sha1(<unix> <sapisid> <origin>)>".
func sapisidHash(sapisid, origin string, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 10)
	sum := sha1.Sum([]byte(ts + " " + sapisid + " " + origin))
	return "SAPISIDHASH " + ts + "_" + hex.EncodeToString(sum[:])
}

// missingCookieFields lists the RequiredCookieFields absent from header.
func missingCookieFields(header string) []string {
	jar := parseCookieHeader(header)
	var missing []string
	for _, name := range RequiredCookieFields {
		if v, ok := jar.Get(name); !ok || v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
