package ytmusic

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/liuran001/MusicHost-Go/host/util"
)

// DefaultHeaderFile is where the request headers are kept when the plugin
// config names no header_file.
func DefaultHeaderFile() string {
	return util.ExpandHome(defaultHeaderFile)
}

// WriteHeaderFile stores a fresh header bag built from auth and cookie.
func WriteHeaderFile(path, auth, cookie string) error {
	headers := map[string]string{
		"Accept":          "*/*",
		"Authorization":   auth,
		"Content-Type":    "application/json",
		"X-Goog-AuthUser": "0",
		"x-origin":        Origin,
		"Cookie":          cookie,
	}
	return writeHeaders(path, headers)
}

// LoadHeaderFile reads the header bag at path.
func LoadHeaderFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(util.ExpandHome(path))
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ytmusic: parse header file: %w", err)
	}
	headers := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			headers[k] = s
		}
	}
	return headers, nil
}

// UpdateHeaderFileCookie rewrites the Cookie entry and reports whether the
// file changed. A missing or unreadable file is treated as empty.
func UpdateHeaderFileCookie(path, cookie string) (bool, error) {
	if path == "" {
		return false, nil
	}
	headers, err := LoadHeaderFile(path)
	if err != nil {
		headers = map[string]string{}
	}
	if current, ok := headers["Cookie"]; ok && current == cookie {
		return false, nil
	}
	headers["Cookie"] = cookie
	if err := writeHeaders(path, headers); err != nil {
		return false, err
	}
	return true, nil
}

func writeHeaders(path string, headers map[string]string) error {
	if path == "" {
		return errors.New("ytmusic: header file path required")
	}
	data, err := json.MarshalIndent(headers, "", "  ")
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(util.ExpandHome(path), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("ytmusic: write header file: %w", err)
	}
	return nil
}
