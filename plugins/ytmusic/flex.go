package ytmusic

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// FlexString decodes any JSON scalar as text. Objects, arrays and null
// decode to "".
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			*s = ""
			return nil
		}
		*s = FlexString(v)
	case '{', '[':
		*s = ""
	default:
		*s = FlexString(b)
	}
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexInt decodes numbers and numeric text such as "1,234" or "12 songs".
// Anything else decodes to 0.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			*n = 0
			return nil
		}
		*n = FlexInt(leadingInt(text))
		return nil
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	*n = 0
	return nil
}

func (n FlexInt) Int() int { return int(n) }

func leadingInt(text string) int {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return v
}

// FlexBool decodes booleans, "true"/"false" and numbers.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte(`"true"`)):
		*f = true
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		v, err := strconv.ParseFloat(string(b), 64)
		*f = FlexBool(err == nil && v != 0)
	default:
		*f = false
	}
	return nil
}

// List decodes a JSON array element by element and drops the entries that do
// not fit T. Anything but an array decodes to an empty list.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	*l = decodeList[T](b)
	return nil
}

func decodeList[T any](b []byte) []T {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
