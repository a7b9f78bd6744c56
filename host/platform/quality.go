package platform

import (
	"fmt"
	"strings"
)

// Quality represents the audio quality level a song can be played at.
type Quality int

const (
	// QualityLow is the lowest bitrate rendition (lq).
	QualityLow Quality = iota

	// QualityStandard is the medium rendition (sq).
	QualityStandard

	// QualityHigh is the high rendition (hq).
	QualityHigh

	// QualitySuperHigh is lossless or better (shq). YouTube Music serves it
	// with the same streams as hq.
	QualitySuperHigh
)

// String returns the short name of the quality.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "lq"
	case QualityStandard:
		return "sq"
	case QualityHigh:
		return "hq"
	case QualitySuperHigh:
		return "shq"
	default:
		return "unknown"
	}
}

// MarshalText renders the quality as its short name.
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quality) UnmarshalText(text []byte) error {
	parsed, err := ParseQuality(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Bitrate returns the approximate bitrate in kbps for the quality level.
func (q Quality) Bitrate() int {
	switch q {
	case QualityLow:
		return 64
	case QualityStandard:
		return 128
	case QualityHigh:
		return 256
	case QualitySuperHigh:
		return 320
	default:
		return 0
	}
}

// ParseQuality converts a short or long name to a Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lq", "low":
		return QualityLow, nil
	case "sq", "standard", "medium":
		return QualityStandard, nil
	case "hq", "high":
		return QualityHigh, nil
	case "shq", "lossless":
		return QualitySuperHigh, nil
	default:
		return QualityStandard, fmt.Errorf("unknown quality level: %s", s)
	}
}
