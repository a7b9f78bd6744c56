package ytmusic

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// SupportedLanguages are the interface languages music.youtube.com accepts in "hl".
var SupportedLanguages = []string{
	"ar", "de", "en", "es", "fr", "hi", "it", "ja", "ko",
	"nl", "pt", "ru", "tr", "ur", "zh_CN", "zh_TW",
}

// ResolveLanguage picks the request language: the configured value unless it
// is empty or "auto", then the host language, then the system locale.
func ResolveLanguage(configured, appLanguage, locale string) string {
	configured = strings.TrimSpace(configured)
	if configured != "" && !strings.EqualFold(configured, "auto") {
		return CoerceLanguage(configured)
	}
	for _, candidate := range []string{appLanguage, locale} {
		candidate = strings.TrimSpace(candidate)
		if candidate != "" {
			return CoerceLanguage(candidate)
		}
	}
	return defaultLanguage
}

// CoerceLanguage maps a locale such as "en_US", "pt-BR" or "zh_Hant_HK" to a
// supported language. Chinese collapses to zh_CN or zh_TW; unknown input
// falls back to zh_CN.
func CoerceLanguage(tag string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(tag), "-", "_")
	if slices.Contains(SupportedLanguages, normalized) {
		return normalized
	}
	if i := strings.IndexAny(normalized, ".@"); i >= 0 {
		normalized = normalized[:i]
	}

	primary, _, _ := strings.Cut(normalized, "_")
	primary = strings.ToLower(primary)
	region := ""
	traditional := false

	if parsed, err := language.Parse(strings.ReplaceAll(normalized, "_", "-")); err == nil {
		if base, conf := parsed.Base(); conf != language.No {
			primary = base.String()
		}
		if r, conf := parsed.Region(); conf == language.Exact {
			region = r.String()
		}
		if script, conf := parsed.Script(); conf == language.Exact {
			traditional = script.String() == "Hant"
		}
	} else if parts := strings.Split(normalized, "_"); len(parts) >= 2 {
		region = strings.ToUpper(parts[len(parts)-1])
	}

	if primary == "zh" {
		switch region {
		case "TW", "HK", "MO":
			return "zh_TW"
		}
		if traditional && region == "" {
			return "zh_TW"
		}
		return "zh_CN"
	}
	if slices.Contains(SupportedLanguages, primary) {
		return primary
	}
	return defaultLanguage
}
