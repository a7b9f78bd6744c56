package platform

import "strings"

// Meta describes optional platform metadata used for listings and alias resolution.
type Meta struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Emoji       string   `json:"emoji"`
	Aliases     []string `json:"aliases,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
}

// MetadataProvider can be implemented by platforms to expose metadata.
type MetadataProvider interface {
	Metadata() Meta
}

// normalizeAlias prepares an alias token for lookup.
func normalizeAlias(alias string) string {
	trimmed := strings.TrimSpace(alias)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.TrimPrefix(trimmed, "@")
	return strings.ToLower(strings.TrimSpace(trimmed))
}
