package ytmusic

import (
	"strings"

	hostpkg "github.com/liuran001/MusicHost-Go/host"
)

const (
	LanguageKey = "language"

	SearchScopeKey     = "search_scope"
	SearchScopeAll     = "all"
	SearchScopeLibrary = "library"
	SearchScopeUploads = "uploads"

	PersistCookiesKey = "persist_cookies"
)

// LanguageDefinition accepts any locale; CoerceLanguage maps it onto the
// supported set.
func LanguageDefinition() hostpkg.PluginSettingDefinition {
	return hostpkg.PluginSettingDefinition{
		Plugin:      platformName,
		Key:         LanguageKey,
		Title:       "Interface language",
		Description: "hl sent with every request: auto, or one of " + strings.Join(SupportedLanguages, ", "),
		Default:     "auto",
		Order:       100,
	}
}

func SearchScopeDefinition() hostpkg.PluginSettingDefinition {
	return hostpkg.PluginSettingDefinition{
		Plugin:      platformName,
		Key:         SearchScopeKey,
		Title:       "Search scope",
		Description: "Search the whole catalogue, the signed-in library or uploads",
		Default:     SearchScopeAll,
		Order:       110,
		Options: []hostpkg.PluginSettingOption{
			{Value: SearchScopeAll, Label: "Catalogue"},
			{Value: SearchScopeLibrary, Label: "Library"},
			{Value: SearchScopeUploads, Label: "Uploads"},
		},
	}
}

func PersistCookiesDefinition() hostpkg.PluginSettingDefinition {
	return hostpkg.PluginSettingDefinition{
		Plugin:      platformName,
		Key:         PersistCookiesKey,
		Title:       "Persist rotated cookies",
		Description: "Write Set-Cookie updates back to the header file",
		Default:     "false",
		Order:       120,
		Options: []hostpkg.PluginSettingOption{
			{Value: "true", Label: "On"},
			{Value: "false", Label: "Off"},
		},
	}
}

func normalizeSearchScope(scope string) YtmusicScope {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case SearchScopeLibrary:
		return ScopeLibrary
	case SearchScopeUploads:
		return ScopeUploads
	default:
		return ScopeAll
	}
}
