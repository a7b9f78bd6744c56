package platform

import (
	"context"

	"github.com/liuran001/MusicHost-Go/host/platform/registry"
)

// Link is a typed reference extracted from a URL or text.
type Link = registry.Link

// LinkKind says what a Link points at.
type LinkKind = registry.LinkKind

const (
	LinkSong     = registry.LinkSong
	LinkAlbum    = registry.LinkAlbum
	LinkArtist   = registry.LinkArtist
	LinkPlaylist = registry.LinkPlaylist
)

// Platform defines the interface that all music platform implementations must satisfy.
// Optional features are exposed through the extra interfaces below and
// advertised through Capabilities.
//
// Platform implementations should be safe for concurrent use by multiple goroutines.
type Platform interface {
	// Name returns the platform identifier (e.g., "ytmusic").
	// This name should be lowercase and URL-safe.
	Name() string

	Capabilities() Capabilities

	// Search searches for items of the given type matching query.
	// The limit parameter controls the maximum number of results to return.
	Search(ctx context.Context, query string, searchType SearchType, limit int) (*SearchResult, error)

	// GetSong retrieves a song by its ID.
	//
	// Returns ErrNotFound if the song doesn't exist.
	GetSong(ctx context.Context, songID string) (*Song, error)

	// GetArtist retrieves an artist by ID.
	GetArtist(ctx context.Context, artistID string) (*Artist, error)

	// GetAlbum retrieves an album and its songs by ID.
	GetAlbum(ctx context.Context, albumID string) (*Album, error)

	// GetPlaylist retrieves a playlist by ID. The number of songs loaded is
	// controlled by WithTrackLimit / WithTrackOffset on ctx.
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)
}

// ProfileSwitcher is implemented by platforms whose credentials can act as
// several identities.
type ProfileSwitcher interface {
	// ListProfiles returns the selectable identities. Finding none is
	// reported as an empty list, not an error.
	ListProfiles(ctx context.Context) ([]Profile, error)

	// CurrentProfile returns the identity requests are made as.
	CurrentProfile(ctx context.Context) (*Profile, error)

	// SwitchProfile selects an identity by gaia id or display name. Both
	// empty resets to the primary identity.
	SwitchProfile(ctx context.Context, name, gaiaID string) (*Profile, error)
}

// LibraryProvider exposes the signed-in user's library.
type LibraryProvider interface {
	Library(ctx context.Context, kind LibraryKind, limit int) (*LibraryPage, error)
}

// Recommender exposes personalised recommendations.
type Recommender interface {
	DailySongs(ctx context.Context) ([]Song, error)
	DailyPlaylists(ctx context.Context) ([]BriefPlaylist, error)
}

// PlaylistEditor allows creating and editing the user's playlists.
type PlaylistEditor interface {
	CreatePlaylist(ctx context.Context, title, description, privacy string, songIDs []string) (string, error)
	AddPlaylistSongs(ctx context.Context, playlistID string, songIDs []string) error
	RemovePlaylistSongs(ctx context.Context, playlistID string, songIDs []string) error
}

// FormatLister lists the audio renditions of a song.
type FormatLister interface {
	ListFormats(ctx context.Context, songID string) ([]MediaFormat, error)
}

// URLMatcher defines the interface for platforms that support URL matching.
//
// Implementations should be safe for concurrent use by multiple goroutines.
type URLMatcher interface {
	// MatchURL attempts to extract a typed reference from a platform URL.
	MatchURL(url string) (Link, bool)
}

// TextMatcher defines the interface for platforms that support parsing
// references from arbitrary text input (e.g., plain IDs).
type TextMatcher interface {
	MatchText(text string) (Link, bool)
}

// Manager provides a registry for multiple platform implementations.
type Manager interface {
	// Register adds a platform implementation to the manager.
	Register(platform Platform)

	// Get retrieves a platform by name.
	// Returns nil if no platform with that name is registered.
	Get(name string) Platform

	// List returns all registered platform names.
	List() []string

	// MatchURL attempts to match a URL against all registered platforms.
	MatchURL(url string) (platformName string, link Link, matched bool)

	// MatchText attempts to match arbitrary text against all registered platforms.
	MatchText(text string) (platformName string, link Link, matched bool)

	// ResolveAlias resolves a platform alias to its canonical platform name.
	ResolveAlias(alias string) (platformName string, matched bool)

	// Meta returns metadata for a platform name.
	Meta(name string) (Meta, bool)

	// ListMeta returns metadata for all registered platforms.
	ListMeta() []Meta
}
