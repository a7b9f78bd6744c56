package platform

import (
	"strings"
	"time"
)

// ModelState tells whether a model refers to a real upstream object.
// Adapters produce StateNotFound placeholders instead of failing when the
// upstream payload carries no identifier.
type ModelState int

const (
	StateExists ModelState = iota
	StateNotFound
)

func (s ModelState) String() string {
	if s == StateNotFound {
		return "not_found"
	}
	return "exists"
}

// MarshalText renders the state as its name in JSON payloads.
func (s ModelState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ModelState) UnmarshalText(text []byte) error {
	if string(text) == "not_found" {
		*s = StateNotFound
	} else {
		*s = StateExists
	}
	return nil
}

// AlbumType distinguishes singles from regular releases.
type AlbumType string

const (
	AlbumStandard AlbumType = "standard"
	AlbumSingle   AlbumType = "single"
)

// BriefArtist is the artist reference embedded in songs and albums.
type BriefArtist struct {
	ID       string     `json:"id"`
	Platform string     `json:"platform"`
	Name     string     `json:"name"`
	State    ModelState `json:"state"`
}

// Artist is the full artist model.
type Artist struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Name     string `json:"name"`

	// CoverURL is the highest resolution artist image.
	CoverURL string `json:"cover_url,omitempty"`

	Description string `json:"description,omitempty"`

	// Subscribers is the upstream free-text count, e.g. "230K".
	Subscribers string `json:"subscribers,omitempty"`

	// Songs holds the artist's top songs when they are inline in the artist page.
	Songs []Song `json:"songs,omitempty"`

	Albums []BriefAlbum `json:"albums,omitempty"`

	State ModelState `json:"state"`
}

// BriefAlbum is the album reference embedded in songs.
type BriefAlbum struct {
	ID       string     `json:"id"`
	Platform string     `json:"platform"`
	Name     string     `json:"name"`
	State    ModelState `json:"state"`
}

// Album is the full album model.
type Album struct {
	ID       string    `json:"id"`
	Platform string    `json:"platform"`
	Name     string    `json:"name"`
	Type     AlbumType `json:"type"`

	CoverURL string `json:"cover_url,omitempty"`

	// Year is kept as text; upstream sends "2020" or nothing.
	Year string `json:"year,omitempty"`

	Artists []BriefArtist `json:"artists,omitempty"`

	Songs []Song `json:"songs,omitempty"`

	TrackCount int `json:"track_count,omitempty"`

	Duration time.Duration `json:"duration,omitempty"`

	State ModelState `json:"state"`
}

// Brief returns the album reference form.
func (a Album) Brief() BriefAlbum {
	return BriefAlbum{ID: a.ID, Platform: a.Platform, Name: a.Name, State: a.State}
}

// BriefSong is the compact song shape used in lists.
type BriefSong struct {
	ID          string     `json:"id"`
	Platform    string     `json:"platform"`
	Title       string     `json:"title"`
	ArtistsName string     `json:"artists_name"`
	AlbumName   string     `json:"album_name"`
	DurationMS  int64      `json:"duration_ms"`
	State       ModelState `json:"state"`
}

// Song is the full song model.
type Song struct {
	ID       string        `json:"id"`
	Platform string        `json:"platform"`
	Title    string        `json:"title"`
	Artists  []BriefArtist `json:"artists"`

	// Album is nil when upstream does not attach one (videos, uploads).
	Album *BriefAlbum `json:"album,omitempty"`

	Duration time.Duration `json:"duration"`

	// CoverURL is the last (largest) thumbnail, ThumbnailURL the first.
	CoverURL     string `json:"cover_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	Explicit bool `json:"explicit,omitempty"`

	// SetVideoID identifies this entry inside a playlist; needed for removal.
	SetVideoID string `json:"set_video_id,omitempty"`

	State ModelState `json:"state"`
}

// ArtistsName joins the artist names with ", ".
func (s Song) ArtistsName() string {
	return JoinArtistNames(s.Artists)
}

// Brief returns the compact form of the song.
func (s Song) Brief() BriefSong {
	albumName := ""
	if s.Album != nil {
		albumName = s.Album.Name
	}
	return BriefSong{
		ID:          s.ID,
		Platform:    s.Platform,
		Title:       s.Title,
		ArtistsName: s.ArtistsName(),
		AlbumName:   albumName,
		DurationMS:  s.Duration.Milliseconds(),
		State:       s.State,
	}
}

// BriefVideo is the compact video shape.
type BriefVideo struct {
	ID          string     `json:"id"`
	Platform    string     `json:"platform"`
	Title       string     `json:"title"`
	ArtistsName string     `json:"artists_name"`
	DurationMS  int64      `json:"duration_ms"`
	State       ModelState `json:"state"`
}

// Video is the full video model.
type Video struct {
	ID       string        `json:"id"`
	Platform string        `json:"platform"`
	Title    string        `json:"title"`
	Artists  []BriefArtist `json:"artists"`
	CoverURL string        `json:"cover_url,omitempty"`
	Duration time.Duration `json:"duration"`
	// Views is the upstream free-text view count, e.g. "13K".
	Views string     `json:"views,omitempty"`
	State ModelState `json:"state"`
}

// Brief returns the compact form of the video.
func (v Video) Brief() BriefVideo {
	return BriefVideo{
		ID:          v.ID,
		Platform:    v.Platform,
		Title:       v.Title,
		ArtistsName: JoinArtistNames(v.Artists),
		DurationMS:  v.Duration.Milliseconds(),
		State:       v.State,
	}
}

// BriefPlaylist is the compact playlist shape.
type BriefPlaylist struct {
	ID          string     `json:"id"`
	Platform    string     `json:"platform"`
	Name        string     `json:"name"`
	CreatorName string     `json:"creator_name,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	TrackCount  int        `json:"track_count,omitempty"`
	State       ModelState `json:"state"`
}

// Playlist is the full playlist model.
type Playlist struct {
	ID          string `json:"id"`
	Platform    string `json:"platform"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
	CreatorName string `json:"creator_name,omitempty"`
	Privacy     string `json:"privacy,omitempty"`

	// TrackCount is the advertised size; Songs may hold fewer when paged.
	TrackCount int `json:"track_count,omitempty"`

	Songs []Song `json:"songs,omitempty"`

	State ModelState `json:"state"`
}

// Brief returns the compact form of the playlist.
func (p Playlist) Brief() BriefPlaylist {
	return BriefPlaylist{
		ID:          p.ID,
		Platform:    p.Platform,
		Name:        p.Name,
		CreatorName: p.CreatorName,
		CoverURL:    p.CoverURL,
		TrackCount:  p.TrackCount,
		State:       p.State,
	}
}

// User is a channel owner with public playlists.
type User struct {
	ID        string          `json:"id"`
	Platform  string          `json:"platform"`
	Name      string          `json:"name"`
	Playlists []BriefPlaylist `json:"playlists,omitempty"`
	Videos    []BriefVideo    `json:"videos,omitempty"`
	State     ModelState      `json:"state"`
}

// Profile is one selectable identity under the current credentials.
type Profile struct {
	AccountName     string `json:"account_name"`
	ChannelHandle   string `json:"channel_handle,omitempty"`
	AccountPhotoURL string `json:"account_photo_url,omitempty"`
	ChannelID       string `json:"channel_id,omitempty"`
	GaiaID          string `json:"gaia_id,omitempty"`
	IsSelected      bool   `json:"is_selected"`
}

// SearchType narrows a search to one kind of result.
type SearchType string

const (
	SearchSong     SearchType = "song"
	SearchAlbum    SearchType = "album"
	SearchArtist   SearchType = "artist"
	SearchPlaylist SearchType = "playlist"
	SearchVideo    SearchType = "video"
)

// ParseSearchType accepts the canonical names and their short forms
// ("so", "al", "ar", "pl", "vi"). Empty input means songs.
func ParseSearchType(s string) (SearchType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "song", "songs", "so":
		return SearchSong, true
	case "album", "albums", "al":
		return SearchAlbum, true
	case "artist", "artists", "ar":
		return SearchArtist, true
	case "playlist", "playlists", "pl":
		return SearchPlaylist, true
	case "video", "videos", "vi":
		return SearchVideo, true
	default:
		return "", false
	}
}

// SearchResult groups search hits by kind.
type SearchResult struct {
	Query     string          `json:"query"`
	Type      SearchType      `json:"type"`
	Songs     []Song          `json:"songs,omitempty"`
	Albums    []Album         `json:"albums,omitempty"`
	Artists   []Artist        `json:"artists,omitempty"`
	Playlists []BriefPlaylist `json:"playlists,omitempty"`
	Videos    []Video         `json:"videos,omitempty"`
}

// Len returns the total number of hits.
func (r *SearchResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Songs) + len(r.Albums) + len(r.Artists) + len(r.Playlists) + len(r.Videos)
}

// LibraryKind selects a library listing.
type LibraryKind string

const (
	LibrarySongs         LibraryKind = "songs"
	LibraryAlbums        LibraryKind = "albums"
	LibraryArtists       LibraryKind = "artists"
	LibraryPlaylists     LibraryKind = "playlists"
	LibrarySubscriptions LibraryKind = "subscriptions"
	LibraryLiked         LibraryKind = "liked"
	LibraryHistory       LibraryKind = "history"
)

// ParseLibraryKind validates a library kind name.
func ParseLibraryKind(s string) (LibraryKind, bool) {
	kind := LibraryKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case LibrarySongs, LibraryAlbums, LibraryArtists, LibraryPlaylists,
		LibrarySubscriptions, LibraryLiked, LibraryHistory:
		return kind, true
	default:
		return "", false
	}
}

// LibraryPage is one library listing; only the slice matching Kind is set.
type LibraryPage struct {
	Kind      LibraryKind     `json:"kind"`
	Songs     []Song          `json:"songs,omitempty"`
	Albums    []Album         `json:"albums,omitempty"`
	Artists   []Artist        `json:"artists,omitempty"`
	Playlists []BriefPlaylist `json:"playlists,omitempty"`
}

// MediaFormat describes one audio rendition a song advertises.
type MediaFormat struct {
	Quality  Quality `json:"quality"`
	Itag     int     `json:"itag"`
	Bitrate  int     `json:"bitrate"`
	MimeType string  `json:"mime_type,omitempty"`
}

// Capabilities lists the optional features a platform offers.
type Capabilities struct {
	Search         bool `json:"search"`
	Profiles       bool `json:"profiles"`
	Library        bool `json:"library"`
	Recommendation bool `json:"recommendation"`
	PlaylistEdit   bool `json:"playlist_edit"`
	Formats        bool `json:"formats"`
}

// JoinArtistNames joins non-empty artist names with ", ".
func JoinArtistNames(artists []BriefArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}
