package ytmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/liuran001/MusicHost-Go/host"
	"github.com/liuran001/MusicHost-Go/host/platform"
)

// YtmusicType is the search filter understood by the backend.
type YtmusicType string

const (
	YtmusicSongs     YtmusicType = "songs"
	YtmusicVideos    YtmusicType = "videos"
	YtmusicArtists   YtmusicType = "artists"
	YtmusicAlbums    YtmusicType = "albums"
	YtmusicPlaylists YtmusicType = "playlists"
)

// YtmusicTypeOf maps a host search type to the backend filter.
func YtmusicTypeOf(t platform.SearchType) YtmusicType {
	switch t {
	case platform.SearchVideo:
		return YtmusicVideos
	case platform.SearchArtist:
		return YtmusicArtists
	case platform.SearchAlbum:
		return YtmusicAlbums
	case platform.SearchPlaylist:
		return YtmusicPlaylists
	default:
		return YtmusicSongs
	}
}

// YtmusicScope restricts a search to the user's library or uploads.
type YtmusicScope string

const (
	ScopeAll     YtmusicScope = ""
	ScopeLibrary YtmusicScope = "library"
	ScopeUploads YtmusicScope = "uploads"
)

// PlaylistItemRef addresses one entry of a playlist for removal.
type PlaylistItemRef struct {
	VideoID    string `json:"videoId"`
	SetVideoID string `json:"setVideoId,omitempty"`
}

// BackendOptions configures a Backend.
type BackendOptions struct {
	BaseURL   string
	Transport TransportOptions
	Logger    host.Logger
}

// Backend talks to a ytmusicapi proxy. Every request carries the session's
// credentials and behalf-of-user scope.
type Backend struct {
	baseURL   string
	session   *Session
	transport *transport
	logger    host.Logger
}

func NewBackend(session *Session, opts BackendOptions) (*Backend, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBackendURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("ytmusic: invalid backend url %q: %w", baseURL, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = host.NopLogger{}
	}
	if opts.Transport.Name == "" {
		opts.Transport.Name = "ytmusic-backend"
	}
	if opts.Transport.Logger == nil {
		opts.Transport.Logger = logger
	}
	tr, err := newTransport(opts.Transport)
	if err != nil {
		return nil, err
	}
	return &Backend{baseURL: baseURL, session: session, transport: tr, logger: logger}, nil
}

var forwardedHeaders = []string{"Authorization", "Cookie", "X-Goog-AuthUser"}

func (b *Backend) headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	if b.session == nil {
		return h
	}
	src := b.session.RequestHeaders()
	for _, k := range forwardedHeaders {
		if v := src.Get(k); v != "" {
			h.Set(k, v)
		}
	}
	if id := b.session.OnBehalfOfUser(); id != "" {
		h.Set("X-Goog-PageId", id)
	}
	return h
}

func (b *Backend) raw(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	target := b.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	header := b.headers()
	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = data
		header.Set("Content-Type", "application/json")
	}
	ex, err := b.transport.do(ctx, method, target, header, body)
	if err != nil {
		return nil, err
	}
	return ex.body, nil
}

func (b *Backend) decode(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	data, err := b.raw(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bytes.TrimSpace(stripXSSI(data)), out); err != nil {
		return fmt.Errorf("ytmusic: decode %s: %w", path, err)
	}
	return nil
}

func (b *Backend) get(ctx context.Context, path string, query url.Values, out any) error {
	return b.decode(ctx, http.MethodGet, path, query, nil, out)
}

func getList[T any](ctx context.Context, b *Backend, path string, query url.Values) ([]T, error) {
	var out List[T]
	if err := b.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func escape(id string) string {
	return url.PathEscape(id)
}

// Search returns the dispatched result items.
func (b *Backend) Search(ctx context.Context, query string, filter YtmusicType, scope YtmusicScope, limit int) ([]SearchResultItem, error) {
	q := limitQuery(limit)
	q.Set("q", query)
	if filter != "" {
		q.Set("filter", string(filter))
	}
	if scope != ScopeAll {
		q.Set("scope", string(scope))
	}
	data, err := b.raw(ctx, http.MethodGet, "/api/search", q, nil)
	if err != nil {
		return nil, err
	}
	return ParseSearchResults(stripXSSI(data)), nil
}

func (b *Backend) Artist(ctx context.Context, channelID string) (*ArtistInfo, error) {
	var info ArtistInfo
	if err := b.get(ctx, "/api/artists/"+escape(channelID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *Backend) ArtistAlbums(ctx context.Context, channelID, params string) ([]SearchAlbum, error) {
	q := url.Values{}
	if params != "" {
		q.Set("params", params)
	}
	return getList[SearchAlbum](ctx, b, "/api/artists/"+escape(channelID)+"/albums", q)
}

func (b *Backend) User(ctx context.Context, channelID string) (*UserInfo, error) {
	var info UserInfo
	if err := b.get(ctx, "/api/users/"+escape(channelID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *Backend) UserPlaylists(ctx context.Context, channelID, params string) ([]PlaylistSummary, error) {
	q := url.Values{}
	if params != "" {
		q.Set("params", params)
	}
	return getList[PlaylistSummary](ctx, b, "/api/users/"+escape(channelID)+"/playlists", q)
}

func (b *Backend) Album(ctx context.Context, browseID string) (*AlbumInfo, error) {
	var info AlbumInfo
	if err := b.get(ctx, "/api/albums/"+escape(browseID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *Backend) Song(ctx context.Context, videoID string) (*SongInfo, error) {
	var info SongInfo
	if err := b.get(ctx, "/api/songs/"+escape(videoID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *Backend) WatchPlaylist(ctx context.Context, videoID string) (*WatchPlaylist, error) {
	var wp WatchPlaylist
	if err := b.get(ctx, "/api/watch/"+escape(videoID), nil, &wp); err != nil {
		return nil, err
	}
	return &wp, nil
}

func (b *Backend) Categories(ctx context.Context) (*Categories, error) {
	var c Categories
	if err := b.get(ctx, "/api/moods", nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (b *Backend) CategoryPlaylists(ctx context.Context, params string) ([]PlaylistSummary, error) {
	return getList[PlaylistSummary](ctx, b, "/api/moods/playlists", url.Values{"params": {params}})
}

func (b *Backend) Charts(ctx context.Context, country string) (*TopCharts, error) {
	var charts TopCharts
	if err := b.get(ctx, "/api/charts", url.Values{"country": {country}}, &charts); err != nil {
		return nil, err
	}
	return &charts, nil
}

func (b *Backend) LibraryPlaylists(ctx context.Context, limit int) ([]PlaylistSummary, error) {
	return getList[PlaylistSummary](ctx, b, "/api/library/playlists", limitQuery(limit))
}

func (b *Backend) LibrarySongs(ctx context.Context, limit int) ([]LibrarySong, error) {
	return getList[LibrarySong](ctx, b, "/api/library/songs", limitQuery(limit))
}

func (b *Backend) LibraryAlbums(ctx context.Context, limit int) ([]SearchAlbum, error) {
	return getList[SearchAlbum](ctx, b, "/api/library/albums", limitQuery(limit))
}

func (b *Backend) LibraryArtists(ctx context.Context, limit int) ([]LibraryArtist, error) {
	return getList[LibraryArtist](ctx, b, "/api/library/artists", limitQuery(limit))
}

func (b *Backend) LibrarySubscriptions(ctx context.Context, limit int) ([]LibraryArtist, error) {
	return getList[LibraryArtist](ctx, b, "/api/library/subscriptions", limitQuery(limit))
}

func (b *Backend) LikedSongs(ctx context.Context, limit int) (*PlaylistInfo, error) {
	var info PlaylistInfo
	if err := b.get(ctx, "/api/liked", limitQuery(limit), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *Backend) History(ctx context.Context) ([]HistorySong, error) {
	return getList[HistorySong](ctx, b, "/api/history", nil)
}

func (b *Backend) Playlist(ctx context.Context, playlistID string, limit, offset int) (*PlaylistInfo, error) {
	q := limitQuery(limit)
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var info PlaylistInfo
	if err := b.get(ctx, "/api/playlists/"+escape(playlistID), q, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *Backend) Home(ctx context.Context, limit int) ([]HomeSection, error) {
	return getList[HomeSection](ctx, b, "/api/home", limitQuery(limit))
}

// CreatePlaylist returns the id of the new playlist.
func (b *Backend) CreatePlaylist(ctx context.Context, title, description, privacy string, videoIDs []string) (string, error) {
	payload := map[string]any{
		"title":          title,
		"description":    description,
		"privacy_status": privacy,
	}
	if len(videoIDs) > 0 {
		payload["video_ids"] = videoIDs
	}
	var res createPlaylistResult
	if err := b.decode(ctx, http.MethodPost, "/api/playlists", nil, payload, &res); err != nil {
		return "", err
	}
	if res.PlaylistID == "" {
		return "", fmt.Errorf("ytmusic: create playlist %q: empty playlist id", title)
	}
	return string(res.PlaylistID), nil
}

func (b *Backend) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) (*EditResult, error) {
	var res EditResult
	payload := map[string]any{"video_ids": videoIDs}
	if err := b.decode(ctx, http.MethodPost, "/api/playlists/"+escape(playlistID)+"/items", nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (b *Backend) RemovePlaylistItems(ctx context.Context, playlistID string, items []PlaylistItemRef) (*EditResult, error) {
	var res EditResult
	payload := map[string]any{"videos": items}
	if err := b.decode(ctx, http.MethodDelete, "/api/playlists/"+escape(playlistID)+"/items", nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
