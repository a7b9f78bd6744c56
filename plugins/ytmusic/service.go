package ytmusic

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/liuran001/MusicHost-Go/host"
)

// ErrEditRejected is returned when upstream answers a playlist edit without
// STATUS_SUCCEEDED.
var ErrEditRejected = errors.New("ytmusic: playlist edit rejected")

// ServiceOptions tunes the Service caches.
type ServiceOptions struct {
	CacheSize int
	CacheTTL  time.Duration
	PageSize  int
	Logger    host.Logger
}

// responseCache is an expirable LRU with a generation counter; a purge bumps
// the generation so in-flight fetches started before it are not stored.
// mu orders store against purge.
type responseCache struct {
	name string
	lru  *expirable.LRU[string, any]

	mu  sync.Mutex
	gen uint64
}

func newResponseCache(name string, size int, ttl time.Duration) *responseCache {
	return &responseCache{name: name, lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

func (c *responseCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// store adds v under key unless a purge happened since gen was read.
func (c *responseCache) store(gen uint64, key string, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.lru.Add(key, v)
	return true
}

func (c *responseCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

// Service fronts the Backend with public and account-scoped caches.
type Service struct {
	backend  *Backend
	logger   host.Logger
	pageSize int

	public  *responseCache
	account *responseCache
	flight  singleflight.Group
}

func NewService(backend *Backend, opts ServiceOptions) *Service {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = GlobalLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = host.NopLogger{}
	}
	return &Service{
		backend:  backend,
		logger:   logger,
		pageSize: pageSize,
		public:   newResponseCache("public", size, ttl),
		account:  newResponseCache("account", size, ttl),
	}
}

// PageSize is the default listing size.
func (s *Service) PageSize() int { return s.pageSize }

func (s *Service) limitOr(limit int) int {
	if limit <= 0 {
		return s.pageSize
	}
	return limit
}

// PurgeAccountScoped drops every cached response that depends on the
// current profile.
func (s *Service) PurgeAccountScoped() {
	s.account.purge()
	s.logger.Debug("ytmusic: account cache purged")
}

// cached returns the cached value for key or fetches it once for all
// concurrent callers. The shared fetch is detached from the caller's
// cancellation; a cancelled caller stops waiting without failing the others.
func cached[T any](ctx context.Context, s *Service, c *responseCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.lru.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	gen := c.generation()
	flightKey := c.name + "/" + strconv.FormatUint(gen, 10) + "/" + key
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(flightKey, func() (any, error) {
		out, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if !c.store(gen, key, out) {
			s.logger.Debug("ytmusic: dropped response fetched before purge", "cache", c.name, "key", key)
		}
		return out, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func cacheKey(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprint(&b, p)
	}
	return b.String()
}

func (s *Service) Search(ctx context.Context, query string, filter YtmusicType, scope YtmusicScope, limit int) ([]SearchResultItem, error) {
	return s.backend.Search(ctx, query, filter, scope, s.limitOr(limit))
}

func (s *Service) ArtistInfo(ctx context.Context, channelID string) (*ArtistInfo, error) {
	return cached(ctx, s, s.public, cacheKey("artist", channelID), func(ctx context.Context) (*ArtistInfo, error) {
		return s.backend.Artist(ctx, channelID)
	})
}

func (s *Service) ArtistAlbums(ctx context.Context, channelID, params string) ([]SearchAlbum, error) {
	return cached(ctx, s, s.public, cacheKey("artist_albums", channelID, params), func(ctx context.Context) ([]SearchAlbum, error) {
		return s.backend.ArtistAlbums(ctx, channelID, params)
	})
}

func (s *Service) UserInfo(ctx context.Context, channelID string) (*UserInfo, error) {
	return cached(ctx, s, s.public, cacheKey("user", channelID), func(ctx context.Context) (*UserInfo, error) {
		return s.backend.User(ctx, channelID)
	})
}

func (s *Service) UserPlaylists(ctx context.Context, channelID, params string) ([]PlaylistSummary, error) {
	return cached(ctx, s, s.account, cacheKey("user_playlists", channelID, params), func(ctx context.Context) ([]PlaylistSummary, error) {
		return s.backend.UserPlaylists(ctx, channelID, params)
	})
}

func (s *Service) AlbumInfo(ctx context.Context, browseID string) (*AlbumInfo, error) {
	return cached(ctx, s, s.public, cacheKey("album", browseID), func(ctx context.Context) (*AlbumInfo, error) {
		return s.backend.Album(ctx, browseID)
	})
}

func (s *Service) SongInfo(ctx context.Context, videoID string) (*SongInfo, error) {
	return cached(ctx, s, s.public, cacheKey("song", videoID), func(ctx context.Context) (*SongInfo, error) {
		return s.backend.Song(ctx, videoID)
	})
}

func (s *Service) WatchPlaylist(ctx context.Context, videoID string) (*WatchPlaylist, error) {
	return cached(ctx, s, s.public, cacheKey("watch", videoID), func(ctx context.Context) (*WatchPlaylist, error) {
		return s.backend.WatchPlaylist(ctx, videoID)
	})
}

func (s *Service) Categories(ctx context.Context) (*Categories, error) {
	return cached(ctx, s, s.public, "categories", s.backend.Categories)
}

func (s *Service) CategoryPlaylists(ctx context.Context, params string) ([]PlaylistSummary, error) {
	return cached(ctx, s, s.public, cacheKey("category_playlists", params), func(ctx context.Context) ([]PlaylistSummary, error) {
		return s.backend.CategoryPlaylists(ctx, params)
	})
}

// Charts returns the top charts of country, "ZZ" (global) when empty.
func (s *Service) Charts(ctx context.Context, country string) (*TopCharts, error) {
	if country == "" {
		country = defaultCountry
	}
	return cached(ctx, s, s.public, cacheKey("charts", country), func(ctx context.Context) (*TopCharts, error) {
		return s.backend.Charts(ctx, country)
	})
}

func (s *Service) LibraryPlaylists(ctx context.Context, limit int) ([]PlaylistSummary, error) {
	limit = s.limitOr(limit)
	return cached(ctx, s, s.account, cacheKey("library_playlists", limit), func(ctx context.Context) ([]PlaylistSummary, error) {
		return s.backend.LibraryPlaylists(ctx, limit)
	})
}

func (s *Service) LibrarySongs(ctx context.Context, limit int) ([]LibrarySong, error) {
	limit = s.limitOr(limit)
	return cached(ctx, s, s.account, cacheKey("library_songs", limit), func(ctx context.Context) ([]LibrarySong, error) {
		return s.backend.LibrarySongs(ctx, limit)
	})
}

func (s *Service) LibraryAlbums(ctx context.Context, limit int) ([]SearchAlbum, error) {
	limit = s.limitOr(limit)
	return cached(ctx, s, s.account, cacheKey("library_albums", limit), func(ctx context.Context) ([]SearchAlbum, error) {
		return s.backend.LibraryAlbums(ctx, limit)
	})
}

func (s *Service) LibraryArtists(ctx context.Context, limit int) ([]LibraryArtist, error) {
	limit = s.limitOr(limit)
	return cached(ctx, s, s.account, cacheKey("library_artists", limit), func(ctx context.Context) ([]LibraryArtist, error) {
		return s.backend.LibraryArtists(ctx, limit)
	})
}

func (s *Service) LibrarySubscriptionArtists(ctx context.Context, limit int) ([]LibraryArtist, error) {
	limit = s.limitOr(limit)
	return cached(ctx, s, s.account, cacheKey("library_subscriptions", limit), func(ctx context.Context) ([]LibraryArtist, error) {
		return s.backend.LibrarySubscriptions(ctx, limit)
	})
}

// PlaylistInfo loads one page of a playlist.
func (s *Service) PlaylistInfo(ctx context.Context, playlistID string, limit, offset int) (*PlaylistInfo, error) {
	limit = s.limitOr(limit)
	return cached(ctx, s, s.account, cacheKey("playlist", playlistID, limit, offset), func(ctx context.Context) (*PlaylistInfo, error) {
		return s.backend.Playlist(ctx, playlistID, limit, offset)
	})
}

func (s *Service) LikedSongs(ctx context.Context, limit int) (*PlaylistInfo, error) {
	limit = s.limitOr(limit)
	return cached(ctx, s, s.account, cacheKey("liked", limit), func(ctx context.Context) (*PlaylistInfo, error) {
		return s.backend.LikedSongs(ctx, limit)
	})
}

func (s *Service) History(ctx context.Context) ([]HistorySong, error) {
	return cached(ctx, s, s.account, "history", s.backend.History)
}

func (s *Service) HomeSections(ctx context.Context, limit int) ([]HomeSection, error) {
	if limit <= 0 {
		limit = homeSectionLimit
	}
	return cached(ctx, s, s.account, cacheKey("home", limit), func(ctx context.Context) ([]HomeSection, error) {
		return s.backend.Home(ctx, limit)
	})
}

// CreatePlaylist creates a playlist and returns its id.
func (s *Service) CreatePlaylist(ctx context.Context, title, description, privacy string, videoIDs []string) (string, error) {
	if privacy == "" {
		privacy = "PRIVATE"
	}
	id, err := s.backend.CreatePlaylist(ctx, title, description, privacy, videoIDs)
	if err != nil {
		return "", err
	}
	s.PurgeAccountScoped()
	return id, nil
}

func (s *Service) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error {
	res, err := s.backend.AddPlaylistItems(ctx, playlistID, videoIDs)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("%w: add to %s: status %q", ErrEditRejected, playlistID, res.Status)
	}
	s.PurgeAccountScoped()
	return nil
}

func (s *Service) RemovePlaylistItems(ctx context.Context, playlistID string, items []PlaylistItemRef) error {
	res, err := s.backend.RemovePlaylistItems(ctx, playlistID, items)
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("%w: remove from %s: status %q", ErrEditRejected, playlistID, res.Status)
	}
	s.PurgeAccountScoped()
	return nil
}

// LibraryOverview is the first page of every library listing.
type LibraryOverview struct {
	Playlists []PlaylistSummary
	Songs     []LibrarySong
	Albums    []SearchAlbum
	Artists   []LibraryArtist
}

// LibraryOverview fetches the library listings concurrently. The first
// failure cancels the rest.
func (s *Service) LibraryOverview(ctx context.Context, limit int) (*LibraryOverview, error) {
	var out LibraryOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Playlists, err = s.LibraryPlaylists(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		out.Songs, err = s.LibrarySongs(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		out.Albums, err = s.LibraryAlbums(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		out.Artists, err = s.LibraryArtists(gctx, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
