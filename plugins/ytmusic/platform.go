package ytmusic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liuran001/MusicHost-Go/host"
	"github.com/liuran001/MusicHost-Go/host/platform"
)

// PlatformOptions configures a YTMusicPlatform.
type PlatformOptions struct {
	Scope  YtmusicScope
	Logger host.Logger
}

// YTMusicPlatform implements platform.Platform and every optional feature
// interface for YouTube Music.
type YTMusicPlatform struct {
	session  *Session
	profiles *ProfileManager
	service  *Service
	recs     *Recommendations
	matcher  *URLMatcher
	scope    YtmusicScope
	logger   host.Logger
}

func NewPlatform(session *Session, profiles *ProfileManager, service *Service, opts PlatformOptions) *YTMusicPlatform {
	logger := opts.Logger
	if logger == nil {
		logger = host.NopLogger{}
	}
	return &YTMusicPlatform{
		session:  session,
		profiles: profiles,
		service:  service,
		recs:     NewRecommendations(service, logger),
		matcher:  NewURLMatcher(),
		scope:    opts.Scope,
		logger:   logger,
	}
}

func (p *YTMusicPlatform) Name() string {
	return platformName
}

func (p *YTMusicPlatform) Capabilities() platform.Capabilities {
	return platform.Capabilities{
		Search:         true,
		Profiles:       true,
		Library:        true,
		Recommendation: true,
		PlaylistEdit:   true,
		Formats:        true,
	}
}

func (p *YTMusicPlatform) Metadata() platform.Meta {
	return platform.Meta{
		Name:        platformName,
		DisplayName: "YouTube Music",
		Emoji:       "▶️",
		Aliases:     []string{"ytmusic", "ytm", "youtube music", "youtubemusic"},
		Homepage:    Origin,
	}
}

// wrapError maps transport and status errors onto the host error kinds.
func wrapError(resource, id string, err error) error {
	if err == nil {
		return nil
	}
	var pe *platform.PlatformError
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, platform.ErrNotFound):
		return &platform.PlatformError{Platform: platformName, Resource: resource, ID: id, Err: err}
	case errors.Is(err, platform.ErrRateLimited):
		return platform.NewRateLimitedError(platformName)
	case errors.Is(err, platform.ErrAuthRequired):
		return platform.NewAuthRequiredError(platformName, err)
	case errors.Is(err, ErrTransport):
		return platform.NewUnavailableError(platformName, resource, id, err)
	}
	return fmt.Errorf("ytmusic: %s %s: %w", resource, id, err)
}

// Search runs a catalogue search, or a library/uploads search when the
// plugin scope says so.
func (p *YTMusicPlatform) Search(ctx context.Context, query string, searchType platform.SearchType, limit int) (*platform.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &platform.SearchResult{Query: query, Type: searchType}, nil
	}
	items, err := p.service.Search(ctx, query, YtmusicTypeOf(searchType), p.scope, limit)
	if err != nil {
		return nil, wrapError("search", query, err)
	}

	result := &platform.SearchResult{Query: query, Type: searchType}
	for _, item := range items {
		switch v := item.(type) {
		case SearchSong:
			result.Songs = append(result.Songs, v.Model())
		case SearchVideo:
			result.Videos = append(result.Videos, v.Model())
		case SearchArtist:
			result.Artists = append(result.Artists, v.Model())
		case SearchAlbum:
			result.Albums = append(result.Albums, v.Model())
		case SearchPlaylist:
			result.Playlists = append(result.Playlists, v.Model())
		default:
			p.logger.Debug("ytmusic: skipping search result", "result_type", string(item.Header().ResultType))
		}
	}
	return result, nil
}

// GetSong loads a song through its watch playlist, whose first track is the
// song itself.
func (p *YTMusicPlatform) GetSong(ctx context.Context, songID string) (*platform.Song, error) {
	wp, err := p.service.WatchPlaylist(ctx, songID)
	if err != nil {
		return nil, wrapError("song", songID, err)
	}
	for _, t := range wp.Tracks {
		if string(t.VideoID) == songID {
			song := t.Model()
			return &song, nil
		}
	}
	return nil, platform.NewNotFoundError(platformName, "song", songID)
}

// GetArtist loads an artist. Songs come from the artist's full songs
// playlist when one is linked, otherwise from the inline top songs.
func (p *YTMusicPlatform) GetArtist(ctx context.Context, artistID string) (*platform.Artist, error) {
	info, err := p.service.ArtistInfo(ctx, artistID)
	if err != nil {
		return nil, wrapError("artist", artistID, err)
	}
	artist := info.Model(artistID)

	if browseID := string(info.Songs.BrowseID); browseID != "" {
		reader := NewPlaylistReader(p.service, browseID, p.service.PageSize())
		songs, err := reader.Next(ctx)
		if err != nil {
			p.logger.Debug("ytmusic: artist songs playlist failed, using inline songs", "artist", artistID, "error", err)
		} else if len(songs) > 0 {
			artist.Songs = songs
		}
	}

	if browseID, params := string(info.Albums.BrowseID), string(info.Albums.Params); browseID != "" && params != "" {
		albums, err := p.service.ArtistAlbums(ctx, browseID, params)
		if err != nil {
			p.logger.Debug("ytmusic: artist albums failed, using inline albums", "artist", artistID, "error", err)
		} else if len(albums) > 0 {
			artist.Albums = artist.Albums[:0]
			for _, al := range albums {
				artist.Albums = append(artist.Albums, al.BriefModel())
			}
		}
	}
	return &artist, nil
}

func (p *YTMusicPlatform) GetAlbum(ctx context.Context, albumID string) (*platform.Album, error) {
	info, err := p.service.AlbumInfo(ctx, albumID)
	if err != nil {
		return nil, wrapError("album", albumID, err)
	}
	album := info.Model(albumID)
	return &album, nil
}

// GetPlaylist loads one page of a playlist as set by WithTrackLimit and
// WithTrackOffset.
func (p *YTMusicPlatform) GetPlaylist(ctx context.Context, playlistID string) (*platform.Playlist, error) {
	limit := platform.TrackLimitFromContext(ctx)
	offset := platform.TrackOffsetFromContext(ctx)

	var (
		info *PlaylistInfo
		err  error
	)
	if playlistID == likedPlaylistID && offset == 0 {
		info, err = p.service.LikedSongs(ctx, limit)
	} else {
		info, err = p.service.PlaylistInfo(ctx, playlistID, limit, offset)
	}
	if err != nil {
		return nil, wrapError("playlist", playlistID, err)
	}
	pl := info.Model()
	if pl.ID == "" {
		pl.ID = playlistID
		pl.State = platform.StateExists
	}
	return &pl, nil
}

// GetUser loads a channel page with its public playlists.
func (p *YTMusicPlatform) GetUser(ctx context.Context, channelID string) (*platform.User, error) {
	info, err := p.service.UserInfo(ctx, channelID)
	if err != nil {
		return nil, wrapError("user", channelID, err)
	}
	user := info.Model(channelID)
	if params := string(info.Playlists.Params); params != "" {
		playlists, err := p.service.UserPlaylists(ctx, channelID, params)
		if err == nil && len(playlists) > 0 {
			user.Playlists = user.Playlists[:0]
			for _, pl := range playlists {
				user.Playlists = append(user.Playlists, pl.Model())
			}
		}
	}
	return &user, nil
}

func (p *YTMusicPlatform) ListProfiles(ctx context.Context) ([]platform.Profile, error) {
	return p.profiles.ListProfiles(ctx)
}

func (p *YTMusicPlatform) CurrentProfile(ctx context.Context) (*platform.Profile, error) {
	info, err := p.profiles.CurrentAccountInfo(ctx)
	if err != nil {
		return nil, err
	}
	profile := info.Profile(true)
	return &profile, nil
}

func (p *YTMusicPlatform) SwitchProfile(ctx context.Context, name, gaiaID string) (*platform.Profile, error) {
	info, err := p.profiles.SwitchProfile(ctx, name, gaiaID)
	if err != nil {
		return nil, err
	}
	profile := info.Profile(true)
	return &profile, nil
}

// Library lists one part of the signed-in profile's library.
func (p *YTMusicPlatform) Library(ctx context.Context, kind platform.LibraryKind, limit int) (*platform.LibraryPage, error) {
	page := &platform.LibraryPage{Kind: kind}
	switch kind {
	case platform.LibrarySongs:
		songs, err := p.service.LibrarySongs(ctx, limit)
		if err != nil {
			return nil, wrapError("library", string(kind), err)
		}
		for _, s := range songs {
			page.Songs = append(page.Songs, s.Model())
		}
	case platform.LibraryAlbums:
		albums, err := p.service.LibraryAlbums(ctx, limit)
		if err != nil {
			return nil, wrapError("library", string(kind), err)
		}
		for _, a := range albums {
			page.Albums = append(page.Albums, a.Model())
		}
	case platform.LibraryArtists, platform.LibrarySubscriptions:
		fetch := p.service.LibraryArtists
		if kind == platform.LibrarySubscriptions {
			fetch = p.service.LibrarySubscriptionArtists
		}
		artists, err := fetch(ctx, limit)
		if err != nil {
			return nil, wrapError("library", string(kind), err)
		}
		for _, a := range artists {
			page.Artists = append(page.Artists, a.Model())
		}
	case platform.LibraryPlaylists:
		playlists, err := p.service.LibraryPlaylists(ctx, limit)
		if err != nil {
			return nil, wrapError("library", string(kind), err)
		}
		for _, pl := range playlists {
			page.Playlists = append(page.Playlists, pl.Model())
		}
	case platform.LibraryLiked:
		liked, err := p.service.LikedSongs(ctx, limit)
		if err != nil {
			return nil, wrapError("library", string(kind), err)
		}
		for _, s := range liked.Tracks {
			page.Songs = append(page.Songs, s.Model())
		}
	case platform.LibraryHistory:
		history, err := p.service.History(ctx)
		if err != nil {
			return nil, wrapError("library", string(kind), err)
		}
		for _, s := range history {
			if limit > 0 && len(page.Songs) >= limit {
				break
			}
			page.Songs = append(page.Songs, s.Model())
		}
	default:
		return nil, platform.NewUnsupportedError(platformName, "library "+string(kind))
	}
	return page, nil
}

func (p *YTMusicPlatform) DailySongs(ctx context.Context) ([]platform.Song, error) {
	return p.recs.DailySongs(ctx), nil
}

func (p *YTMusicPlatform) DailyPlaylists(ctx context.Context) ([]platform.BriefPlaylist, error) {
	return p.recs.DailyPlaylists(ctx), nil
}

func (p *YTMusicPlatform) CreatePlaylist(ctx context.Context, title, description, privacy string, songIDs []string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("ytmusic: playlist title required")
	}
	id, err := p.service.CreatePlaylist(ctx, title, description, strings.ToUpper(privacy), songIDs)
	if err != nil {
		return "", wrapError("playlist", title, err)
	}
	return id, nil
}

// AddPlaylistSongs appends songs to a playlist. Liked music is managed by
// rating songs and cannot be edited here.
func (p *YTMusicPlatform) AddPlaylistSongs(ctx context.Context, playlistID string, songIDs []string) error {
	if playlistID == likedPlaylistID {
		return platform.NewUnsupportedError(platformName, "editing liked music")
	}
	if len(songIDs) == 0 {
		return nil
	}
	return wrapError("playlist", playlistID, p.service.AddPlaylistItems(ctx, playlistID, songIDs))
}

// RemovePlaylistSongs removes songs by video id. The playlist is read to
// find each entry's setVideoId.
func (p *YTMusicPlatform) RemovePlaylistSongs(ctx context.Context, playlistID string, songIDs []string) error {
	if playlistID == likedPlaylistID {
		return platform.NewUnsupportedError(platformName, "editing liked music")
	}
	if len(songIDs) == 0 {
		return nil
	}
	songs, err := NewPlaylistReader(p.service, playlistID, p.service.PageSize()).ReadAll(ctx, 0)
	if err != nil {
		return wrapError("playlist", playlistID, err)
	}
	entries := make(map[string]string, len(songs))
	for _, s := range songs {
		if _, ok := entries[s.ID]; !ok {
			entries[s.ID] = s.SetVideoID
		}
	}
	refs := make([]PlaylistItemRef, 0, len(songIDs))
	for _, id := range songIDs {
		setVideoID, ok := entries[id]
		if !ok {
			return platform.NewNotFoundError(platformName, "playlist item", id)
		}
		refs = append(refs, PlaylistItemRef{VideoID: id, SetVideoID: setVideoID})
	}
	return wrapError("playlist", playlistID, p.service.RemovePlaylistItems(ctx, playlistID, refs))
}

func (p *YTMusicPlatform) ListFormats(ctx context.Context, songID string) ([]platform.MediaFormat, error) {
	info, err := p.service.SongInfo(ctx, songID)
	if err != nil {
		return nil, wrapError("song", songID, err)
	}
	formats := info.Formats()
	if len(formats) == 0 {
		return nil, platform.NewUnavailableError(platformName, "song", songID, nil)
	}
	return formats, nil
}

func (p *YTMusicPlatform) MatchURL(url string) (platform.Link, bool) {
	return p.matcher.MatchURL(url)
}

func (p *YTMusicPlatform) MatchText(text string) (platform.Link, bool) {
	return p.matcher.MatchText(text)
}

// CheckCookie reports missing cookie fields and, when the cookie looks
// complete, whether an account can be resolved with it.
func (p *YTMusicPlatform) CheckCookie(ctx context.Context) (platform.CookieCheckResult, error) {
	cookie := p.session.Cookie()
	if strings.TrimSpace(cookie) == "" {
		return platform.CookieCheckResult{OK: false, Message: "no cookie configured", Missing: RequiredCookieFields}, nil
	}
	if missing := missingCookieFields(cookie); len(missing) > 0 {
		return platform.CookieCheckResult{
			OK:      false,
			Message: "missing cookie fields: " + strings.Join(missing, ", "),
			Missing: missing,
		}, nil
	}
	info, err := p.profiles.CurrentAccountInfo(ctx)
	if err != nil {
		return platform.CookieCheckResult{OK: false, Message: err.Error()}, nil
	}
	return platform.CookieCheckResult{OK: true, Message: "signed in as " + info.AccountName}, nil
}

var (
	_ platform.Platform         = (*YTMusicPlatform)(nil)
	_ platform.ProfileSwitcher  = (*YTMusicPlatform)(nil)
	_ platform.LibraryProvider  = (*YTMusicPlatform)(nil)
	_ platform.Recommender      = (*YTMusicPlatform)(nil)
	_ platform.PlaylistEditor   = (*YTMusicPlatform)(nil)
	_ platform.FormatLister     = (*YTMusicPlatform)(nil)
	_ platform.URLMatcher       = (*YTMusicPlatform)(nil)
	_ platform.TextMatcher      = (*YTMusicPlatform)(nil)
	_ platform.CookieChecker    = (*YTMusicPlatform)(nil)
	_ platform.MetadataProvider = (*YTMusicPlatform)(nil)
)
