package ytmusic

import (
	"time"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

func stateOf(id FlexString) platform.ModelState {
	if id == "" {
		return platform.StateNotFound
	}
	return platform.StateExists
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func (a ArtistRef) Model() platform.BriefArtist {
	return platform.BriefArtist{
		ID:       string(a.ID),
		Platform: platformName,
		Name:     string(a.Name),
		State:    stateOf(a.ID),
	}
}

func (r ArtistRefs) Models() []platform.BriefArtist {
	out := make([]platform.BriefArtist, 0, len(r))
	for _, a := range r {
		out = append(out, a.Model())
	}
	return out
}

func (a *AlbumRef) Model() *platform.BriefAlbum {
	if a == nil {
		return nil
	}
	return &platform.BriefAlbum{
		ID:       string(a.ID),
		Platform: platformName,
		Name:     string(a.Name),
		State:    stateOf(a.ID),
	}
}

func albumType(t FlexString) platform.AlbumType {
	if t == "Single" {
		return platform.AlbumSingle
	}
	return platform.AlbumStandard
}

// DurationMS prefers the duration text and falls back to duration_seconds.
func (s SearchSong) DurationMS() int64 {
	if ms := ParseDurationMS(string(s.Duration)); ms > 0 {
		return ms
	}
	return int64(s.DurationSeconds) * 1000
}

func (s SearchSong) BriefModel() platform.BriefSong {
	albumName := ""
	if s.Album != nil {
		albumName = string(s.Album.Name)
	}
	return platform.BriefSong{
		ID:          string(s.VideoID),
		Platform:    platformName,
		Title:       string(s.Title),
		ArtistsName: platform.JoinArtistNames(s.Artists.Models()),
		AlbumName:   albumName,
		DurationMS:  s.DurationMS(),
		State:       stateOf(s.VideoID),
	}
}

func (s SearchSong) Model() platform.Song {
	return platform.Song{
		ID:           string(s.VideoID),
		Platform:     platformName,
		Title:        string(s.Title),
		Artists:      s.Artists.Models(),
		Album:        s.Album.Model(),
		Duration:     msToDuration(s.DurationMS()),
		CoverURL:     s.Thumbnails.Cover(),
		ThumbnailURL: s.Thumbnails.Smallest(),
		Explicit:     bool(s.IsExplicit),
		SetVideoID:   string(s.SetVideoID),
		State:        stateOf(s.VideoID),
	}
}

func (v SearchVideo) Model() platform.Video {
	return platform.Video{
		ID:       string(v.VideoID),
		Platform: platformName,
		Title:    string(v.Title),
		Artists:  v.Artists.Models(),
		CoverURL: v.Thumbnails.Cover(),
		Duration: msToDuration(ParseDurationMS(string(v.Duration))),
		Views:    string(v.Views),
		State:    stateOf(v.VideoID),
	}
}

func (v SearchVideo) BriefModel() platform.BriefVideo {
	return v.Model().Brief()
}

// Model uses the artist name as the display name; search artists carry it in "artist".
func (a SearchArtist) Model() platform.Artist {
	return platform.Artist{
		ID:       string(a.BrowseID),
		Platform: platformName,
		Name:     string(a.Artist),
		CoverURL: a.Thumbnails.Cover(),
		State:    stateOf(a.BrowseID),
	}
}

func (a SearchArtist) BriefModel() platform.BriefArtist {
	return platform.BriefArtist{
		ID:       string(a.BrowseID),
		Platform: platformName,
		Name:     string(a.Artist),
		State:    stateOf(a.BrowseID),
	}
}

func (a LibraryArtist) Model() platform.Artist {
	m := a.SearchArtist.Model()
	m.Subscribers = string(a.Subscribers)
	return m
}

func (a SearchAlbum) Model() platform.Album {
	return platform.Album{
		ID:       string(a.BrowseID),
		Platform: platformName,
		Name:     string(a.Title),
		Type:     albumType(a.Type),
		CoverURL: a.Thumbnails.Cover(),
		Year:     string(a.Year),
		Artists:  a.Artists.Models(),
		State:    stateOf(a.BrowseID),
	}
}

func (a SearchAlbum) BriefModel() platform.BriefAlbum {
	return a.Model().Brief()
}

func (p SearchPlaylist) Model() platform.BriefPlaylist {
	return platform.BriefPlaylist{
		ID:          string(p.BrowseID),
		Platform:    platformName,
		Name:        string(p.Title),
		CreatorName: string(p.Author),
		CoverURL:    p.Thumbnails.Cover(),
		TrackCount:  int(p.ItemCount),
		State:       stateOf(p.BrowseID),
	}
}

func (p PlaylistSummary) Model() platform.BriefPlaylist {
	creator := ""
	if len(p.Author) > 0 {
		creator = string(p.Author[0].Name)
	}
	return platform.BriefPlaylist{
		ID:          string(p.PlaylistID),
		Platform:    platformName,
		Name:        string(p.Title),
		CreatorName: creator,
		CoverURL:    p.Thumbnails.Cover(),
		TrackCount:  int(p.Count),
		State:       stateOf(p.PlaylistID),
	}
}

// Model builds the artist with its inline top songs and albums. id is used
// when the page carries no channel id.
func (a ArtistInfo) Model(id string) platform.Artist {
	if a.ChannelID != "" {
		id = string(a.ChannelID)
	}
	artist := platform.Artist{
		ID:          id,
		Platform:    platformName,
		Name:        string(a.Name),
		CoverURL:    a.Thumbnails.Cover(),
		Description: string(a.Description),
		Subscribers: string(a.Subscribers),
		State:       stateOf(FlexString(id)),
	}
	for _, s := range a.Songs.Results {
		artist.Songs = append(artist.Songs, s.Model())
	}
	for _, al := range a.Albums.Results {
		artist.Albums = append(artist.Albums, al.BriefModel())
	}
	return artist
}

func (a AlbumInfo) Model(id string) platform.Album {
	album := platform.Album{
		ID:         id,
		Platform:   platformName,
		Name:       string(a.Title),
		Type:       albumType(a.Type),
		CoverURL:   a.Thumbnails.Cover(),
		Year:       string(a.Year),
		Artists:    a.Artists.Models(),
		TrackCount: int(a.TrackCount),
		Duration:   msToDuration(ParseDurationMS(string(a.Duration))),
		State:      stateOf(FlexString(id)),
	}
	brief := album.Brief()
	for _, t := range a.Tracks {
		song := t.Model()
		if song.Album == nil || song.Album.ID == "" {
			song.Album = &brief
		}
		if song.CoverURL == "" {
			song.CoverURL = album.CoverURL
		}
		album.Songs = append(album.Songs, song)
	}
	return album
}

func (p PlaylistInfo) Model() platform.Playlist {
	pl := platform.Playlist{
		ID:          string(p.ID),
		Platform:    platformName,
		Name:        string(p.Title),
		Description: string(p.Description),
		CoverURL:    p.Thumbnails.Cover(),
		CreatorName: string(p.Author.Name),
		Privacy:     string(p.Privacy),
		TrackCount:  int(p.TrackCount),
		State:       stateOf(p.ID),
	}
	for _, t := range p.Tracks {
		pl.Songs = append(pl.Songs, t.Model())
	}
	return pl
}

func (u UserInfo) Model(id string) platform.User {
	user := platform.User{
		ID:       id,
		Platform: platformName,
		Name:     string(u.Name),
		State:    stateOf(FlexString(id)),
	}
	for _, p := range u.Playlists.Results {
		user.Playlists = append(user.Playlists, p.Model())
	}
	for _, v := range u.Videos.Results {
		user.Videos = append(user.Videos, v.BriefModel())
	}
	return user
}

func (t WatchTrack) Model() platform.Song {
	return platform.Song{
		ID:           string(t.VideoID),
		Platform:     platformName,
		Title:        string(t.Title),
		Artists:      t.Artists.Models(),
		Album:        t.Album.Model(),
		Duration:     msToDuration(ParseDurationMS(string(t.Length))),
		CoverURL:     t.Thumbnail.Cover(),
		ThumbnailURL: t.Thumbnail.Smallest(),
		State:        stateOf(t.VideoID),
	}
}

var audioQualities = map[FlexString]platform.Quality{
	"AUDIO_QUALITY_LOW":    platform.QualityLow,
	"AUDIO_QUALITY_MEDIUM": platform.QualityStandard,
	"AUDIO_QUALITY_HIGH":   platform.QualityHigh,
}

// ListFormats returns the distinct audio qualities of the adaptive formats,
// lowest first.
func (s SongInfo) ListFormats() []platform.Quality {
	seen := make(map[platform.Quality]bool)
	for _, f := range s.StreamingData.AdaptiveFormats {
		if q, ok := audioQualities[f.AudioQuality]; ok {
			seen[q] = true
		}
	}
	var out []platform.Quality
	for _, q := range []platform.Quality{platform.QualityLow, platform.QualityStandard, platform.QualityHigh} {
		if seen[q] {
			out = append(out, q)
		}
	}
	return out
}

// MediaFormat returns the first adaptive format for quality. shq is served
// by the high quality streams.
func (s SongInfo) MediaFormat(quality platform.Quality) (platform.MediaFormat, bool) {
	want := quality
	if want == platform.QualitySuperHigh {
		want = platform.QualityHigh
	}
	for _, f := range s.StreamingData.AdaptiveFormats {
		if q, ok := audioQualities[f.AudioQuality]; ok && q == want {
			return platform.MediaFormat{
				Quality:  quality,
				Itag:     int(f.Itag),
				Bitrate:  int(f.Bitrate),
				MimeType: string(f.MimeType),
			}, true
		}
	}
	return platform.MediaFormat{}, false
}

// Formats lists one MediaFormat per quality.
func (s SongInfo) Formats() []platform.MediaFormat {
	var out []platform.MediaFormat
	for _, q := range s.ListFormats() {
		if f, ok := s.MediaFormat(q); ok {
			out = append(out, f)
		}
	}
	return out
}
