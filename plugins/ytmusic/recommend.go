package ytmusic

import (
	"context"

	"github.com/liuran001/MusicHost-Go/host"
	"github.com/liuran001/MusicHost-Go/host/platform"
)

// HomeSource supplies the personalised home feed.
type HomeSource interface {
	HomeSections(ctx context.Context, limit int) ([]HomeSection, error)
}

// Recommendations derives daily songs and playlists from the home feed.
type Recommendations struct {
	home   HomeSource
	logger host.Logger
}

func NewRecommendations(home HomeSource, logger host.Logger) *Recommendations {
	if logger == nil {
		logger = host.NopLogger{}
	}
	return &Recommendations{home: home, logger: logger}
}

func (r *Recommendations) sections(ctx context.Context) []HomeSection {
	sections, err := r.home.HomeSections(ctx, homeSectionLimit)
	if err != nil {
		r.logger.Warn("ytmusic: failed to load home sections", "error", err)
		return nil
	}
	return sections
}

// DailySongs returns the distinct songs of the home feed in feed order.
func (r *Recommendations) DailySongs(ctx context.Context) []platform.Song {
	songs := []platform.Song{}
	seen := make(map[string]struct{})
	for _, section := range r.sections(ctx) {
		for _, item := range section.Contents {
			id := string(item.VideoID)
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			songs = append(songs, item.songModel())
		}
	}
	return songs
}

// DailyPlaylists returns the distinct playlists of the home feed.
func (r *Recommendations) DailyPlaylists(ctx context.Context) []platform.BriefPlaylist {
	playlists := []platform.BriefPlaylist{}
	seen := make(map[string]struct{})
	for _, section := range r.sections(ctx) {
		for _, item := range section.Contents {
			id := string(item.PlaylistID)
			if id == "" || item.VideoID != "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			playlists = append(playlists, item.playlistModel())
		}
	}
	return playlists
}

func (h HomeItem) songModel() platform.Song {
	return platform.Song{
		ID:           string(h.VideoID),
		Platform:     platformName,
		Title:        string(h.Title),
		Artists:      h.Artists.Models(),
		Album:        h.Album.Model(),
		Duration:     msToDuration(ParseDurationMS(string(h.Duration))),
		CoverURL:     h.Thumbnails.Cover(),
		ThumbnailURL: h.Thumbnails.Smallest(),
		State:        stateOf(h.VideoID),
	}
}

func (h HomeItem) playlistModel() platform.BriefPlaylist {
	creator := ""
	if len(h.Author) > 0 {
		creator = string(h.Author[0].Name)
	}
	return platform.BriefPlaylist{
		ID:          string(h.PlaylistID),
		Platform:    platformName,
		Name:        string(h.Title),
		CreatorName: creator,
		CoverURL:    h.Thumbnails.Cover(),
		TrackCount:  leadingInt(string(h.Count)),
		State:       stateOf(h.PlaylistID),
	}
}
