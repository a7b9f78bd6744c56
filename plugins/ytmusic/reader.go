package ytmusic

import (
	"context"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

// PlaylistPager loads one page of playlist tracks.
type PlaylistPager interface {
	PlaylistInfo(ctx context.Context, playlistID string, limit, offset int) (*PlaylistInfo, error)
}

// PlaylistReader pages through a playlist's tracks on demand.
type PlaylistReader struct {
	pager      PlaylistPager
	playlistID string
	pageSize   int

	read  int
	total int
	known bool
	done  bool
}

func NewPlaylistReader(pager PlaylistPager, playlistID string, pageSize int) *PlaylistReader {
	if pageSize <= 0 {
		pageSize = GlobalLimit
	}
	return &PlaylistReader{pager: pager, playlistID: playlistID, pageSize: pageSize}
}

// Count is the advertised number of tracks, known after the first page.
func (r *PlaylistReader) Count() (int, bool) {
	return r.total, r.known
}

// Done reports whether every page has been read.
func (r *PlaylistReader) Done() bool { return r.done }

// Next returns the next page. It returns nil once the playlist is exhausted.
func (r *PlaylistReader) Next(ctx context.Context) ([]platform.Song, error) {
	if r.done {
		return nil, nil
	}
	info, err := r.pager.PlaylistInfo(ctx, r.playlistID, r.pageSize, r.read)
	if err != nil {
		return nil, err
	}
	if !r.known {
		r.total = int(info.TrackCount)
		r.known = true
	}

	songs := make([]platform.Song, 0, len(info.Tracks))
	for _, t := range info.Tracks {
		songs = append(songs, t.Model())
	}
	r.read += len(songs)
	if len(songs) < r.pageSize || (r.total > 0 && r.read >= r.total) {
		r.done = true
	}
	return songs, nil
}

// ReadAll reads pages until the playlist ends or max songs are collected.
// max <= 0 means no cap.
func (r *PlaylistReader) ReadAll(ctx context.Context, max int) ([]platform.Song, error) {
	var out []platform.Song
	for !r.done {
		page, err := r.Next(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, page...)
		if max > 0 && len(out) >= max {
			return out[:max], nil
		}
	}
	return out, nil
}
