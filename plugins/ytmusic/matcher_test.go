package ytmusic

import (
	"testing"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

func TestURLMatcherMatchURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		want      platform.Link
		wantMatch bool
	}{
		{
			name:      "music watch URL",
			url:       "https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=RDAMVM",
			want:      platform.Link{Kind: platform.LinkSong, ID: "dQw4w9WgXcQ"},
			wantMatch: true,
		},
		{
			name:      "youtube watch URL",
			url:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:      platform.Link{Kind: platform.LinkSong, ID: "dQw4w9WgXcQ"},
			wantMatch: true,
		},
		{
			name:      "short link",
			url:       "https://youtu.be/dQw4w9WgXcQ?si=abc",
			want:      platform.Link{Kind: platform.LinkSong, ID: "dQw4w9WgXcQ"},
			wantMatch: true,
		},
		{
			name:      "playlist URL",
			url:       "https://music.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG",
			want:      platform.Link{Kind: platform.LinkPlaylist, ID: "PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG"},
			wantMatch: true,
		},
		{
			name:      "album URL",
			url:       "https://music.youtube.com/browse/MPREb_4pL8gzRtw1p",
			want:      platform.Link{Kind: platform.LinkAlbum, ID: "MPREb_4pL8gzRtw1p"},
			wantMatch: true,
		},
		{
			name:      "artist URL",
			url:       "https://music.youtube.com/channel/UCmMUZbaYdNH0bEd1PAlAqsA",
			want:      platform.Link{Kind: platform.LinkArtist, ID: "UCmMUZbaYdNH0bEd1PAlAqsA"},
			wantMatch: true,
		},
		{
			name:      "watch URL with short id",
			url:       "https://music.youtube.com/watch?v=abc",
			wantMatch: false,
		},
		{
			name:      "browse non album",
			url:       "https://music.youtube.com/browse/FEmusic_home",
			wantMatch: false,
		},
		{
			name:      "other host",
			url:       "https://music.163.com/song?id=12345",
			wantMatch: false,
		},
		{
			name:      "lookalike host",
			url:       "https://notyoutube.com/watch?v=dQw4w9WgXcQ",
			wantMatch: false,
		},
		{
			name:      "empty",
			url:       "",
			wantMatch: false,
		},
	}

	m := NewURLMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.MatchURL(tt.url)
			if ok != tt.wantMatch {
				t.Fatalf("MatchURL(%q) matched = %v, want %v", tt.url, ok, tt.wantMatch)
			}
			if got != tt.want {
				t.Errorf("MatchURL(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestURLMatcherMatchText(t *testing.T) {
	m := NewURLMatcher()

	tests := []struct {
		text      string
		want      platform.Link
		wantMatch bool
	}{
		{"dQw4w9WgXcQ", platform.Link{Kind: platform.LinkSong, ID: "dQw4w9WgXcQ"}, true},
		{"  dQw4w9WgXcQ\n", platform.Link{Kind: platform.LinkSong, ID: "dQw4w9WgXcQ"}, true},
		{"listen https://youtu.be/dQw4w9WgXcQ now", platform.Link{Kind: platform.LinkSong, ID: "dQw4w9WgXcQ"}, true},
		{"dQw4w9WgXc", platform.Link{}, false},
		{"not an id at all", platform.Link{}, false},
		{"", platform.Link{}, false},
	}
	for _, tt := range tests {
		got, ok := m.MatchText(tt.text)
		if ok != tt.wantMatch || got != tt.want {
			t.Errorf("MatchText(%q) = %+v, %v; want %+v, %v", tt.text, got, ok, tt.want, tt.wantMatch)
		}
	}
}
