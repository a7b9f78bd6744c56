package ytmusic

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	regURL         = regexp.MustCompile(`https?://[\w\-_]+(\.[\w\-_]+)+([\w\-.,@?^=%&:/~+#]*[\w\-@?^=%&/~+#])?`)
)

// URLMatcher implements platform.URLMatcher for YouTube and YouTube Music URLs.
type URLMatcher struct{}

func NewURLMatcher() *URLMatcher {
	return &URLMatcher{}
}

// MatchURL extracts a typed reference from a YouTube URL.
// Supports the following URL patterns:
//   - https://music.youtube.com/watch?v=<id>
//   - https://www.youtube.com/watch?v=<id>
//   - https://youtu.be/<id>
//   - https://music.youtube.com/playlist?list=<id>
//   - https://music.youtube.com/browse/MPREb_<id> (album)
//   - https://music.youtube.com/channel/UC<id> (artist)
func (m *URLMatcher) MatchURL(rawURL string) (platform.Link, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return platform.Link{}, false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return platform.Link{}, false
	}
	hostname := strings.ToLower(parsed.Hostname())
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	if hostname == "youtu.be" {
		if len(segments) > 0 && videoIDPattern.MatchString(segments[0]) {
			return platform.Link{Kind: platform.LinkSong, ID: segments[0]}, true
		}
		return platform.Link{}, false
	}
	if hostname != "youtube.com" && !strings.HasSuffix(hostname, ".youtube.com") {
		return platform.Link{}, false
	}

	query := parsed.Query()
	switch segments[0] {
	case "watch":
		if id := query.Get("v"); videoIDPattern.MatchString(id) {
			return platform.Link{Kind: platform.LinkSong, ID: id}, true
		}
	case "playlist":
		if id := query.Get("list"); id != "" {
			return platform.Link{Kind: platform.LinkPlaylist, ID: id}, true
		}
	case "browse":
		if len(segments) > 1 && strings.HasPrefix(segments[1], "MPRE") {
			return platform.Link{Kind: platform.LinkAlbum, ID: segments[1]}, true
		}
	case "channel":
		if len(segments) > 1 && strings.HasPrefix(segments[1], channelIDPrefix) {
			return platform.Link{Kind: platform.LinkArtist, ID: segments[1]}, true
		}
	}
	return platform.Link{}, false
}

// MatchText accepts a URL embedded in text or a bare 11 character video id.
func (m *URLMatcher) MatchText(text string) (platform.Link, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return platform.Link{}, false
	}
	if found := regURL.FindString(text); found != "" {
		if link, ok := m.MatchURL(found); ok {
			return link, true
		}
	}
	if videoIDPattern.MatchString(text) {
		return platform.Link{Kind: platform.LinkSong, ID: text}, true
	}
	return platform.Link{}, false
}
