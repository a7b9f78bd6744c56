package ytmusic

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHome struct {
	sections []HomeSection
	err      error
	limits   []int
}

func (s *stubHome) HomeSections(_ context.Context, limit int) ([]HomeSection, error) {
	s.limits = append(s.limits, limit)
	return s.sections, s.err
}

const homeBody = `[
	{"title":"Quick picks","contents":[
		{"title":"Tune","videoId":"aaaaaaaaaaa","artists":[{"name":"Singer","id":"UCsinger"}]},
		{"title":"Other","videoId":"bbbbbbbbbbb"},
		{"title":"Tune again","videoId":"aaaaaaaaaaa"}
	]},
	{"title":"Mixed for you","contents":[
		{"title":"Supermix","playlistId":"RDTMAK5uy","description":"Mix","count":"50 songs","author":[{"name":"YouTube Music"}]},
		{"title":"Radio song","videoId":"ccccccccccc","playlistId":"RDAMVM"},
		{"title":"Supermix dup","playlistId":"RDTMAK5uy"}
	]}
]`

func loadHome(t *testing.T) []HomeSection {
	t.Helper()
	var sections List[HomeSection]
	require.NoError(t, json.Unmarshal([]byte(homeBody), &sections))
	return sections
}

func TestDailySongs(t *testing.T) {
	home := &stubHome{sections: loadHome(t)}
	songs := NewRecommendations(home, nil).DailySongs(context.Background())

	require.Len(t, songs, 3)
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}, []string{songs[0].ID, songs[1].ID, songs[2].ID})
	assert.Equal(t, "Tune", songs[0].Title)
	require.Len(t, songs[0].Artists, 1)
	assert.Equal(t, "Singer", songs[0].Artists[0].Name)
	assert.Equal(t, []int{homeSectionLimit}, home.limits)
}

func TestDailyPlaylists(t *testing.T) {
	home := &stubHome{sections: loadHome(t)}
	playlists := NewRecommendations(home, nil).DailyPlaylists(context.Background())

	require.Len(t, playlists, 1)
	assert.Equal(t, "RDTMAK5uy", playlists[0].ID)
	assert.Equal(t, "YouTube Music", playlists[0].CreatorName)
	assert.Equal(t, 50, playlists[0].TrackCount)
}

func TestRecommendationsFailureIsEmpty(t *testing.T) {
	home := &stubHome{err: errors.New("home down")}
	r := NewRecommendations(home, nil)

	songs := r.DailySongs(context.Background())
	assert.NotNil(t, songs)
	assert.Empty(t, songs)

	playlists := r.DailyPlaylists(context.Background())
	assert.NotNil(t, playlists)
	assert.Empty(t, playlists)
}
