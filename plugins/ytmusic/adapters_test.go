package ytmusic

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

func decodeJSON[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestSearchSong_Models(t *testing.T) {
	raw := `{
  "category":"Songs","resultType":"song","title":"21 Guns",
  "album":{"id":"ALB1","name":"21st Century Breakdown"},
  "videoId":"VID1","isAvailable":true,"isExplicit":false,
  "artists":[{"id":"AR1","name":"Green Day"},{"id":"AR2","name":"Cast"}],
  "thumbnails":[{"url":"a","width":10,"height":10},{"url":"b","width":100,"height":100}],
  "duration":"3:50"
}`
	song := ParseSearchResult([]byte(raw)).(SearchSong)

	brief := song.BriefModel()
	assert.Equal(t, platform.BriefSong{
		ID:          "VID1",
		Platform:    "ytmusic",
		Title:       "21 Guns",
		ArtistsName: "Green Day, Cast",
		AlbumName:   "21st Century Breakdown",
		DurationMS:  230000,
		State:       platform.StateExists,
	}, brief)

	model := song.Model()
	assert.Equal(t, "b", model.CoverURL)
	assert.Equal(t, "a", model.ThumbnailURL)
	require.NotNil(t, model.Album)
	assert.Equal(t, "ALB1", model.Album.ID)
	assert.Len(t, model.Artists, 2)
	assert.Equal(t, 230*time.Second, model.Duration)
	assert.Equal(t, brief, model.Brief())
}

func TestSearchSong_NullAlbumID(t *testing.T) {
	song := ParseSearchResult([]byte(`{"resultType":"song","videoId":"v","album":{"id":null}}`)).(SearchSong)

	brief := song.BriefModel()
	assert.Equal(t, "", brief.AlbumName)

	model := song.Model()
	require.NotNil(t, model.Album)
	assert.Equal(t, platform.StateNotFound, model.Album.State)

	noAlbum := ParseSearchResult([]byte(`{"resultType":"song","videoId":"v","album":null}`)).(SearchSong)
	assert.Equal(t, "", noAlbum.BriefModel().AlbumName)
	assert.Nil(t, noAlbum.Model().Album)
}

func TestSearchSong_MissingIDIsNotFound(t *testing.T) {
	song := ParseSearchResult([]byte(`{"resultType":"song","title":"ghost","artists":[{"id":null,"name":"Unknown"}]}`)).(SearchSong)
	assert.Equal(t, platform.StateNotFound, song.BriefModel().State)
	assert.Equal(t, platform.StateNotFound, song.Model().Artists[0].State)
	assert.Equal(t, "Unknown", song.Model().Artists[0].Name)
}

func TestThumbnails(t *testing.T) {
	thumbs := decodeJSON[Thumbnails](t, `[{"url":"a","width":10},{"url":"b","width":100}]`)
	assert.Equal(t, "b", thumbs.Cover())
	assert.Equal(t, "a", thumbs.Smallest())

	empty := decodeJSON[Thumbnails](t, `[]`)
	assert.Equal(t, "", empty.Cover())
	assert.Equal(t, "", empty.Smallest())
}

func TestSearchAlbum_Model(t *testing.T) {
	single := ParseSearchResult([]byte(`{"resultType":"album","title":"One","type":"Single","browseId":"MPREb1","year":"2020"}`)).(SearchAlbum)
	assert.Equal(t, platform.AlbumSingle, single.Model().Type)
	assert.Equal(t, "2020", single.Model().Year)

	ep := ParseSearchResult([]byte(`{"resultType":"album","title":"Two","type":"EP","browseId":"MPREb2"}`)).(SearchAlbum)
	assert.Equal(t, platform.AlbumStandard, ep.Model().Type)
	assert.Equal(t, "MPREb2", ep.BriefModel().ID)
}

func TestSearchArtistAndPlaylist_Model(t *testing.T) {
	artist := ParseSearchResult([]byte(`{"resultType":"artist","artist":"Green Day","browseId":"UC1","thumbnails":[{"url":"s"},{"url":"l"}]}`)).(SearchArtist)
	assert.Equal(t, "Green Day", artist.Model().Name)
	assert.Equal(t, "l", artist.Model().CoverURL)
	assert.Equal(t, "UC1", artist.BriefModel().ID)

	pl := ParseSearchResult([]byte(`{"resultType":"playlist","title":"Mix","itemCount":"42","author":"Me","browseId":"VLPL1"}`)).(SearchPlaylist)
	model := pl.Model()
	assert.Equal(t, "VLPL1", model.ID)
	assert.Equal(t, "Me", model.CreatorName)
	assert.Equal(t, 42, model.TrackCount)
}

func TestSearchVideo_Model(t *testing.T) {
	video := ParseSearchResult([]byte(`{"resultType":"video","title":"Live","views":"13K","videoId":"vid","duration":"1:02:03","artists":[{"name":"Band"}]}`)).(SearchVideo)
	brief := video.BriefModel()
	assert.Equal(t, int64(3723000), brief.DurationMS)
	assert.Equal(t, "Band", brief.ArtistsName)
	assert.Equal(t, "13K", video.Model().Views)
}

func TestAlbumInfo_Model(t *testing.T) {
	info := decodeJSON[AlbumInfo](t, `{
  "title":"Album","type":"Album","year":"2019","trackCount":2,"duration":"5 minutes, 14 seconds",
  "artists":[{"id":"AR1","name":"A"}],
  "thumbnails":[{"url":"small"},{"url":"big"}],
  "tracks":[
    {"videoId":"t1","title":"One","duration":"2:00","album":null},
    {"videoId":"t2","title":"Two","duration":"3:14","album":{"id":"MPREbX","name":"Other"}}
  ]
}`)
	album := info.Model("MPREb1")
	assert.Equal(t, "MPREb1", album.ID)
	assert.Equal(t, 314*time.Second, album.Duration)
	assert.Equal(t, 2, album.TrackCount)
	require.Len(t, album.Songs, 2)
	assert.Equal(t, "MPREb1", album.Songs[0].Album.ID)
	assert.Equal(t, "big", album.Songs[0].CoverURL)
	assert.Equal(t, "MPREbX", album.Songs[1].Album.ID)
}

func TestArtistInfo_Model(t *testing.T) {
	info := decodeJSON[ArtistInfo](t, `{
  "name":"Artist","channelId":"UCreal","subscribers":"230K",
  "songs":{"browseId":null,"results":[{"videoId":"s1","title":"Top"}]},
  "albums":{"browseId":"UCreal","params":"p","results":[{"browseId":"MPREb1","title":"LP"}]}
}`)
	artist := info.Model("UCasked")
	assert.Equal(t, "UCreal", artist.ID)
	assert.Equal(t, "230K", artist.Subscribers)
	require.Len(t, artist.Songs, 1)
	require.Len(t, artist.Albums, 1)
	assert.Equal(t, FlexString(""), info.Songs.BrowseID)
	assert.Equal(t, FlexString("p"), info.Albums.Params)
}

func TestPlaylistInfo_Model(t *testing.T) {
	info := decodeJSON[PlaylistInfo](t, `{
  "id":"PL1","privacy":"PUBLIC","title":"Mine","author":{"id":"UC1","name":"Me"},"year":2022,"trackCount":"3",
  "tracks":[{"videoId":"a","title":"A","setVideoId":"set-a","likeStatus":"LIKE"}]
}`)
	pl := info.Model()
	assert.Equal(t, "Me", pl.CreatorName)
	assert.Equal(t, 3, pl.TrackCount)
	assert.Equal(t, FlexString("2022"), info.Year)
	require.Len(t, pl.Songs, 1)
	assert.Equal(t, "set-a", pl.Songs[0].SetVideoID)

	byName := decodeJSON[PlaylistInfo](t, `{"id":"PL2","author":"Someone"}`)
	assert.Equal(t, "Someone", byName.Model().CreatorName)
}

func TestUserInfo_Model(t *testing.T) {
	info := decodeJSON[UserInfo](t, `{
  "name":"Channel",
  "playlists":{"browseId":"b","params":"p","results":[{"title":"P","playlistId":"PL1"}]},
  "videos":{"results":[{"videoId":"v1","title":"V"}]}
}`)
	user := info.Model("UC1")
	assert.Equal(t, "Channel", user.Name)
	require.Len(t, user.Playlists, 1)
	assert.Equal(t, "PL1", user.Playlists[0].ID)
	require.Len(t, user.Videos, 1)
}

func TestCategoriesAndCharts(t *testing.T) {
	cats := decodeJSON[Categories](t, `{"For you":[{"title":"Chill","params":"p1"}],"Moods & moments":[{"title":"Focus","params":"p2"}],"Genres":[]}`)
	require.Len(t, cats.ForYou, 1)
	assert.Equal(t, FlexString("p2"), cats.Moods[0].Params)
	assert.Empty(t, cats.Genres)

	charts := decodeJSON[TopCharts](t, `{"countries":{"selected":{"text":"Global"},"options":["ZZ","US"]},"videos":{"playlist":"PLc","items":[{"videoId":"v"}]},"artists":{"items":[{"browseId":"UC1","artist":"A"}]}}`)
	assert.Equal(t, FlexString("Global"), charts.Countries.Selected.Text)
	assert.Len(t, charts.Countries.Options, 2)
	assert.Len(t, charts.Videos.Items, 1)
	assert.Len(t, charts.Artists.Items, 1)
}

func TestWatchTrack_Model(t *testing.T) {
	wp := decodeJSON[WatchPlaylist](t, `{"playlistId":"RDAMVMv1","lyrics":"MPLYt_v1","tracks":[{"videoId":"v1","title":"T","length":"4:01","thumbnail":[{"url":"s"},{"url":"l"}],"artists":[{"id":"a","name":"N"}]}]}`)
	require.Len(t, wp.Tracks, 1)
	assert.Equal(t, "RDAMVMv1", string(wp.PlaylistID))
	song := wp.Tracks[0].Model()
	assert.Equal(t, 241*time.Second, song.Duration)
	assert.Equal(t, "l", song.CoverURL)
	assert.Equal(t, "s", song.ThumbnailURL)
}

func TestSongInfo_Formats(t *testing.T) {
	info := decodeJSON[SongInfo](t, `{"streamingData":{"adaptiveFormats":[
  {"itag":251,"mimeType":"audio/webm; codecs=\"opus\"","bitrate":160000,"audioQuality":"AUDIO_QUALITY_MEDIUM"},
  {"itag":137,"mimeType":"video/mp4","bitrate":4000000},
  {"itag":249,"mimeType":"audio/webm","bitrate":50000,"audioQuality":"AUDIO_QUALITY_LOW"},
  {"itag":250,"mimeType":"audio/webm","bitrate":70000,"audioQuality":"AUDIO_QUALITY_LOW"},
  {"itag":774,"mimeType":"audio/webm","bitrate":256000,"audioQuality":"AUDIO_QUALITY_HIGH"}
]}}`)

	assert.Equal(t, []platform.Quality{platform.QualityLow, platform.QualityStandard, platform.QualityHigh}, info.ListFormats())

	f, ok := info.MediaFormat(platform.QualityLow)
	require.True(t, ok)
	assert.Equal(t, 249, f.Itag)

	f, ok = info.MediaFormat(platform.QualitySuperHigh)
	require.True(t, ok)
	assert.Equal(t, 774, f.Itag)
	assert.Equal(t, platform.QualitySuperHigh, f.Quality)

	assert.Len(t, info.Formats(), 3)

	_, ok = SongInfo{}.MediaFormat(platform.QualityHigh)
	assert.False(t, ok)
}
