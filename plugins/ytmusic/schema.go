package ytmusic

import "encoding/json"

// ResultType is the value of the "resultType" discriminator.
type ResultType string

const (
	ResultUnknown  ResultType = ""
	ResultSong     ResultType = "song"
	ResultVideo    ResultType = "video"
	ResultArtist   ResultType = "artist"
	ResultAlbum    ResultType = "album"
	ResultPlaylist ResultType = "playlist"
)

// Thumbnail is one image rendition.
type Thumbnail struct {
	URL    FlexString `json:"url"`
	Width  FlexInt    `json:"width"`
	Height FlexInt    `json:"height"`
}

// Thumbnails are ordered from the smallest to the largest rendition.
type Thumbnails []Thumbnail

func (t *Thumbnails) UnmarshalJSON(b []byte) error {
	*t = decodeList[Thumbnail](b)
	return nil
}

// Cover is the largest rendition, "" when there is none.
func (t Thumbnails) Cover() string {
	if len(t) == 0 {
		return ""
	}
	return string(t[len(t)-1].URL)
}

// Smallest is the first rendition, "" when there is none.
func (t Thumbnails) Smallest() string {
	if len(t) == 0 {
		return ""
	}
	return string(t[0].URL)
}

// ArtistRef is the artist reference nested in search results. A missing ID
// means upstream could not link the artist.
type ArtistRef struct {
	ID   FlexString `json:"id"`
	Name FlexString `json:"name"`
}

func (a *ArtistRef) UnmarshalJSON(b []byte) error {
	type plain ArtistRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*a = ArtistRef{}
		return nil
	}
	*a = ArtistRef(p)
	return nil
}

// ArtistRefs is a lenient list of artist references.
type ArtistRefs []ArtistRef

func (r *ArtistRefs) UnmarshalJSON(b []byte) error {
	*r = decodeList[ArtistRef](b)
	return nil
}

// AlbumRef is the album reference nested in songs.
type AlbumRef struct {
	ID   FlexString `json:"id"`
	Name FlexString `json:"name"`
}

func (a *AlbumRef) UnmarshalJSON(b []byte) error {
	type plain AlbumRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*a = AlbumRef{}
		return nil
	}
	*a = AlbumRef(p)
	return nil
}

// SearchResultItem is one search hit after dispatch on resultType.
type SearchResultItem interface {
	Kind() ResultType
	Header() SearchBase
}

// SearchBase is the part every result shares. It is also the fallback
// variant for unknown result types.
type SearchBase struct {
	Category   FlexString `json:"category"`
	ResultType FlexString `json:"resultType"`
}

func (b SearchBase) Kind() ResultType   { return ResultUnknown }
func (b SearchBase) Header() SearchBase { return b }

type SearchSong struct {
	SearchBase
	Title           FlexString      `json:"title"`
	Album           *AlbumRef       `json:"album"`
	VideoID         FlexString      `json:"videoId"`
	SetVideoID      FlexString      `json:"setVideoId"`
	IsAvailable     FlexBool        `json:"isAvailable"`
	IsExplicit      FlexBool        `json:"isExplicit"`
	Artists         ArtistRefs      `json:"artists"`
	Thumbnails      Thumbnails      `json:"thumbnails"`
	Duration        FlexString      `json:"duration"`
	DurationSeconds FlexInt         `json:"duration_seconds"`
	FeedbackTokens  json.RawMessage `json:"feedbackTokens,omitempty"`
}

func (s SearchSong) Kind() ResultType { return ResultSong }

// LibrarySong is a song from the user's library or a playlist.
type LibrarySong struct {
	SearchSong
	LikeStatus FlexString `json:"likeStatus"`
}

// HistorySong is a recently played song.
type HistorySong struct {
	LibrarySong
	// Played is free text such as "November 2021".
	Played FlexString `json:"played"`
}

type SearchVideo struct {
	SearchBase
	Title      FlexString `json:"title"`
	Views      FlexString `json:"views"`
	VideoID    FlexString `json:"videoId"`
	PlaylistID FlexString `json:"playlistId"`
	Artists    ArtistRefs `json:"artists"`
	Thumbnails Thumbnails `json:"thumbnails"`
	Duration   FlexString `json:"duration"`
}

func (v SearchVideo) Kind() ResultType { return ResultVideo }

type SearchArtist struct {
	SearchBase
	Artist     FlexString `json:"artist"`
	ShuffleID  FlexString `json:"shuffleId"`
	RadioID    FlexString `json:"radioId"`
	BrowseID   FlexString `json:"browseId"`
	Thumbnails Thumbnails `json:"thumbnails"`
}

func (a SearchArtist) Kind() ResultType { return ResultArtist }

// LibraryArtist is an artist from the library or subscriptions.
type LibraryArtist struct {
	SearchArtist
	Subscribers FlexString `json:"subscribers"`
	Songs       FlexString `json:"songs"`
}

type SearchAlbum struct {
	SearchBase
	Title      FlexString `json:"title"`
	Type       FlexString `json:"type"`
	Year       FlexString `json:"year"`
	BrowseID   FlexString `json:"browseId"`
	IsExplicit FlexBool   `json:"isExplicit"`
	Artists    ArtistRefs `json:"artists"`
	Thumbnails Thumbnails `json:"thumbnails"`
}

func (a SearchAlbum) Kind() ResultType { return ResultAlbum }

type SearchPlaylist struct {
	SearchBase
	Title      FlexString `json:"title"`
	ItemCount  FlexInt    `json:"itemCount"`
	Author     FlexString `json:"author"`
	BrowseID   FlexString `json:"browseId"`
	Thumbnails Thumbnails `json:"thumbnails"`
}

func (p SearchPlaylist) Kind() ResultType { return ResultPlaylist }

// ArtistSongs is the top songs section of an artist page. BrowseID names the
// playlist holding all of them and is empty when the results are complete.
type ArtistSongs struct {
	BrowseID FlexString       `json:"browseId"`
	Results  List[SearchSong] `json:"results"`
}

// ArtistAlbums is an albums or singles section. BrowseID and Params page the
// full list through the artist albums endpoint.
type ArtistAlbums struct {
	BrowseID FlexString        `json:"browseId"`
	Params   FlexString        `json:"params"`
	Results  List[SearchAlbum] `json:"results"`
}

type ArtistVideos struct {
	BrowseID FlexString        `json:"browseId"`
	Results  List[SearchVideo] `json:"results"`
}

type RelatedArtists struct {
	Results List[SearchArtist] `json:"results"`
}

type ArtistInfo struct {
	Name        FlexString     `json:"name"`
	Description FlexString     `json:"description"`
	Views       FlexString     `json:"views"`
	ChannelID   FlexString     `json:"channelId"`
	ShuffleID   FlexString     `json:"shuffleId"`
	RadioID     FlexString     `json:"radioId"`
	Subscribers FlexString     `json:"subscribers"`
	Subscribed  FlexBool       `json:"subscribed"`
	Thumbnails  Thumbnails     `json:"thumbnails"`
	Songs       ArtistSongs    `json:"songs"`
	Albums      ArtistAlbums   `json:"albums"`
	Singles     ArtistAlbums   `json:"singles"`
	Videos      ArtistVideos   `json:"videos"`
	Related     RelatedArtists `json:"related"`
}

type AlbumInfo struct {
	Title           FlexString       `json:"title"`
	Type            FlexString       `json:"type"`
	Year            FlexString       `json:"year"`
	Description     FlexString       `json:"description"`
	TrackCount      FlexInt          `json:"trackCount"`
	Duration        FlexString       `json:"duration"`
	AudioPlaylistID FlexString       `json:"audioPlaylistId"`
	Artists         ArtistRefs       `json:"artists"`
	Thumbnails      Thumbnails       `json:"thumbnails"`
	Tracks          List[SearchSong] `json:"tracks"`
}

// StreamFormat is one entry of streamingData.formats or adaptiveFormats.
type StreamFormat struct {
	Itag            FlexInt    `json:"itag"`
	URL             FlexString `json:"url"`
	MimeType        FlexString `json:"mimeType"`
	Bitrate         FlexInt    `json:"bitrate"`
	ContentLength   FlexInt    `json:"contentLength"`
	LastModified    FlexString `json:"lastModified"`
	AudioQuality    FlexString `json:"audioQuality"`
	AudioSampleRate FlexInt    `json:"audioSampleRate"`
}

type VideoDetails struct {
	VideoID        FlexString `json:"videoId"`
	Title          FlexString `json:"title"`
	LengthSeconds  FlexInt    `json:"lengthSeconds"`
	ChannelID      FlexString `json:"channelId"`
	Author         FlexString `json:"author"`
	ViewCount      FlexInt    `json:"viewCount"`
	IsPrivate      FlexBool   `json:"isPrivate"`
	IsLiveContent  FlexBool   `json:"isLiveContent"`
	MusicVideoType FlexString `json:"musicVideoType"`
	Thumbnail      struct {
		Thumbnails Thumbnails `json:"thumbnails"`
	} `json:"thumbnail"`
}

type StreamingData struct {
	ExpiresInSeconds FlexInt            `json:"expiresInSeconds"`
	Formats          List[StreamFormat] `json:"formats"`
	AdaptiveFormats  List[StreamFormat] `json:"adaptiveFormats"`
}

type SongInfo struct {
	VideoDetails  VideoDetails  `json:"videoDetails"`
	StreamingData StreamingData `json:"streamingData"`
}

// PlaylistSummary is a playlist entry in library, user and mood listings.
type PlaylistSummary struct {
	Title       FlexString `json:"title"`
	PlaylistID  FlexString `json:"playlistId"`
	Description FlexString `json:"description"`
	Count       FlexInt    `json:"count"`
	Author      ArtistRefs `json:"author"`
	Thumbnails  Thumbnails `json:"thumbnails"`
}

type UserPlaylists struct {
	BrowseID FlexString            `json:"browseId"`
	Params   FlexString            `json:"params"`
	Results  List[PlaylistSummary] `json:"results"`
}

type UserInfo struct {
	Name      FlexString    `json:"name"`
	Playlists UserPlaylists `json:"playlists"`
	Videos    ArtistVideos  `json:"videos"`
}

// MoodCategory is a browsable mood or genre; Params opens its playlists.
type MoodCategory struct {
	Title  FlexString `json:"title"`
	Params FlexString `json:"params"`
}

type Categories struct {
	ForYou List[MoodCategory] `json:"For you"`
	Moods  List[MoodCategory] `json:"Moods & moments"`
	Genres List[MoodCategory] `json:"Genres"`
}

type TopCharts struct {
	Countries struct {
		Selected struct {
			Text FlexString `json:"text"`
		} `json:"selected"`
		Options List[FlexString] `json:"options"`
	} `json:"countries"`
	Videos struct {
		Playlist FlexString        `json:"playlist"`
		Items    List[SearchVideo] `json:"items"`
	} `json:"videos"`
	Artists struct {
		Items List[SearchArtist] `json:"items"`
	} `json:"artists"`
}

// PlaylistAuthor accepts both {"id","name"} and a bare name string.
type PlaylistAuthor struct {
	ID   FlexString `json:"id"`
	Name FlexString `json:"name"`
}

func (a *PlaylistAuthor) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*a = PlaylistAuthor{Name: FlexString(name)}
		return nil
	}
	type plain PlaylistAuthor
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*a = PlaylistAuthor{}
		return nil
	}
	*a = PlaylistAuthor(p)
	return nil
}

type PlaylistInfo struct {
	ID          FlexString        `json:"id"`
	Privacy     FlexString        `json:"privacy"`
	Title       FlexString        `json:"title"`
	Description FlexString        `json:"description"`
	Author      PlaylistAuthor    `json:"author"`
	Year        FlexString        `json:"year"`
	Duration    FlexString        `json:"duration"`
	TrackCount  FlexInt           `json:"trackCount"`
	Thumbnails  Thumbnails        `json:"thumbnails"`
	Tracks      List[LibrarySong] `json:"tracks"`
}

// HomeItem is one card of a home section: a song, a video or a playlist.
type HomeItem struct {
	Title       FlexString `json:"title"`
	VideoID     FlexString `json:"videoId"`
	PlaylistID  FlexString `json:"playlistId"`
	BrowseID    FlexString `json:"browseId"`
	Description FlexString `json:"description"`
	Count       FlexString `json:"count"`
	Artists     ArtistRefs `json:"artists"`
	Author      ArtistRefs `json:"author"`
	Album       *AlbumRef  `json:"album"`
	Thumbnails  Thumbnails `json:"thumbnails"`
	Duration    FlexString `json:"duration"`
}

type HomeSection struct {
	Title    FlexString     `json:"title"`
	Contents List[HomeItem] `json:"contents"`
}

// WatchTrack is one entry of a watch playlist.
type WatchTrack struct {
	VideoID    FlexString `json:"videoId"`
	Title      FlexString `json:"title"`
	Length     FlexString `json:"length"`
	Artists    ArtistRefs `json:"artists"`
	Album      *AlbumRef  `json:"album"`
	Thumbnail  Thumbnails `json:"thumbnail"`
	Views      FlexString `json:"views"`
	LikeStatus FlexString `json:"likeStatus"`
	VideoType  FlexString `json:"videoType"`
}

type WatchPlaylist struct {
	PlaylistID FlexString       `json:"playlistId"`
	Tracks     List[WatchTrack] `json:"tracks"`
}

// EditResult is the answer of a playlist edit.
type EditResult struct {
	Status FlexString `json:"status"`
}

// Succeeded reports whether upstream accepted the edit.
func (r EditResult) Succeeded() bool {
	return r.Status == statusSucceeded
}

type createPlaylistResult struct {
	PlaylistID FlexString `json:"playlistId"`
}
