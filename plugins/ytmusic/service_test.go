package ytmusic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libraryPlaylistsBody = `[{"title":"Road trip","playlistId":"PLroad","count":"12 songs","author":[{"name":"Main Account"}]}]`

func TestServicePublicCache(t *testing.T) {
	f := newFakeUpstream(t)
	f.Handle("/api/artists/UCartist", respondJSON(`{"name":"Some Artist","channelId":"UCartist"}`))
	_, svc := newTestService(t, f, cookieHeaders())
	ctx := context.Background()

	first, err := svc.ArtistInfo(ctx, "UCartist")
	require.NoError(t, err)
	second, err := svc.ArtistInfo(ctx, "UCartist")
	require.NoError(t, err)

	assert.Equal(t, "Some Artist", string(second.Name))
	assert.Same(t, first, second)
	assert.Equal(t, 1, f.Count("/api/artists/UCartist"))

	svc.PurgeAccountScoped()
	_, err = svc.ArtistInfo(ctx, "UCartist")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Count("/api/artists/UCartist"), "public cache survives a profile purge")
}

func TestServiceAccountCachePurge(t *testing.T) {
	f := newFakeUpstream(t)
	f.Handle("/api/library/playlists", respondJSON(libraryPlaylistsBody))
	_, svc := newTestService(t, f, cookieHeaders())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		playlists, err := svc.LibraryPlaylists(ctx, 0)
		require.NoError(t, err)
		require.Len(t, playlists, 1)
		assert.Equal(t, 12, int(playlists[0].Count))
	}
	assert.Equal(t, 1, f.Count("/api/library/playlists"))

	svc.PurgeAccountScoped()
	_, err := svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Count("/api/library/playlists"))
	assert.Equal(t, "2", f.Requests("/api/library/playlists")[0].Query.Get("limit"))
}

func TestServicePurgeDuringFetchDropsResult(t *testing.T) {
	f := newFakeUpstream(t)
	_, svc := newTestService(t, f, cookieHeaders())
	calls := 0
	f.Handle("/api/library/playlists", func(recordedRequest) (int, []byte) {
		calls++
		if calls == 1 {
			svc.PurgeAccountScoped()
		}
		return http.StatusOK, jsonBody(libraryPlaylistsBody)
	})
	ctx := context.Background()

	_, err := svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)
	_, err = svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)
	_, err = svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, f.Count("/api/library/playlists"))
}

func TestServiceErrorsAreNotCached(t *testing.T) {
	f := newFakeUpstream(t)
	f.Respond("/api/albums/MPREb_missing", http.StatusInternalServerError, []byte(`boom`))
	_, svc := newTestService(t, f, cookieHeaders())
	ctx := context.Background()

	_, err := svc.AlbumInfo(ctx, "MPREb_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	_, err = svc.AlbumInfo(ctx, "MPREb_missing")
	require.Error(t, err)
	assert.Equal(t, 2, f.Count("/api/albums/MPREb_missing"))
}

func TestServiceEdits(t *testing.T) {
	f := newFakeUpstream(t)
	f.Handle("/api/library/playlists", respondJSON(libraryPlaylistsBody))
	f.Handle("/api/playlists", respondJSON(`{"playlistId":"PLnew"}`))
	f.Handle("/api/playlists/PLnew/items", func(req recordedRequest) (int, []byte) {
		if req.Method == http.MethodDelete {
			return http.StatusOK, jsonBody(`{"status":"STATUS_FAILED"}`)
		}
		return http.StatusOK, jsonBody(`{"status":"STATUS_SUCCEEDED"}`)
	})
	_, svc := newTestService(t, f, cookieHeaders())
	ctx := context.Background()

	_, err := svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)

	id, err := svc.CreatePlaylist(ctx, "New list", "", "", []string{"dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, "PLnew", id)

	var created map[string]any
	require.NoError(t, json.Unmarshal(f.Requests("/api/playlists")[0].Body, &created))
	assert.Equal(t, "PRIVATE", created["privacy_status"])
	assert.Equal(t, []any{"dQw4w9WgXcQ"}, created["video_ids"])

	_, err = svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Count("/api/library/playlists"), "create purges the account cache")

	require.NoError(t, svc.AddPlaylistItems(ctx, "PLnew", []string{"abcdefghijk"}))
	_, err = svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Count("/api/library/playlists"))

	err = svc.RemovePlaylistItems(ctx, "PLnew", []PlaylistItemRef{{VideoID: "abcdefghijk", SetVideoID: "SET1"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEditRejected))
	_, err = svc.LibraryPlaylists(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Count("/api/library/playlists"), "a rejected edit keeps the cache")

	var removed struct {
		Videos []PlaylistItemRef `json:"videos"`
	}
	for _, req := range f.Requests("/api/playlists/PLnew/items") {
		if req.Method == http.MethodDelete {
			require.NoError(t, json.Unmarshal(req.Body, &removed))
		}
	}
	assert.Equal(t, []PlaylistItemRef{{VideoID: "abcdefghijk", SetVideoID: "SET1"}}, removed.Videos)
}

func TestServiceLibraryOverview(t *testing.T) {
	f := newFakeUpstream(t)
	f.Handle("/api/library/playlists", respondJSON(libraryPlaylistsBody))
	f.Handle("/api/library/songs", respondJSON(`[{"title":"Song","videoId":"aaaaaaaaaaa","likeStatus":"LIKE"}]`))
	f.Handle("/api/library/albums", respondJSON(`[{"title":"Album","browseId":"MPREb_1","year":"2020"}]`))
	f.Handle("/api/library/artists", respondJSON(`[{"artist":"Artist","browseId":"UCa","songs":"3 songs"}]`))
	_, svc := newTestService(t, f, cookieHeaders())

	overview, err := svc.LibraryOverview(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, overview.Playlists, 1)
	require.Len(t, overview.Songs, 1)
	assert.Equal(t, "LIKE", string(overview.Songs[0].LikeStatus))
	assert.Len(t, overview.Albums, 1)
	assert.Len(t, overview.Artists, 1)
}

func TestServiceLibraryOverviewFailure(t *testing.T) {
	f := newFakeUpstream(t)
	f.Handle("/api/library/playlists", respondJSON(libraryPlaylistsBody))
	f.Handle("/api/library/songs", respondJSON(`[]`))
	f.Handle("/api/library/albums", respondJSON(`[]`))
	f.Respond("/api/library/artists", http.StatusBadGateway, []byte(`down`))
	_, svc := newTestService(t, f, cookieHeaders())

	overview, err := svc.LibraryOverview(context.Background(), 5)
	require.Error(t, err)
	assert.Nil(t, overview)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "playlist|PL1|20|40", cacheKey("playlist", "PL1", 20, 40))
	assert.Equal(t, "history", cacheKey("history"))
}

func TestCachedPurgeInsideFetch(t *testing.T) {
	svc := NewService(nil, ServiceOptions{})
	ctx := context.Background()
	fetches := 0
	fetch := func(context.Context) (string, error) {
		fetches++
		if fetches == 1 {
			svc.PurgeAccountScoped()
		}
		return "library", nil
	}

	v, err := cached(ctx, svc, svc.account, "library", fetch)
	require.NoError(t, err)
	assert.Equal(t, "library", v)
	assert.False(t, svc.account.lru.Contains("library"))

	_, err = cached(ctx, svc, svc.account, "library", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
	assert.True(t, svc.account.lru.Contains("library"))
}

func TestResponseCacheStoreAfterPurge(t *testing.T) {
	c := newResponseCache("account", 8, time.Minute)
	gen := c.generation()
	c.purge()

	assert.False(t, c.store(gen, "k", 1))
	assert.False(t, c.lru.Contains("k"))
	assert.True(t, c.store(c.generation(), "k", 1))
	assert.True(t, c.lru.Contains("k"))
}

func TestCachedCancelledCallerDoesNotFailOthers(t *testing.T) {
	svc := NewService(nil, ServiceOptions{})
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fetch := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "charts", nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cached(firstCtx, svc, svc.public, "charts", fetch)
		firstErr <- err
	}()
	<-started

	second := make(chan string, 1)
	go func() {
		v, err := cached(context.Background(), svc, svc.public, "charts", fetch)
		if err != nil {
			v = err.Error()
		}
		second <- v
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	select {
	case v := <-second:
		assert.Equal(t, "charts", v)
	case <-time.After(2 * time.Second):
		t.Fatal("joined caller did not receive the shared result")
	}
}
