package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/liuran001/MusicHost-Go/host/platform"
)

var errBadRequest = errors.New("bad request")

type platformInfo struct {
	platform.Meta
	Capabilities platform.Capabilities `json:"capabilities"`
}

type switchRequest struct {
	Name   string `json:"name"`
	GaiaID string `json:"gaiaId"`
	Reset  bool   `json:"reset,omitempty"`
}

type playlistItemsRequest struct {
	SongIDs []string `json:"songIds"`
}

type createPlaylistRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Privacy     string   `json:"privacy"`
	SongIDs     []string `json:"songIds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"platforms": len(s.platforms.List()),
	})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	metas := s.platforms.ListMeta()
	out := make([]platformInfo, 0, len(metas))
	for _, meta := range metas {
		info := platformInfo{Meta: meta}
		if p := s.platforms.Get(meta.Name); p != nil {
			info.Capabilities = p.Capabilities()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		s.writeError(w, fmt.Errorf("%w: url is required", errBadRequest))
		return
	}
	s.run(w, r, func(ctx context.Context) (any, error) {
		name, v, err := s.platforms.Resolve(ctx, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"platform": name, "kind": kindOf(v), "data": v}, nil
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		s.writeError(w, fmt.Errorf("%w: q is required", errBadRequest))
		return
	}
	searchType, ok := platform.ParseSearchType(q.Get("type"))
	if !ok {
		s.writeError(w, fmt.Errorf("%w: unknown search type %q", errBadRequest, q.Get("type")))
		return
	}
	limit, err := s.intParam(r, "limit", s.opts.DefaultLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		return p.Search(ctx, query, searchType, limit)
	})
}

func (s *Server) handleSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		return p.GetSong(ctx, id)
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rawQuality := strings.TrimSpace(r.URL.Query().Get("quality"))
	var want platform.Quality
	if rawQuality != "" {
		q, err := platform.ParseQuality(rawQuality)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		want = q
	}
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		lister, ok := p.(platform.FormatLister)
		if !ok {
			return nil, platform.NewUnsupportedError(p.Name(), "formats")
		}
		formats, err := lister.ListFormats(ctx, id)
		if err != nil || rawQuality == "" {
			return formats, err
		}
		matched := make([]platform.MediaFormat, 0, len(formats))
		for _, f := range formats {
			if f.Quality == want {
				matched = append(matched, f)
			}
		}
		if len(matched) == 0 {
			return nil, platform.NewInvalidQualityError(p.Name(), id, want)
		}
		return matched, nil
	})
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		return p.GetAlbum(ctx, id)
	})
}

func (s *Server) handleArtist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		return p.GetArtist(ctx, id)
	})
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, err := s.intParam(r, "limit", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	offset, err := s.intParam(r, "offset", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		ctx = platform.WithTrackLimit(ctx, limit)
		ctx = platform.WithTrackOffset(ctx, offset)
		return p.GetPlaylist(ctx, id)
	})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		s.writeError(w, fmt.Errorf("%w: title is required", errBadRequest))
		return
	}
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		editor, ok := p.(platform.PlaylistEditor)
		if !ok {
			return nil, platform.NewUnsupportedError(p.Name(), "playlist edit")
		}
		id, err := editor.CreatePlaylist(ctx, body.Title, body.Description, body.Privacy, body.SongIDs)
		if err != nil {
			return nil, err
		}
		return map[string]string{"id": id}, nil
	})
}

func (s *Server) handleAddPlaylistItems(w http.ResponseWriter, r *http.Request) {
	s.editPlaylistItems(w, r, func(ctx context.Context, editor platform.PlaylistEditor, id string, songIDs []string) error {
		return editor.AddPlaylistSongs(ctx, id, songIDs)
	})
}

func (s *Server) handleRemovePlaylistItems(w http.ResponseWriter, r *http.Request) {
	s.editPlaylistItems(w, r, func(ctx context.Context, editor platform.PlaylistEditor, id string, songIDs []string) error {
		return editor.RemovePlaylistSongs(ctx, id, songIDs)
	})
}

func (s *Server) editPlaylistItems(w http.ResponseWriter, r *http.Request, edit func(context.Context, platform.PlaylistEditor, string, []string) error) {
	id := chi.URLParam(r, "id")
	var body playlistItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if len(body.SongIDs) == 0 {
		s.writeError(w, fmt.Errorf("%w: songIds is required", errBadRequest))
		return
	}
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		editor, ok := p.(platform.PlaylistEditor)
		if !ok {
			return nil, platform.NewUnsupportedError(p.Name(), "playlist edit")
		}
		if err := edit(ctx, editor, id, body.SongIDs); err != nil {
			return nil, err
		}
		return map[string]any{"ok": true}, nil
	})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	s.withSwitcher(w, r, func(ctx context.Context, sw platform.ProfileSwitcher) (any, error) {
		return sw.ListProfiles(ctx)
	})
}

func (s *Server) handleCurrentProfile(w http.ResponseWriter, r *http.Request) {
	s.withSwitcher(w, r, func(ctx context.Context, sw platform.ProfileSwitcher) (any, error) {
		return sw.CurrentProfile(ctx)
	})
}

func (s *Server) handleSwitchProfile(w http.ResponseWriter, r *http.Request) {
	var body switchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}
	if body.Reset {
		body.Name, body.GaiaID = "", ""
	}
	s.withSwitcher(w, r, func(ctx context.Context, sw platform.ProfileSwitcher) (any, error) {
		return sw.SwitchProfile(ctx, body.Name, body.GaiaID)
	})
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	kind, ok := platform.ParseLibraryKind(chi.URLParam(r, "kind"))
	if !ok {
		s.writeError(w, fmt.Errorf("%w: unknown library kind %q", errBadRequest, chi.URLParam(r, "kind")))
		return
	}
	limit, err := s.intParam(r, "limit", s.opts.DefaultLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		provider, ok := p.(platform.LibraryProvider)
		if !ok {
			return nil, platform.NewUnsupportedError(p.Name(), "library")
		}
		return provider.Library(ctx, kind, limit)
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != "songs" && kind != "playlists" {
		s.writeError(w, fmt.Errorf("%w: unknown recommendation kind %q", errBadRequest, kind))
		return
	}
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		rec, ok := p.(platform.Recommender)
		if !ok {
			return nil, platform.NewUnsupportedError(p.Name(), "recommendation")
		}
		if kind == "songs" {
			return rec.DailySongs(ctx)
		}
		return rec.DailyPlaylists(ctx)
	})
}

func (s *Server) handleCookie(w http.ResponseWriter, r *http.Request) {
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		checker, ok := p.(platform.CookieChecker)
		if !ok {
			return nil, platform.NewUnsupportedError(p.Name(), "cookie check")
		}
		return checker.CheckCookie(ctx)
	})
}

func (s *Server) withSwitcher(w http.ResponseWriter, r *http.Request, fn func(context.Context, platform.ProfileSwitcher) (any, error)) {
	s.withPlatform(w, r, func(ctx context.Context, p platform.Platform) (any, error) {
		sw, ok := p.(platform.ProfileSwitcher)
		if !ok {
			return nil, platform.NewUnsupportedError(p.Name(), "profiles")
		}
		return fn(ctx, sw)
	})
}

// withPlatform resolves the {platform} URL parameter, accepting aliases and
// "default", then runs fn on the worker pool.
func (s *Server) withPlatform(w http.ResponseWriter, r *http.Request, fn func(context.Context, platform.Platform) (any, error)) {
	name := chi.URLParam(r, "platform")
	if name == "default" || name == "" {
		name = s.opts.DefaultPlatform
	}
	p, err := s.platforms.GetPlatform(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, func(ctx context.Context) (any, error) {
		return fn(ctx, p)
	})
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context) (any, error)) {
	var result any
	task := func(ctx context.Context) error {
		v, err := fn(ctx)
		result = v
		return err
	}

	var err error
	if s.pool != nil {
		err = s.pool.SubmitWait(r.Context(), task)
	} else {
		err = task(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) intParam(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, key, raw)
	}
	return n, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps platform errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, platform.ErrInvalidQuality):
		return http.StatusBadRequest
	case errors.Is(err, platform.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, platform.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, platform.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, platform.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case *platform.Song:
		return string(platform.LinkSong)
	case *platform.Album:
		return string(platform.LinkAlbum)
	case *platform.Artist:
		return string(platform.LinkArtist)
	case *platform.Playlist:
		return string(platform.LinkPlaylist)
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
