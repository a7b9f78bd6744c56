package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/liuran001/MusicHost-Go/host"
	"github.com/liuran001/MusicHost-Go/host/platform"
)

// Platforms is the part of the platform manager the server needs.
type Platforms interface {
	platform.Manager
	GetPlatform(name string) (platform.Platform, error)
	Resolve(ctx context.Context, url string) (string, any, error)
}

// Options configures a Server.
type Options struct {
	Addr            string
	RequestTimeout  time.Duration
	DefaultPlatform string
	DefaultLimit    int
}

// Server exposes the host operations as a JSON HTTP API.
type Server struct {
	platforms Platforms
	pool      host.WorkerPool
	logger    host.Logger
	opts      Options

	httpServer *http.Server
}

// New creates a server. pool bounds how many requests reach platforms at once.
func New(platforms Platforms, pool host.WorkerPool, logger host.Logger, opts Options) *Server {
	if logger == nil {
		logger = host.NopLogger{}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	return &Server{
		platforms: platforms,
		pool:      pool,
		logger:    logger.With("component", "server"),
		opts:      opts,
	}
}

// Router builds the chi router with the standard middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/health", s.handleHealth)
	r.Get("/platforms", s.handlePlatforms)
	r.Get("/resolve", s.handleResolve)

	r.Route("/{platform}", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/songs/{id}", s.handleSong)
		r.Get("/songs/{id}/formats", s.handleFormats)
		r.Get("/albums/{id}", s.handleAlbum)
		r.Get("/artists/{id}", s.handleArtist)
		r.Get("/playlists/{id}", s.handlePlaylist)
		r.Post("/playlists", s.handleCreatePlaylist)
		r.Post("/playlists/{id}/items", s.handleAddPlaylistItems)
		r.Delete("/playlists/{id}/items", s.handleRemovePlaylistItems)

		r.Get("/profiles", s.handleProfiles)
		r.Get("/profiles/current", s.handleCurrentProfile)
		r.Post("/profiles/switch", s.handleSwitchProfile)

		r.Get("/library/{kind}", s.handleLibrary)
		r.Get("/recommend/{kind}", s.handleRecommend)
		r.Get("/cookie", s.handleCookie)
	})

	return r
}

// Start listens on the configured address and serves until Shutdown.
// It returns once the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", "addr", ln.Addr().String())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
