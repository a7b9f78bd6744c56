package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/liuran001/MusicHost-Go/host/platform/registry"
)

const defaultEmoji = "🎵"

// DefaultManager implements the Manager interface by wrapping the registry.
// Several providers may share one platform name; Get then returns a composite
// that falls back across them in registration order.
type DefaultManager struct {
	registry *registry.Registry
	mu       sync.RWMutex
	// providers maps platform name to a list of providers in registration order
	providers map[string][]Platform
	meta      map[string]Meta
	aliases   map[string]string
}

// NewManager creates a manager with its own URL registry.
func NewManager() *DefaultManager {
	return NewManagerWithRegistry(registry.New())
}

// NewManagerWithRegistry creates a new manager with a custom registry.
func NewManagerWithRegistry(reg *registry.Registry) *DefaultManager {
	return &DefaultManager{
		registry:  reg,
		providers: make(map[string][]Platform),
		meta:      make(map[string]Meta),
		aliases:   make(map[string]string),
	}
}

// Register adds a platform implementation to the manager.
func (m *DefaultManager) Register(platform Platform) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := platform.Name()
	m.providers[name] = append(m.providers[name], platform)
	meta := buildMeta(platform, name)
	if existing, ok := m.meta[name]; ok {
		meta = mergeMeta(existing, meta)
	}
	m.meta[name] = meta
	m.indexAliases(meta)

	// Only the first provider of a name answers MatchURL.
	if len(m.providers[name]) == 1 {
		_ = m.registry.Register(&platformWrapper{platform: platform})
	}
}

// Get retrieves a platform by name.
// Returns nil if no platform with that name is registered.
func (m *DefaultManager) Get(name string) Platform {
	m.mu.RLock()
	defer m.mu.RUnlock()

	providers := m.providers[name]
	switch len(providers) {
	case 0:
		return nil
	case 1:
		return providers[0]
	default:
		return &compositePlatform{name: name, providers: append([]Platform(nil), providers...)}
	}
}

// compositePlatform implements Platform by trying multiple providers in order with fallback.
type compositePlatform struct {
	name      string
	providers []Platform
}

func (c *compositePlatform) Name() string {
	return c.name
}

func (c *compositePlatform) Capabilities() Capabilities {
	var combined Capabilities
	for _, p := range c.providers {
		caps := p.Capabilities()
		combined.Search = combined.Search || caps.Search
		combined.Profiles = combined.Profiles || caps.Profiles
		combined.Library = combined.Library || caps.Library
		combined.Recommendation = combined.Recommendation || caps.Recommendation
		combined.PlaylistEdit = combined.PlaylistEdit || caps.PlaylistEdit
		combined.Formats = combined.Formats || caps.Formats
	}
	return combined
}

func (c *compositePlatform) Search(ctx context.Context, query string, searchType SearchType, limit int) (*SearchResult, error) {
	var lastErr error
	attempted := false
	for _, p := range c.providers {
		if !p.Capabilities().Search {
			continue
		}
		attempted = true
		result, err := p.Search(ctx, query, searchType, limit)
		if err == nil && result.Len() > 0 {
			return result, nil
		}
		lastErr = err
		if err != nil && !shouldRetry(err) {
			return nil, err
		}
	}
	if !attempted {
		return nil, ErrUnsupported
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return &SearchResult{Query: query, Type: searchType}, nil
}

func (c *compositePlatform) GetSong(ctx context.Context, songID string) (*Song, error) {
	return firstOf(c.providers, func(p Platform) (*Song, error) { return p.GetSong(ctx, songID) })
}

func (c *compositePlatform) GetArtist(ctx context.Context, artistID string) (*Artist, error) {
	return firstOf(c.providers, func(p Platform) (*Artist, error) { return p.GetArtist(ctx, artistID) })
}

func (c *compositePlatform) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	return firstOf(c.providers, func(p Platform) (*Album, error) { return p.GetAlbum(ctx, albumID) })
}

func (c *compositePlatform) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	return firstOf(c.providers, func(p Platform) (*Playlist, error) { return p.GetPlaylist(ctx, playlistID) })
}

// firstOf calls fn on each provider until one succeeds or fails with an
// error that should not fall through.
func firstOf[T any](providers []Platform, fn func(Platform) (*T, error)) (*T, error) {
	var lastErr error
	for _, p := range providers {
		v, err := fn(p)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return nil, err
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrUnsupported
}

func shouldRetry(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrAuthRequired)
}

// List returns all registered platform names.
func (m *DefaultManager) List() []string {
	platforms := m.registry.GetAll()
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name())
	}
	return names
}

// MatchURL attempts to match a URL against all registered platforms.
func (m *DefaultManager) MatchURL(url string) (string, Link, bool) {
	link, p, ok := m.registry.MatchURL(url)
	if !ok {
		return "", Link{}, false
	}
	return p.Name(), link, true
}

// MatchText attempts to match text against all registered platforms that support text matching.
func (m *DefaultManager) MatchText(text string) (string, Link, bool) {
	if m == nil {
		return "", Link{}, false
	}
	for _, name := range m.List() {
		matcher, ok := m.Get(name).(TextMatcher)
		if !ok {
			continue
		}
		if link, ok := matcher.MatchText(text); ok {
			return name, link, true
		}
	}
	return "", Link{}, false
}

// ResolveAlias resolves a platform alias to its canonical platform name.
func (m *DefaultManager) ResolveAlias(alias string) (string, bool) {
	if m == nil {
		return "", false
	}
	key := normalizeAlias(alias)
	if key == "" {
		return "", false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.providers[key]; ok {
		return key, true
	}
	if name, ok := m.aliases[key]; ok {
		return name, true
	}
	return "", false
}

// Meta returns metadata for a platform name.
func (m *DefaultManager) Meta(name string) (Meta, bool) {
	if m == nil {
		return Meta{}, false
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Meta{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta, ok := m.meta[trimmed]
	if !ok {
		return Meta{Name: trimmed, DisplayName: trimmed, Emoji: defaultEmoji}, false
	}
	return meta, true
}

// ListMeta returns metadata for all registered platforms.
func (m *DefaultManager) ListMeta() []Meta {
	if m == nil {
		return nil
	}
	names := m.List()
	metas := make([]Meta, 0, len(names))
	for _, name := range names {
		meta, _ := m.Meta(name)
		metas = append(metas, meta)
	}
	return metas
}

// indexAliases maps each alias to the first platform that claimed it.
func (m *DefaultManager) indexAliases(meta Meta) {
	for _, alias := range meta.Aliases {
		key := normalizeAlias(alias)
		if key == "" {
			continue
		}
		if _, taken := m.aliases[key]; taken {
			continue
		}
		m.aliases[key] = meta.Name
	}
}

func buildMeta(platform Platform, name string) Meta {
	meta := Meta{}
	if provider, ok := platform.(MetadataProvider); ok {
		meta = provider.Metadata()
	}
	if meta.Name == "" {
		meta.Name = name
	}
	if meta.DisplayName == "" {
		meta.DisplayName = meta.Name
	}
	if meta.Emoji == "" {
		meta.Emoji = defaultEmoji
	}
	return meta
}

func mergeMeta(oldMeta, newMeta Meta) Meta {
	if newMeta.Name == "" {
		newMeta.Name = oldMeta.Name
	}
	if newMeta.DisplayName == "" {
		newMeta.DisplayName = oldMeta.DisplayName
	}
	if newMeta.Emoji == "" {
		newMeta.Emoji = oldMeta.Emoji
	}
	if newMeta.Homepage == "" {
		newMeta.Homepage = oldMeta.Homepage
	}
	newMeta.Aliases = mergeAliases(oldMeta.Aliases, newMeta.Aliases)
	return newMeta
}

func mergeAliases(existing, incoming []string) []string {
	if len(existing) == 0 {
		return incoming
	}
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]struct{})
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, alias := range append(append([]string(nil), existing...), incoming...) {
		key := normalizeAlias(alias)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, alias)
	}
	return merged
}

// GetPlatform retrieves a platform by name or alias and returns an error if not found.
func (m *DefaultManager) GetPlatform(name string) (Platform, error) {
	if canonical, ok := m.ResolveAlias(name); ok {
		name = canonical
	}
	p := m.Get(name)
	if p == nil {
		return nil, fmt.Errorf("%w: platform %s", ErrNotFound, name)
	}
	return p, nil
}

// MustGet retrieves a platform by name or panics if not found.
// This is useful during initialization where missing platforms should fail fast.
func (m *DefaultManager) MustGet(name string) Platform {
	p, err := m.GetPlatform(name)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// Search is a convenience method that retrieves a platform and performs a search.
func (m *DefaultManager) Search(ctx context.Context, platformName, query string, searchType SearchType, limit int) (*SearchResult, error) {
	platform, err := m.GetPlatform(platformName)
	if err != nil {
		return nil, err
	}
	return platform.Search(ctx, query, searchType, limit)
}

// Resolve matches url and loads the referenced object. The returned value is
// a *Song, *Album, *Artist or *Playlist.
func (m *DefaultManager) Resolve(ctx context.Context, url string) (string, any, error) {
	name, link, ok := m.MatchURL(url)
	if !ok {
		name, link, ok = m.MatchText(url)
	}
	if !ok {
		return "", nil, fmt.Errorf("%w: no platform matches %q", ErrUnsupported, url)
	}
	p, err := m.GetPlatform(name)
	if err != nil {
		return "", nil, err
	}

	var v any
	switch link.Kind {
	case LinkSong:
		v, err = p.GetSong(ctx, link.ID)
	case LinkAlbum:
		v, err = p.GetAlbum(ctx, link.ID)
	case LinkArtist:
		v, err = p.GetArtist(ctx, link.ID)
	case LinkPlaylist:
		v, err = p.GetPlaylist(ctx, link.ID)
	default:
		err = fmt.Errorf("%w: link kind %q", ErrUnsupported, link.Kind)
	}
	if err != nil {
		return name, nil, err
	}
	return name, v, nil
}

// platformWrapper adapts a platform.Platform to implement registry.Platform.
type platformWrapper struct {
	platform Platform
}

// Name implements registry.Platform.
func (w *platformWrapper) Name() string {
	return w.platform.Name()
}

// MatchURL implements registry.Platform by delegating to URLMatcher when
// the platform has one.
func (w *platformWrapper) MatchURL(url string) (Link, bool) {
	if matcher, ok := w.platform.(URLMatcher); ok {
		return matcher.MatchURL(url)
	}
	return Link{}, false
}
