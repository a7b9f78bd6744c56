package ytmusic

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/liuran001/MusicHost-Go/host"
	"github.com/liuran001/MusicHost-Go/host/config"
	logpkg "github.com/liuran001/MusicHost-Go/host/logger"
	platformplugins "github.com/liuran001/MusicHost-Go/host/platform/plugins"
)

func init() {
	if err := platformplugins.Register(platformName, buildContribution); err != nil {
		panic(err)
	}
}

func buildContribution(cfg *config.Config, logger *logpkg.Logger) (*platformplugins.Contribution, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	var log host.Logger = host.NopLogger{}
	if logger != nil {
		log = logger.With("plugin", platformName)
	}

	headerFile := strings.TrimSpace(cfg.GetPluginString(platformName, "header_file"))
	if headerFile == "" {
		headerFile = DefaultHeaderFile()
	}
	headers, err := LoadHeaderFile(headerFile)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		log.Debug("ytmusic: header file not found", "path", headerFile)
	default:
		return nil, err
	}
	if cookie := strings.TrimSpace(cfg.GetPluginString(platformName, "cookie")); cookie != "" {
		headers = HeadersFromCookie(cookie)
	}

	transport := TransportOptions{
		Timeout:   cfg.GetPluginSeconds(platformName, "timeout"),
		Retries:   cfg.GetPluginInt(platformName, "retry"),
		RateLimit: cfg.GetPluginFloat64(platformName, "rate_limit"),
		RateBurst: cfg.GetPluginInt(platformName, "rate_burst"),
		Proxy:     cfg.GetPluginString(platformName, "proxy"),
	}

	language := ResolveLanguage(
		cfg.GetPluginString(platformName, LanguageKey),
		cfg.GetString("Language"),
		os.Getenv("LANG"),
	)
	session, err := NewSession(headers, SessionOptions{
		Language:       language,
		AuthUser:       cfg.GetPluginString(platformName, "auth_user"),
		HeaderFile:     headerFile,
		PersistCookies: cfg.GetPluginBool(platformName, PersistCookiesKey),
		Transport:      transport,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}
	if !session.HasCredentials() {
		log.Warn("ytmusic: no credentials configured, account features are disabled")
	}

	backendTransport := transport
	backendTransport.Name = "ytmusic-backend"
	backend, err := NewBackend(session, BackendOptions{
		BaseURL:   cfg.GetPluginString(platformName, "backend_url"),
		Transport: backendTransport,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	service := NewService(backend, ServiceOptions{
		CacheSize: cfg.GetPluginInt(platformName, "cache_size"),
		CacheTTL:  cfg.GetPluginSeconds(platformName, "cache_ttl"),
		PageSize:  cfg.GetPluginInt(platformName, "page_size"),
		Logger:    log,
	})
	profiles := NewProfileManager(session, log, service.PurgeAccountScoped)
	p := NewPlatform(session, profiles, service, PlatformOptions{
		Scope:  normalizeSearchScope(cfg.GetPluginString(platformName, SearchScopeKey)),
		Logger: log,
	})
	log.Info("ytmusic: plugin ready", "language", language, "authenticated", session.Authenticated())

	return &platformplugins.Contribution{
		Platform: p,
		SettingDefinitions: []host.PluginSettingDefinition{
			LanguageDefinition(),
			SearchScopeDefinition(),
			PersistCookiesDefinition(),
		},
		Close: func() error {
			service.PurgeAccountScoped()
			return nil
		},
	}, nil
}
