package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/liuran001/MusicHost-Go/host/config"
	logpkg "github.com/liuran001/MusicHost-Go/host/logger"
	"github.com/liuran001/MusicHost-Go/host/platform"
	platformplugins "github.com/liuran001/MusicHost-Go/host/platform/plugins"
	"github.com/liuran001/MusicHost-Go/host/server"
	"github.com/liuran001/MusicHost-Go/host/worker"
)

// App wires all application dependencies.
type App struct {
	Config          *config.Config
	Logger          *logpkg.Logger
	Pool            *worker.Pool
	PlatformManager *platform.DefaultManager
	Server          *server.Server
	Build           BuildInfo

	closers []func() error
}

// BuildInfo provides build-time metadata.
type BuildInfo struct {
	RuntimeVer string
	BinVersion string
	CommitSHA  string
	BuildTime  string
	BuildArch  string
}

// New loads configuration from configPath and builds the application container.
func New(configPath string, build BuildInfo) (*App, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(conf, build)
}

// NewWithConfig builds the application container from an already loaded config.
func NewWithConfig(conf *config.Config, build BuildInfo) (*App, error) {
	log, err := logpkg.New(logpkg.Options{
		Level:     conf.GetString("LogLevel"),
		Format:    conf.GetString("LogFormat"),
		AddSource: conf.GetBool("LogSource"),
		Dir:       conf.GetString("LogDir"),
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:          conf,
		Logger:          log,
		Pool:            worker.New(conf.GetInt("WorkerPoolSize")),
		PlatformManager: platform.NewManager(),
		Build:           build,
	}
	a.loadPlugins()

	defaultPlatform := strings.TrimSpace(conf.GetString("DefaultPlatform"))
	if defaultPlatform == "" {
		defaultPlatform = "ytmusic"
	}
	a.Server = server.New(a.PlatformManager, a.Pool, log, server.Options{
		Addr:            conf.GetString("ListenAddr"),
		RequestTimeout:  conf.GetSeconds("RequestTimeoutSec"),
		DefaultPlatform: defaultPlatform,
	})

	return a, nil
}

func (a *App) loadPlugins() {
	conf, log := a.Config, a.Logger
	pluginNames := conf.PluginNames()
	if len(pluginNames) == 0 {
		pluginNames = platformplugins.Names()
	}
	for _, name := range pluginNames {
		enabled := true
		if pluginCfg, ok := conf.GetPluginConfig(name); ok {
			if _, hasKey := pluginCfg["enabled"]; hasKey {
				enabled = conf.GetPluginBool(name, "enabled")
			}
		}
		if !enabled {
			log.Info("plugin disabled by config", "plugin", name)
			continue
		}

		factory, ok := platformplugins.Get(name)
		if !ok {
			log.Warn("plugin not registered", "plugin", name)
			continue
		}

		contrib, err := factory(conf, log)
		if err != nil {
			log.Error("plugin init failed", "plugin", name, "error", err)
			continue
		}
		if contrib == nil {
			continue
		}
		a.applySettings(name, contrib)
		for _, p := range contrib.AllPlatforms() {
			a.PlatformManager.Register(p)
			log.Info("platform registered", "plugin", name, "platform", p.Name())
		}
		if contrib.Close != nil {
			a.closers = append(a.closers, contrib.Close)
		}
	}
}

// applySettings replaces invalid values of declared plugin settings with
// their defaults so the plugin never sees an out-of-range choice.
func (a *App) applySettings(name string, contrib *platformplugins.Contribution) {
	for _, def := range contrib.SettingDefinitions {
		plugin := def.Plugin
		if plugin == "" {
			plugin = name
		}
		raw := a.Config.GetPluginString(plugin, def.Key)
		if raw == "" || def.Validate(raw) {
			continue
		}
		resolved := def.Resolve(raw)
		a.Logger.Warn("invalid plugin setting, using default",
			"plugin", plugin, "key", def.Key, "value", raw, "default", resolved)
		a.Config.SetPluginValue(plugin, def.Key, resolved)
	}
}

// Platform returns a registered platform by name or alias.
func (a *App) Platform(name string) (platform.Platform, error) {
	if strings.TrimSpace(name) == "" {
		name = a.Config.GetString("DefaultPlatform")
	}
	return a.PlatformManager.GetPlatform(name)
}

// Start launches the HTTP server.
func (a *App) Start(ctx context.Context) error {
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	a.Logger.Info("musichost started",
		"version", a.Build.BinVersion,
		"platforms", a.PlatformManager.List(),
	)
	return nil
}

// Shutdown releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("shutdown http server: %w", err)
		}
	}

	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			a.Pool.StopNow()
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown worker pool: %w", err)
			}
		}
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.Logger.Error("failed to close plugin", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("close plugin: %w", err)
			}
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("close logger: %w", err)
			}
		}
	}

	return firstErr
}

// ShutdownTimeout is how long Shutdown may wait for in-flight requests.
func (a *App) ShutdownTimeout() time.Duration {
	d := a.Config.GetSeconds("ShutdownTimeoutSec")
	if d <= 0 {
		d = 10 * time.Second
	}
	return d
}
