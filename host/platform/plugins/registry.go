package plugins

import (
	"fmt"
	"sort"
	"sync"

	"github.com/liuran001/MusicHost-Go/host"
	"github.com/liuran001/MusicHost-Go/host/config"
	logpkg "github.com/liuran001/MusicHost-Go/host/logger"
	"github.com/liuran001/MusicHost-Go/host/platform"
)

// Contribution describes the components a plugin can provide.
type Contribution struct {
	Platform  platform.Platform
	Platforms []platform.Platform

	// SettingDefinitions describe the plugin keys the host validates at load.
	SettingDefinitions []host.PluginSettingDefinition

	// Close releases plugin resources on shutdown. Optional.
	Close func() error
}

// AllPlatforms returns Platform followed by Platforms, skipping nils.
func (c *Contribution) AllPlatforms() []platform.Platform {
	if c == nil {
		return nil
	}
	out := make([]platform.Platform, 0, len(c.Platforms)+1)
	if c.Platform != nil {
		out = append(out, c.Platform)
	}
	for _, p := range c.Platforms {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Factory creates a plugin contribution based on config and logger.
type Factory func(cfg *config.Config, logger *logpkg.Logger) (*Contribution, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register registers a plugin factory by name.
func Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("plugin name required")
	}
	if factory == nil {
		return fmt.Errorf("plugin factory required")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	factories[name] = factory
	return nil
}

// Get returns a registered factory by name.
func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := factories[name]
	return factory, ok
}

// Names returns all registered plugin names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	nameList := make([]string, 0, len(factories))
	for name := range factories {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)
	return nameList
}

// unregister is used by tests.
func unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(factories, name)
}
