package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

const envPrefix = "MUSICHOST"

// PluginConfig stores plugin-specific configuration as key-value pairs.
type PluginConfig map[string]interface{}

// Config wraps viper and provides typed accessors.
type Config struct {
	v       *viper.Viper
	plugins map[string]PluginConfig
}

// Load reads a config file and prepares defaults. INI files may carry
// [plugins.<name>] sections; other formats are handed to viper as is.
func Load(path string) (*Config, error) {
	v := newViper()

	c := &Config{
		v:       v,
		plugins: make(map[string]PluginConfig),
	}

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		cfg, err := loadINI(v, path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		loadPlugins(cfg, c)
		return c, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	loadViperPlugins(v, c)
	return c, nil
}

// Default returns a Config holding only defaults and environment overrides.
func Default() *Config {
	return &Config{
		v:       newViper(),
		plugins: make(map[string]PluginConfig),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("LogSource", false)
	v.SetDefault("LogDir", "./log")
	v.SetDefault("ListenAddr", "127.0.0.1:8765")
	v.SetDefault("WorkerPoolSize", 4)
	v.SetDefault("RequestTimeoutSec", 30)
	v.SetDefault("ShutdownTimeoutSec", 10)
	v.SetDefault("DefaultPlatform", "ytmusic")
}

// GetString returns a string value.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns an int value.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 returns a float64 value.
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetSeconds reads an integer key as a number of seconds.
func (c *Config) GetSeconds(key string) time.Duration {
	return time.Duration(c.v.GetInt(key)) * time.Second
}

// Set overrides a root key. Used by CLI flags.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// GetPluginConfig retrieves plugin-specific configuration by plugin name.
// Returns the configuration map and true if found, or nil and false if not found.
func (c *Config) GetPluginConfig(name string) (PluginConfig, bool) {
	cfg, ok := c.plugins[name]
	return cfg, ok
}

// SetPluginValue overrides a single plugin key, creating the section if needed.
func (c *Config) SetPluginValue(plugin, key string, value any) {
	cfg, ok := c.plugins[plugin]
	if !ok {
		cfg = make(PluginConfig)
		c.plugins[plugin] = cfg
	}
	cfg[key] = value
}

// PluginNames returns the configured plugin names.
func (c *Config) PluginNames() []string {
	if len(c.plugins) == 0 {
		return nil
	}
	nameList := make([]string, 0, len(c.plugins))
	for name := range c.plugins {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)
	return nameList
}

// GetPluginString returns a string value from plugin configuration.
// Returns empty string if plugin or key not found.
func (c *Config) GetPluginString(plugin, key string) string {
	val, ok := c.pluginValue(plugin, key)
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", val)
}

// GetPluginInt returns an int value from plugin configuration.
// Returns 0 if plugin or key not found, or value cannot be converted to int.
func (c *Config) GetPluginInt(plugin, key string) int {
	val, ok := c.pluginValue(plugin, key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		num, _ := strconv.Atoi(strings.TrimSpace(v))
		return num
	default:
		return 0
	}
}

// GetPluginFloat64 returns a float value from plugin configuration.
func (c *Config) GetPluginFloat64(plugin, key string) float64 {
	val, ok := c.pluginValue(plugin, key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		num, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return num
	default:
		return 0
	}
}

// GetPluginBool returns a bool value from plugin configuration.
// Returns false if plugin or key not found, or value cannot be converted to bool.
func (c *Config) GetPluginBool(plugin, key string) bool {
	val, ok := c.pluginValue(plugin, key)
	if !ok {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		s := strings.TrimSpace(v)
		return strings.EqualFold(s, "true") || s == "1"
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return false
	}
}

// GetPluginSeconds reads an integer plugin key as a number of seconds.
func (c *Config) GetPluginSeconds(plugin, key string) time.Duration {
	return time.Duration(c.GetPluginInt(plugin, key)) * time.Second
}

func (c *Config) pluginValue(plugin, key string) (interface{}, bool) {
	cfg, ok := c.plugins[plugin]
	if !ok {
		return nil, false
	}
	val, ok := cfg[key]
	return val, ok
}

func loadINI(v *viper.Viper, path string) (*ini.File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	for _, key := range cfg.Section("").Keys() {
		v.Set(key.Name(), key.Value())
	}

	return cfg, nil
}

const pluginPrefix = "plugins."

func loadPlugins(cfg *ini.File, c *Config) {
	for _, section := range cfg.Sections() {
		sectionName := section.Name()
		if sectionName == "" || sectionName == ini.DefaultSection {
			continue
		}
		if !strings.HasPrefix(sectionName, pluginPrefix) {
			continue
		}

		pluginName := strings.TrimPrefix(sectionName, pluginPrefix)
		pluginCfg := make(PluginConfig)
		for _, key := range section.Keys() {
			pluginCfg[key.Name()] = key.Value()
		}
		c.plugins[pluginName] = pluginCfg
	}
}

// loadViperPlugins picks up a "plugins" table from TOML/YAML/JSON configs.
func loadViperPlugins(v *viper.Viper, c *Config) {
	raw := v.GetStringMap("plugins")
	for name, section := range raw {
		values, ok := section.(map[string]interface{})
		if !ok {
			continue
		}
		pluginCfg := make(PluginConfig, len(values))
		for k, val := range values {
			pluginCfg[k] = val
		}
		c.plugins[name] = pluginCfg
	}
}
