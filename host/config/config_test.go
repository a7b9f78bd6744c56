package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, pattern, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), pattern)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadExampleINI(t *testing.T) {
	path := filepath.Join("..", "..", "config_example.ini")
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("DefaultPlatform") != "ytmusic" {
		t.Fatalf("expected DefaultPlatform=ytmusic, got %q", conf.GetString("DefaultPlatform"))
	}
	if !conf.GetPluginBool("ytmusic", "enabled") {
		t.Fatalf("expected ytmusic plugin to be enabled")
	}
	if conf.GetPluginInt("ytmusic", "page_size") != 20 {
		t.Fatalf("expected page_size=20, got %d", conf.GetPluginInt("ytmusic", "page_size"))
	}
}

func TestPluginSections(t *testing.T) {
	path := writeTempConfig(t, "test_config.ini", `LogLevel = debug
WorkerPoolSize = 8

[plugins.ytmusic]
backend_url = http://proxy.local
timeout = 30
rate_limit = 2.5
enabled = true

[plugins.other]
enabled = false
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("LogLevel") != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", conf.GetString("LogLevel"))
	}
	if conf.GetInt("WorkerPoolSize") != 8 {
		t.Errorf("expected WorkerPoolSize=8, got %d", conf.GetInt("WorkerPoolSize"))
	}

	ytCfg, ok := conf.GetPluginConfig("ytmusic")
	if !ok {
		t.Fatal("expected ytmusic plugin config to exist")
	}
	if ytCfg["backend_url"] != "http://proxy.local" {
		t.Errorf("expected backend_url=http://proxy.local, got %v", ytCfg["backend_url"])
	}
	if conf.GetPluginInt("ytmusic", "timeout") != 30 {
		t.Errorf("GetPluginInt failed, got %d", conf.GetPluginInt("ytmusic", "timeout"))
	}
	if conf.GetPluginSeconds("ytmusic", "timeout") != 30*time.Second {
		t.Errorf("GetPluginSeconds failed, got %s", conf.GetPluginSeconds("ytmusic", "timeout"))
	}
	if conf.GetPluginFloat64("ytmusic", "rate_limit") != 2.5 {
		t.Errorf("GetPluginFloat64 failed, got %v", conf.GetPluginFloat64("ytmusic", "rate_limit"))
	}
	if !conf.GetPluginBool("ytmusic", "enabled") {
		t.Errorf("GetPluginBool failed for ytmusic.enabled")
	}
	if conf.GetPluginBool("other", "enabled") {
		t.Errorf("GetPluginBool should return false for other.enabled")
	}

	names := conf.PluginNames()
	if len(names) != 2 || names[0] != "other" || names[1] != "ytmusic" {
		t.Errorf("unexpected plugin names: %v", names)
	}
}

func TestPluginConfigNotFound(t *testing.T) {
	path := writeTempConfig(t, "test_config.ini", `LogLevel = info`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if _, ok := conf.GetPluginConfig("nonexistent"); ok {
		t.Error("expected nonexistent plugin to not be found")
	}
	if conf.GetPluginString("nonexistent", "key") != "" {
		t.Error("expected empty string for nonexistent plugin")
	}
	if conf.GetPluginInt("nonexistent", "key") != 0 {
		t.Error("expected 0 for nonexistent plugin")
	}
	if conf.GetPluginBool("nonexistent", "key") {
		t.Error("expected false for nonexistent plugin")
	}
}

func TestDefaults(t *testing.T) {
	conf := Default()

	if conf.GetString("ListenAddr") != "127.0.0.1:8765" {
		t.Errorf("unexpected ListenAddr default: %s", conf.GetString("ListenAddr"))
	}
	if conf.GetSeconds("RequestTimeoutSec") != 30*time.Second {
		t.Errorf("unexpected RequestTimeoutSec default: %s", conf.GetSeconds("RequestTimeoutSec"))
	}

	conf.SetPluginValue("ytmusic", "cookie", "SID=1")
	if conf.GetPluginString("ytmusic", "cookie") != "SID=1" {
		t.Errorf("SetPluginValue did not take effect")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MUSICHOST_LISTENADDR", "0.0.0.0:9000")
	conf := Default()
	if conf.GetString("ListenAddr") != "0.0.0.0:9000" {
		t.Errorf("expected env override, got %s", conf.GetString("ListenAddr"))
	}
}

func TestLoadTOMLPlugins(t *testing.T) {
	path := writeTempConfig(t, "config.toml", `LogLevel = "warn"

[plugins.ytmusic]
page_size = 50
enabled = true
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("LogLevel") != "warn" {
		t.Errorf("expected LogLevel=warn, got %s", conf.GetString("LogLevel"))
	}
	if conf.GetPluginInt("ytmusic", "page_size") != 50 {
		t.Errorf("expected page_size=50, got %d", conf.GetPluginInt("ytmusic", "page_size"))
	}
	if !conf.GetPluginBool("ytmusic", "enabled") {
		t.Errorf("expected enabled=true")
	}
}
