package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Server struct {
		Addr string `koanf:"addr"`
		Fort string `koanf:"fort"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  addr: 127.0.0.1:8001\n  fort: fishing_fort\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:8001" || cfg.Server.Fort != "fishing_fort" {
		t.Errorf("server section = %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HBC_LOG_LEVEL", "error")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %q, environment must override the file", cfg.Log.Level)
	}
}

func TestLoadMap(t *testing.T) {
	l := NewLoader()
	err := l.LoadMap(map[string]any{
		"server.addr": "0.0.0.0:9000",
	})
	if err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if got := l.GetString("server.addr"); got != "0.0.0.0:9000" {
		t.Errorf("GetString(server.addr) = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithConfigFile("/nonexistent/config.yaml"))
	if err := l.Load(&cfg); err == nil {
		t.Error("Load() with missing file should fail")
	}
}
