package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testYAML = `
server:
  port: 8080
  mode: release
database:
  dsn: "postgres://u:p@localhost:5432/odds"
upstream:
  prematch_url: "https://example.test/v1/prematch"
  live_url: "https://example.test/live"
  token: "yaml-token"
  timeout: 4
redis:
  addr: "127.0.0.1:6379"
sync:
  interval: 5m
sports:
  tennis:
    default_event_ids: ["T1", "T2"]
    events:
      "T1":
        home: "Nadal"
        away: "Djokovic"
        league_id: "ATP"
        event_id: "ev1"
`

// chdir 切换工作目录并在测试结束时恢复
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// withConfigDir 在临时目录下写 config/config.yaml 并切换工作目录
func withConfigDir(t *testing.T, yaml string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	for _, key := range []string{"BET365_API_URL", "BET365_API_TOKEN", "LIVE_API_URL", "UPSTREAM_PROXY", "DATABASE_DSN", "REDIS_ADDR", "SERVER_PORT"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	withConfigDir(t, testYAML)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8080 || !cfg.Server.IsRelease() {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Upstream.UpstreamTimeout() != 4*time.Second {
		t.Errorf("timeout = %v", cfg.Upstream.UpstreamTimeout())
	}
	// 未配置的项使用默认值
	if cfg.Upstream.OverallTimeout() != 30*time.Second || cfg.Upstream.MaxConcurrency != 8 || cfg.Database.MaxOpenConns != 20 {
		t.Errorf("defaults not applied: %+v %+v", cfg.Upstream, cfg.Database)
	}
	if cfg.Sync.Interval != 5*time.Minute {
		t.Errorf("sync interval = %v", cfg.Sync.Interval)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.StreamMaxLen != 1000 {
		t.Errorf("redis = %+v", cfg.Redis)
	}

	tennis := cfg.Sport("tennis")
	if len(tennis.DefaultEventIDs) != 2 || tennis.DefaultEventIDs[0] != "T1" {
		t.Errorf("tennis defaults = %v", tennis.DefaultEventIDs)
	}
	if ev, ok := tennis.Event("T1"); !ok || ev.Home != "Nadal" || ev.EventID != "ev1" {
		t.Errorf("tennis events = %+v", tennis.Events)
	}
	if len(cfg.Sport("curling").DefaultEventIDs) != 0 {
		t.Error("unknown sport should yield zero value")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	withConfigDir(t, testYAML)
	t.Setenv("BET365_API_TOKEN", "env-token")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Upstream.Token != "env-token" || cfg.Server.Port != 9090 || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("env overrides not applied: token=%q port=%d redis=%q", cfg.Upstream.Token, cfg.Server.Port, cfg.Redis.Addr)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	withConfigDir(t, "server:\n  port: 5000\n")

	_, err := LoadConfig()
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("err = %v, want ErrConfigurationMissing", err)
	}
	for _, key := range []string{"upstream.prematch_url", "upstream.live_url", "upstream.token", "database.dsn"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should name %s: %v", key, err)
		}
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without config file")
	}
}
