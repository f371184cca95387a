package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port %q", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("backend %q", cfg.Cache.Backend)
	}
	if cfg.ItemTTL() != 30*time.Minute {
		t.Errorf("item ttl %v", cfg.ItemTTL())
	}
	if cfg.PostTTL() != 12*time.Hour {
		t.Errorf("post ttl %v", cfg.PostTTL())
	}
	if cfg.Server.ListQuota != 6 || cfg.Warmup.Quota != 4 {
		t.Errorf("quotas %d/%d", cfg.Server.ListQuota, cfg.Warmup.Quota)
	}
	if len(cfg.Feeds) == 0 {
		t.Error("default feed table must apply")
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "9090"
cors_origin = "https://front.example"

[cache]
backend = "redis"
redis_addr = "localhost:6380"
item_ttl = "10m"

[generation]
provider = "openai"
model = "gpt-4o-mini"

[warmup]
interval = "5m"
quota = 2

[[feeds]]
url = "https://example.com/rss"
topic = "Tech"
source = "Example"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port %q", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6380" {
		t.Errorf("cache %+v", cfg.Cache)
	}
	if cfg.ItemTTL() != 10*time.Minute {
		t.Errorf("item ttl %v", cfg.ItemTTL())
	}
	if cfg.WarmupInterval() != 5*time.Minute || cfg.Warmup.Quota != 2 {
		t.Errorf("warmup %+v", cfg.Warmup)
	}

	descs := cfg.Descriptors()
	if len(descs) != 1 || descs[0].Source != "Example" {
		t.Errorf("descriptors %+v", descs)
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	path := writeConfig(t, `
[cache]
item_ttl = "soon"
`)
	if _, err := Load(path); err == nil {
		t.Error("invalid item_ttl must be rejected")
	}
}

func TestLoadRejectsFeedWithoutURL(t *testing.T) {
	path := writeConfig(t, `
[[feeds]]
topic = "Tech"
source = "Example"
`)
	if _, err := Load(path); err == nil {
		t.Error("feed entries without a url must be rejected")
	}
}

func TestAPIKeyEnvOverride(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "sk-test")

	cfg := &Config{Generation: GenerationConfig{APIKeyEnv: "CUSTOM_KEY"}}
	if got := cfg.APIKey(); got != "sk-test" {
		t.Errorf("api key %q", got)
	}
}
