package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"larryfeed/internal/feed"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Cache      CacheConfig      `toml:"cache"`
	Generation GenerationConfig `toml:"generation"`
	Warmup     WarmupConfig     `toml:"warmup"`
	Feeds      []FeedConfig     `toml:"feeds"`
}

type ServerConfig struct {
	Port       string `toml:"port"`
	CORSOrigin string `toml:"cors_origin"`
	ListQuota  int    `toml:"list_quota"`
}

type CacheConfig struct {
	Backend    string `toml:"backend"`
	RedisAddr  string `toml:"redis_addr"`
	SQLitePath string `toml:"sqlite_path"`
	ItemTTL    string `toml:"item_ttl"`
	PostTTL    string `toml:"post_ttl"`
}

type GenerationConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env"`
	Enrich    bool   `toml:"enrich"`
}

type WarmupConfig struct {
	Interval string `toml:"interval"`
	RunOnce  bool   `toml:"run_once"`
	Quota    int    `toml:"quota"`
}

type FeedConfig struct {
	URL    string `toml:"url"`
	Topic  string `toml:"topic"`
	Source string `toml:"source"`
}

// Load reads the TOML config at path and fills in defaults. A missing
// file is not an error: the built-in feed table and defaults apply, so
// the binary runs usefully without any configuration.
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.ListQuota == 0 {
		config.Server.ListQuota = 6
	}

	if config.Cache.Backend == "" {
		config.Cache.Backend = "memory"
	}
	if config.Cache.ItemTTL == "" {
		config.Cache.ItemTTL = "30m"
	}
	if _, err := time.ParseDuration(config.Cache.ItemTTL); err != nil {
		return fmt.Errorf("invalid item_ttl: %w", err)
	}
	if config.Cache.PostTTL == "" {
		config.Cache.PostTTL = "12h"
	}
	if _, err := time.ParseDuration(config.Cache.PostTTL); err != nil {
		return fmt.Errorf("invalid post_ttl: %w", err)
	}

	if config.Warmup.Interval == "" {
		config.Warmup.Interval = "15m"
	}
	if _, err := time.ParseDuration(config.Warmup.Interval); err != nil {
		return fmt.Errorf("invalid warmup interval: %w", err)
	}
	if config.Warmup.Quota == 0 {
		config.Warmup.Quota = 4
	}

	if len(config.Feeds) == 0 {
		config.Feeds = defaultFeeds
	}
	for _, f := range config.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feed entry missing url")
		}
	}

	return nil
}

// ItemTTL returns the raw-item/etag cache TTL. Validation guarantees
// the stored strings parse, so the accessors cannot fail.
func (c *Config) ItemTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.ItemTTL)
	return d
}

func (c *Config) PostTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.PostTTL)
	return d
}

func (c *Config) WarmupInterval() time.Duration {
	d, _ := time.ParseDuration(c.Warmup.Interval)
	return d
}

// APIKey resolves the generation API key from the configured
// environment variable.
func (c *Config) APIKey() string {
	env := c.Generation.APIKeyEnv
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	return os.Getenv(env)
}

// Descriptors converts the configured feed table for the fetcher.
func (c *Config) Descriptors() []feed.Descriptor {
	descs := make([]feed.Descriptor, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		descs = append(descs, feed.Descriptor{URL: f.URL, Topic: f.Topic, Source: f.Source})
	}
	return descs
}

var defaultFeeds = []FeedConfig{
	{URL: "https://openai.com/blog/rss", Topic: "IA", Source: "OpenAI Blog"},
	{URL: "https://www.anthropic.com/index.xml", Topic: "IA", Source: "Anthropic"},
	{URL: "https://deepmind.google/discover/blog/feed.xml", Topic: "IA", Source: "Google DeepMind"},
	{URL: "https://feeds.feedburner.com/TheGradient", Topic: "IA", Source: "The Gradient"},
	{URL: "https://www.theverge.com/rss/index.xml", Topic: "Tech", Source: "The Verge"},
	{URL: "https://techcrunch.com/feed/", Topic: "Tech", Source: "TechCrunch"},
	{URL: "https://news.ycombinator.com/rss", Topic: "Tech", Source: "Hacker News"},
	{URL: "https://www.lesswrong.com/feed.xml", Topic: "Philo", Source: "LessWrong"},
	{URL: "https://aeon.co/feed.rss", Topic: "Philo", Source: "Aeon"},
	{URL: "https://www.reuters.com/world/rss", Topic: "News", Source: "Reuters"},
	{URL: "http://feeds.bbci.co.uk/news/rss.xml", Topic: "News", Source: "BBC News"},
	{URL: "https://bitcoinmagazine.com/.rss", Topic: "Crypto", Source: "Bitcoin Magazine"},
	{URL: "https://www.coindesk.com/arc/outboundfeeds/rss/?outputType=xml", Topic: "Crypto", Source: "CoinDesk"},
}
