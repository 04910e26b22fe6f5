package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"raven_news/internal/rss"
)

// Feed is one catalogued RSS endpoint. Source selects the parser variant.
// Inactive feeds stay in the catalogue for bookkeeping but are never
// scheduled.
type Feed struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Config holds the feed catalogue and the polling knobs. Durations are
// plain seconds in the JSON file.
type Config struct {
	Feeds        []Feed `json:"feeds"`
	PollInterval int    `json:"poll_interval"`
	FetchTimeout int    `json:"fetch_timeout"`
	ListenAddr   string `json:"listen_addr"`
}

// Interval is the poll interval as a duration.
func (cfg *Config) Interval() time.Duration {
	return time.Duration(cfg.PollInterval) * time.Second
}

// Timeout is the per-fetch timeout as a duration.
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.FetchTimeout) * time.Second
}

// ActiveFeeds returns the feeds that should be scheduled.
func (cfg *Config) ActiveFeeds() []Feed {
	active := make([]Feed, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		if f.Active {
			active = append(active, f)
		}
	}
	return active
}

// Validate rejects configurations that would fail at tick time: intervals
// below the floor, malformed URLs, duplicate feed names, and source tokens
// no parser is registered for. An empty catalogue is allowed; ticks over it
// complete trivially.
func (cfg *Config) Validate() error {
	if cfg.PollInterval < 5 {
		return errors.New("poll interval must be at least 5 seconds")
	}
	if cfg.FetchTimeout < 1 {
		return errors.New("fetch timeout must be at least 1 second")
	}

	seen := make(map[string]bool, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		if f.Name == "" {
			return errors.New("feed with empty name")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate feed name: %s", f.Name)
		}
		seen[f.Name] = true

		if _, err := url.ParseRequestURI(f.URL); err != nil {
			return fmt.Errorf("feed %s: invalid URL: %s", f.Name, f.URL)
		}
		if _, ok := rss.ParserFor(f.Source); !ok {
			return fmt.Errorf("feed %s: unknown source %q (known: %s)",
				f.Name, f.Source, strings.Join(rss.Sources(), ", "))
		}
	}
	return nil
}

// LoadConfig reads and decodes the JSON file at path.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is the built-in catalogue used when no config file is present.
// The Reuters endpoints are kept for bookkeeping but disabled: Reuters no
// longer offers public RSS feeds.
func Default() *Config {
	return &Config{
		Feeds: []Feed{
			{Name: "bloomberg_wealth", Source: "bloomberg", URL: "https://feeds.bloomberg.com/wealth/news.rss", Active: true},
			{Name: "bloomberg_economics", Source: "bloomberg", URL: "https://feeds.bloomberg.com/economics/news.rss", Active: true},
			{Name: "bloomberg_markets", Source: "bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss", Active: true},
			{Name: "coindesk", Source: "coindesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss", Active: true},
			{Name: "reuters_financial", Source: "reuters", URL: "https://ir.thomsonreuters.com/rss/news-releases.xml?items=15", Active: false},
			{Name: "reuters_events", Source: "reuters", URL: "https://ir.thomsonreuters.com/rss/events.xml?items=15", Active: false},
			{Name: "reuters_secfilings", Source: "reuters", URL: "https://ir.thomsonreuters.com/rss/sec-filings.xml?items=15", Active: false},
		},
		PollInterval: 60,
		FetchTimeout: 10,
		ListenAddr:   ":8080",
	}
}
