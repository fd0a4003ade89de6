// Package config defines service configuration and its loading layers.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and RADAR_* environment variables over them.
// - Validation failures wrap ErrInvalidConfig.
package config

import "time"

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches the log encoder from console to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the person store: memory or postgres.
	Storage     string `koanf:"storage"`
	DatabaseURL string `koanf:"database_url"`

	// CollectWorkers bounds concurrent source tasks.
	CollectWorkers int `koanf:"collect_workers"`
	// ParallelThreshold is the task count from which tasks run concurrently.
	ParallelThreshold int `koanf:"parallel_threshold"`
	// QueueSize bounds the per-run candidate queue.
	QueueSize int `koanf:"queue_size"`
	// PersistWorkers sets how many persisters drain the queue.
	PersistWorkers int `koanf:"persist_workers"`
	// DefaultMaxResults is the per-source result count when a request omits one.
	DefaultMaxResults int `koanf:"default_max_results"`
	RequestTimeoutMS  int `koanf:"request_timeout_ms"`

	GitHubToken   string `koanf:"github_token"`
	QiitaToken    string `koanf:"qiita_token"`
	OpenAlexEmail string `koanf:"openalex_email"`

	GitHubBaseURL   string `koanf:"github_base_url"`
	QiitaBaseURL    string `koanf:"qiita_base_url"`
	OpenAlexBaseURL string `koanf:"openalex_base_url"`
	KakenBaseURL    string `koanf:"kaken_base_url"`

	OpenAlexDelayMS int `koanf:"openalex_delay_ms"`
	KakenDelayMS    int `koanf:"kaken_delay_ms"`

	// MatchLimit caps how many ranked persons a match returns.
	MatchLimit int `koanf:"match_limit"`
	// CJKThreshold is the CJK rune ratio above which text takes the Japanese path.
	CJKThreshold float64 `koanf:"cjk_threshold"`

	// JobHistory bounds how many finished jobs are remembered.
	JobHistory int `koanf:"job_history"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		Storage:           StorageMemory,
		CollectWorkers:    4,
		ParallelThreshold: 4,
		QueueSize:         256,
		PersistWorkers:    4,
		DefaultMaxResults: 10,
		RequestTimeoutMS:  10_000,
		OpenAlexEmail:     "your-email@example.com",
		OpenAlexDelayMS:   100,
		KakenDelayMS:      500,
		MatchLimit:        50,
		CJKThreshold:      0.2,
		JobHistory:        50,
	}
}

// RequestTimeout returns the upstream HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// OpenAlexDelay returns the pause before every OpenAlex call.
func (c *Config) OpenAlexDelay() time.Duration {
	return time.Duration(c.OpenAlexDelayMS) * time.Millisecond
}

// KakenDelay returns the pause before every KAKEN call.
func (c *Config) KakenDelay() time.Duration {
	return time.Duration(c.KakenDelayMS) * time.Millisecond
}
