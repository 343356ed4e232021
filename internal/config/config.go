// Package config defines all configuration structures for the CX-Insight
// platform. No I/O or parsing logic lives here — only plain data types and
// validation; loading is handled by loader.go.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the insight cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer/consumer parameters for review ingestion
// and run-completion events.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	AutoOffsetReset string        `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Entity describes one monitored entity (a bank's mobile app in the reference
// deployment). The registry is advisory: ingestion accepts reviews for
// unknown entities but logs them.
type Entity struct {
	Name  string `mapstructure:"name"`
	Code  string `mapstructure:"code"`
	AppID string `mapstructure:"app_id"`
}

// DriverThresholds gate classification of a (entity, theme) pair as a driver.
// All bounds are inclusive.
type DriverThresholds struct {
	MinPositivePct float64 `mapstructure:"min_positive_pct"`
	MinAvgRating   float64 `mapstructure:"min_avg_rating"`
	MinReviews     int     `mapstructure:"min_reviews"`
}

// PainPointThresholds gate classification of a (entity, theme) pair as a pain
// point. MinNegativePct and MinReviews are inclusive; MaxAvgRating is an
// exclusive upper bound (avg_rating must be strictly below it).
type PainPointThresholds struct {
	MinNegativePct float64 `mapstructure:"min_negative_pct"`
	MaxAvgRating   float64 `mapstructure:"max_avg_rating"`
	MinReviews     int     `mapstructure:"min_reviews"`
}

// AnalyticsConfig carries every tunable of the insight engine. The values are
// business heuristics with no derivation beyond operator experience, which is
// exactly why they live in configuration rather than code.
type AnalyticsConfig struct {
	// ThemeKeywords maps theme name → lower-cased keywords/phrases. A phrase
	// (containing a space) matches as a substring of the joined token text;
	// a single keyword matches exact token membership.
	ThemeKeywords map[string][]string `mapstructure:"theme_keywords"`

	Driver    DriverThresholds    `mapstructure:"driver"`
	PainPoint PainPointThresholds `mapstructure:"pain_point"`

	// CompetitiveGap is the average-rating margin a peer must exceed
	// (strictly) before its drivers are borrowed as recommendations.
	CompetitiveGap float64 `mapstructure:"competitive_gap"`

	// TopDrivers / TopPainPoints cap the per-entity classified lists.
	TopDrivers    int `mapstructure:"top_drivers"`
	TopPainPoints int `mapstructure:"top_pain_points"`

	// TopThemes caps the per-entity theme ranking in comparison records.
	TopThemes int `mapstructure:"top_themes"`

	// MaxRecommendations caps the combined recommendation list per entity.
	MaxRecommendations int `mapstructure:"max_recommendations"`

	// PainPointRecommendations is how many top pain points feed templated
	// recommendations (fewer than TopPainPoints by design).
	PainPointRecommendations int `mapstructure:"pain_point_recommendations"`

	// PeerDrivers is how many of a qualifying peer's top drivers are
	// considered for competitive-gap recommendations.
	PeerDrivers int `mapstructure:"peer_drivers"`

	// EvidenceSamples is how many positive and negative excerpts each theme
	// statistic retains.
	EvidenceSamples int `mapstructure:"evidence_samples"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the platform. Every
// infrastructure component and application service reads its settings from
// the relevant sub-struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Log       LogConfig       `mapstructure:"log"`
	Entities  []Entity        `mapstructure:"entities"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config. It
// returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return c.Analytics.Validate()
}

// Validate checks the analytics tunables for internally-consistent values.
func (a *AnalyticsConfig) Validate() error {
	if len(a.ThemeKeywords) == 0 {
		return fmt.Errorf("config: analytics.theme_keywords must define at least one theme")
	}
	for theme, keywords := range a.ThemeKeywords {
		if theme == "" {
			return fmt.Errorf("config: analytics.theme_keywords contains an empty theme name")
		}
		if len(keywords) == 0 {
			return fmt.Errorf("config: analytics.theme_keywords[%q] has no keywords", theme)
		}
	}
	if a.Driver.MinPositivePct < 0 || a.Driver.MinPositivePct > 100 {
		return fmt.Errorf("config: analytics.driver.min_positive_pct %.1f is out of range [0, 100]", a.Driver.MinPositivePct)
	}
	if a.PainPoint.MinNegativePct < 0 || a.PainPoint.MinNegativePct > 100 {
		return fmt.Errorf("config: analytics.pain_point.min_negative_pct %.1f is out of range [0, 100]", a.PainPoint.MinNegativePct)
	}
	if a.Driver.MinAvgRating < 1 || a.Driver.MinAvgRating > 5 {
		return fmt.Errorf("config: analytics.driver.min_avg_rating %.1f is out of range [1, 5]", a.Driver.MinAvgRating)
	}
	if a.PainPoint.MaxAvgRating < 1 || a.PainPoint.MaxAvgRating > 5 {
		return fmt.Errorf("config: analytics.pain_point.max_avg_rating %.1f is out of range [1, 5]", a.PainPoint.MaxAvgRating)
	}
	if a.Driver.MinReviews < 1 || a.PainPoint.MinReviews < 1 {
		return fmt.Errorf("config: analytics review-count thresholds must be ≥ 1")
	}
	if a.CompetitiveGap < 0 {
		return fmt.Errorf("config: analytics.competitive_gap must be ≥ 0, got %.2f", a.CompetitiveGap)
	}
	if a.TopDrivers < 1 || a.TopPainPoints < 1 || a.TopThemes < 1 || a.MaxRecommendations < 1 {
		return fmt.Errorf("config: analytics top-K limits must be ≥ 1")
	}
	if a.PainPointRecommendations < 0 || a.PainPointRecommendations > a.TopPainPoints {
		return fmt.Errorf("config: analytics.pain_point_recommendations must be in [0, top_pain_points]")
	}
	if a.PeerDrivers < 0 || a.EvidenceSamples < 0 {
		return fmt.Errorf("config: analytics.peer_drivers and evidence_samples must be ≥ 0")
	}
	return nil
}

// EntityNames returns the registered entity display names in declaration
// order.
func (c *Config) EntityNames() []string {
	names := make([]string, 0, len(c.Entities))
	for _, e := range c.Entities {
		names = append(names, e.Name)
	}
	return names
}

// KnownEntity reports whether name is in the configured registry.
func (c *Config) KnownEntity(name string) bool {
	for _, e := range c.Entities {
		if e.Name == name {
			return true
		}
	}
	return false
}
