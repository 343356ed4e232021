package config

import "time"

// ApplyDefaults fills every unset field of cfg with the platform default.
// It never overwrites a value the operator has set explicitly.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "cxinsight"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "cxinsight"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 5 * time.Minute
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "file://migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 15 * time.Minute
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "cxi:"
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{"localhost:9092"}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "cxinsight"
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = 100
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = time.Second
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
	if len(cfg.Log.ErrorOutputPaths) == 0 {
		cfg.Log.ErrorOutputPaths = []string{"stderr"}
	}

	applyAnalyticsDefaults(&cfg.Analytics)
}

// applyAnalyticsDefaults installs the stock rule table and thresholds. The
// thresholds mirror the heuristics the product team has used since the first
// manual analyses; they are deliberately configuration, not constants.
func applyAnalyticsDefaults(a *AnalyticsConfig) {
	if len(a.ThemeKeywords) == 0 {
		a.ThemeKeywords = DefaultThemeKeywords()
	}
	if a.Driver.MinPositivePct == 0 {
		a.Driver.MinPositivePct = 60.0
	}
	if a.Driver.MinAvgRating == 0 {
		a.Driver.MinAvgRating = 4.0
	}
	if a.Driver.MinReviews == 0 {
		a.Driver.MinReviews = 20
	}
	if a.PainPoint.MinNegativePct == 0 {
		a.PainPoint.MinNegativePct = 30.0
	}
	if a.PainPoint.MaxAvgRating == 0 {
		a.PainPoint.MaxAvgRating = 3.0
	}
	if a.PainPoint.MinReviews == 0 {
		a.PainPoint.MinReviews = 10
	}
	if a.CompetitiveGap == 0 {
		a.CompetitiveGap = 0.3
	}
	if a.TopDrivers == 0 {
		a.TopDrivers = 5
	}
	if a.TopPainPoints == 0 {
		a.TopPainPoints = 5
	}
	if a.TopThemes == 0 {
		a.TopThemes = 5
	}
	if a.MaxRecommendations == 0 {
		a.MaxRecommendations = 5
	}
	if a.PainPointRecommendations == 0 {
		a.PainPointRecommendations = 3
	}
	if a.PeerDrivers == 0 {
		a.PeerDrivers = 2
	}
	if a.EvidenceSamples == 0 {
		a.EvidenceSamples = 2
	}
}

// DefaultThemeKeywords returns the stock theme-keyword rule table for
// mobile-banking reviews. Keywords are matched against lemmatized tokens, so
// they are singular base forms.
func DefaultThemeKeywords() map[string][]string {
	return map[string][]string{
		"Access & Login": {
			"login", "password", "pin", "otp", "credential", "access",
		},
		"Performance & Reliability": {
			"crash", "freeze", "slow", "error", "bug", "hang", "lag",
		},
		"Transactions & Payments": {
			"transfer", "payment", "transaction", "bill", "send", "receive", "cash",
		},
		"User Experience": {
			"interface", "design", "navigation", "ui", "ux", "layout",
		},
		"Customer Support": {
			"support", "help", "service", "assist", "agent", "call",
		},
		"Features & Functionality": {
			"feature", "update", "option", "statement", "notification", "limit",
		},
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults. Used by
// the CLI when no config file is present.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
