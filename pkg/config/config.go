// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Indexer, Search, Evaluation, Redis, Postgres, Kafka, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Indexer    IndexerConfig    `yaml:"indexer"`
	Search     SearchConfig     `yaml:"search"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// IndexerConfig controls how a corpus is tokenized and how often the build
// reports progress.
type IndexerConfig struct {
	Stem             bool `yaml:"stem"`
	ProgressInterval int  `yaml:"progressInterval"`
}

// BM25Config holds the Okapi BM25 parameters.
type BM25Config struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
	K2 float64 `yaml:"k2"`
}

// RunTags are the run identifiers written in the last column of a run file.
type RunTags struct {
	Boolean  string `yaml:"boolean"`
	BM25     string `yaml:"bm25"`
	BM25Stem string `yaml:"bm25Stem"`
}

// SearchConfig controls retrieval and run output.
type SearchConfig struct {
	MaxResults       int        `yaml:"maxResults"`
	BooleanSemantics string     `yaml:"booleanSemantics"`
	BM25             BM25Config `yaml:"bm25"`
	RunTags          RunTags    `yaml:"runTags"`
}

// TBGConfig holds the user-model constants of Time-Biased Gain.
type TBGConfig struct {
	TimeSummary       float64 `yaml:"ts"`
	PClickRelevant    float64 `yaml:"pClickRelevant"`
	PClickNonRelevant float64 `yaml:"pClickNonRelevant"`
	PSaveRelevant     float64 `yaml:"pSaveRelevant"`
	HalfLife          float64 `yaml:"halfLife"`
}

// EvaluationConfig controls the effectiveness evaluation.
type EvaluationConfig struct {
	TBG         TBGConfig `yaml:"tbg"`
	SummaryFile string    `yaml:"summaryFile"`
}

// RedisConfig holds Redis connection and ranking-cache parameters.
type RedisConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Addr            string        `yaml:"addr"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	PoolSize        int           `yaml:"poolSize"`
	CacheTTL        time.Duration `yaml:"cacheTTL"`
	ConnectAttempts int           `yaml:"connectAttempts"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	ConnectAttempts int           `yaml:"connectAttempts"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled bool        `yaml:"enabled"`
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	IndexBuilt   string `yaml:"indexBuilt"`
	RunEvaluated string `yaml:"runEvaluated"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls where the Prometheus registry is exported. Tools
// are short-lived, so metrics are written to a node-exporter textfile.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config carrying the reference retrieval and evaluation
// constants.
func Default() *Config {
	return &Config{
		Indexer: IndexerConfig{
			Stem:             false,
			ProgressInterval: 10000,
		},
		Search: SearchConfig{
			MaxResults:       1000,
			BooleanSemantics: "multiset",
			BM25: BM25Config{
				K1: 1.2,
				B:  0.75,
				K2: 7.0,
			},
			RunTags: RunTags{
				Boolean:  "latimesAND",
				BM25:     "latimesBM25-baseline",
				BM25Stem: "latimesBM25-stem",
			},
		},
		Evaluation: EvaluationConfig{
			TBG: TBGConfig{
				TimeSummary:       4.4,
				PClickRelevant:    0.64,
				PClickNonRelevant: 0.39,
				PSaveRelevant:     0.77,
				HalfLife:          224,
			},
			SummaryFile: "summary.csv",
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			DB:              0,
			PoolSize:        4,
			CacheTTL:        24 * time.Hour,
			ConnectAttempts: 3,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "retrieval",
			User:            "retrieval",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectAttempts: 3,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				IndexBuilt:   "index.built",
				RunEvaluated: "run.evaluated",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate rejects parameter sets the ranking and evaluation code cannot use.
func (c *Config) Validate() error {
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.maxResults must be positive, got %d", c.Search.MaxResults)
	}
	switch c.Search.BooleanSemantics {
	case "multiset", "set":
	default:
		return fmt.Errorf("search.booleanSemantics must be multiset or set, got %q", c.Search.BooleanSemantics)
	}
	if c.Search.BM25.K1 < 0 || c.Search.BM25.B < 0 || c.Search.BM25.B > 1 || c.Search.BM25.K2 < 0 {
		return fmt.Errorf("search.bm25 parameters out of range: %+v", c.Search.BM25)
	}
	if c.Evaluation.TBG.HalfLife <= 0 {
		return fmt.Errorf("evaluation.tbg.halfLife must be positive, got %v", c.Evaluation.TBG.HalfLife)
	}
	if c.Indexer.ProgressInterval < 0 {
		return fmt.Errorf("indexer.progressInterval must not be negative, got %d", c.Indexer.ProgressInterval)
	}
	return nil
}

// applyEnvOverrides reads IR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IR_INDEXER_STEM"); v != "" {
		if stem, err := strconv.ParseBool(v); err == nil {
			cfg.Indexer.Stem = stem
		}
	}
	if v := os.Getenv("IR_SEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("IR_SEARCH_BOOLEAN_SEMANTICS"); v != "" {
		cfg.Search.BooleanSemantics = v
	}
	if v := os.Getenv("IR_REDIS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = enabled
		}
	}
	if v := os.Getenv("IR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("IR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("IR_POSTGRES_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Postgres.Enabled = enabled
		}
	}
	if v := os.Getenv("IR_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("IR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("IR_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("IR_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("IR_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("IR_KAFKA_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = enabled
		}
	}
	if v := os.Getenv("IR_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("IR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("IR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("IR_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}
