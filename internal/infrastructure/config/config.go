package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL  string        `env:"MATCHDAY_API_URL,      default=http://localhost:8080"`
	HTTPTimeout time.Duration `env:"MATCHDAY_HTTP_TIMEOUT, default=15s"`
	WarnLead    time.Duration `env:"MATCHDAY_WARN_LEAD,    default=5m"`
	LogLevel    string        `env:"MATCHDAY_LOG_LEVEL,    default=info"`
	LogPretty   bool          `env:"MATCHDAY_LOG_PRETTY,   default=true"`
	MetricsAddr string        `env:"MATCHDAY_METRICS_ADDR"`

	Storage StorageConfig
}

type StorageConfig struct {
	// Backend selects the credential storage medium: file, memory, or redis.
	Backend   string `env:"MATCHDAY_STORAGE,       default=file"`
	FilePath  string `env:"MATCHDAY_STORAGE_FILE"`
	RedisAddr string `env:"MATCHDAY_REDIS_ADDR,    default=localhost:6379"`
	RedisDB   int    `env:"MATCHDAY_REDIS_DB,      default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = defaultStorageFile()
	}
	return &cfg
}

func defaultStorageFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "matchday", "session.json")
	}
	return filepath.Join(home, ".matchday", "session.json")
}
