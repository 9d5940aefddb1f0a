package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host string
	Port int
}

type DB struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type Redis struct {
	Addr string
	Pass string
	DB   int
}

type Notion struct {
	BaseURL    string
	APIVersion string
	TimeoutSec int
	MaxRetries int
}

type Queue struct {
	Capacity      int
	Workers       int
	RunTimeoutSec int
	LockTTLSec    int
}

type Config struct {
	HTTP   HTTP
	DB     DB
	Redis  Redis
	Notion Notion
	Queue  Queue
	JWT    struct {
		Secret string
		Issuer string
		ExpMin int
	}
	LogLevel string
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 9500)
	v.SetDefault("server.db.host", "127.0.0.1")
	v.SetDefault("server.db.port", 3306)
	v.SetDefault("server.db.user", "root")
	v.SetDefault("server.db.pass", "")
	v.SetDefault("server.db.name", "temar")
	v.SetDefault("server.redis.addr", "")
	v.SetDefault("server.redis.pass", "")
	v.SetDefault("server.redis.db", 0)
	v.SetDefault("server.notion.base_url", "https://api.notion.com")
	v.SetDefault("server.notion.api_version", "2025-09-03")
	v.SetDefault("server.notion.timeout_sec", 20)
	v.SetDefault("server.notion.max_retries", 3)
	v.SetDefault("server.queue.capacity", 256)
	v.SetDefault("server.queue.workers", 4)
	v.SetDefault("server.queue.run_timeout_sec", 60)
	v.SetDefault("server.queue.lock_ttl_sec", 120)
	v.SetDefault("server.log_level", "info")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{
		HTTP: HTTP{Host: v.GetString("server.host"), Port: v.GetInt("server.port")},
		DB:   DB{Host: v.GetString("server.db.host"), Port: v.GetInt("server.db.port"), User: v.GetString("server.db.user"), Pass: v.GetString("server.db.pass"), Name: v.GetString("server.db.name")},
		Redis: Redis{
			Addr: v.GetString("server.redis.addr"),
			Pass: v.GetString("server.redis.pass"),
			DB:   v.GetInt("server.redis.db"),
		},
		Notion: Notion{
			BaseURL:    v.GetString("server.notion.base_url"),
			APIVersion: v.GetString("server.notion.api_version"),
			TimeoutSec: v.GetInt("server.notion.timeout_sec"),
			MaxRetries: v.GetInt("server.notion.max_retries"),
		},
		Queue: Queue{
			Capacity:      v.GetInt("server.queue.capacity"),
			Workers:       v.GetInt("server.queue.workers"),
			RunTimeoutSec: v.GetInt("server.queue.run_timeout_sec"),
			LockTTLSec:    v.GetInt("server.queue.lock_ttl_sec"),
		},
		LogLevel: v.GetString("server.log_level"),
	}
	cfg.JWT.Secret = v.GetString("server.jwt.secret")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret"
	}
	cfg.JWT.Issuer = v.GetString("server.jwt.issuer")
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "temar"
	}
	cfg.JWT.ExpMin = v.GetInt("server.jwt.exp_min")
	if cfg.JWT.ExpMin <= 0 {
		cfg.JWT.ExpMin = 60
	}

	// Log level follows edits to the config file without a restart.
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		applyLogLevel(v.GetString("server.log_level"))
	})
	applyLogLevel(cfg.LogLevel)

	return cfg, nil
}

func applyLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
