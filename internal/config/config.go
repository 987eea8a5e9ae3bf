package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "EXPENSO"

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type RedisConfig struct {
	Addr string        `mapstructure:"addr"` // empty disables the stats cache
	TTL  time.Duration `mapstructure:"ttl"`
}

type WSConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Port    string      `mapstructure:"port"`
	GinMode string      `mapstructure:"gin_mode"`
	DB      DBConfig    `mapstructure:"db"`
	JWT     JWTConfig   `mapstructure:"jwt"`
	Log     LogConfig   `mapstructure:"log"`
	Redis   RedisConfig `mapstructure:"redis"`
	WS      WSConfig    `mapstructure:"ws"`
	CORS    CORSConfig  `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("db.path", "expenses.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.ttl", 60*time.Second)
	v.SetDefault("ws.interval", 5*time.Second)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// Load reads .env (if present), then configs/config.yml from dir, then
// EXPENSO_* environment overrides (EXPENSO_JWT_SECRET, EXPENSO_DB_PATH, ...).
// A missing config file is not an error; defaults and env still apply.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if dir == "" {
		dir = "configs"
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// env values arrive as a single comma separated string
	c.CORS.AllowedOrigins = splitList(c.CORS.AllowedOrigins)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt.secret is required (set EXPENSO_JWT_SECRET)")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("config: jwt.ttl must be positive, got %s", c.JWT.TTL)
	}
	port, err := strconv.Atoi(strings.TrimPrefix(c.Port, ":"))
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("config: invalid port %q", c.Port)
	}
	if c.DB.Path == "" {
		return errors.New("config: db.path is required")
	}
	if c.Redis.TTL < 0 || c.WS.Interval < 0 {
		return errors.New("config: durations must not be negative")
	}
	return nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
