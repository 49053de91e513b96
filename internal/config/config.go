package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is the fallback signing secret. Running with it is logged as a warning.
const DefaultJWTSecret = "defaultsecret"

// Config is built once at startup and passed to constructors explicitly.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "console" or "json"

	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	CORS   CORSConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type DBConfig struct {
	Path string
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	RequireToken bool // wrap write routes in the Bearer-token middleware
	// DefaultAuthorID is assigned to new posts when neither the body nor a token names an author.
	DefaultAuthorID int
}

type CORSConfig struct {
	AllowedOrigins []string // "*" means any origin
}

type RedisConfig struct {
	Addr     string // empty disables the list cache
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers      []string // empty disables event export
	Topic        string
	WriteTimeout time.Duration
}

// UsesDefaultSecret reports whether the signing secret was left at its fallback value.
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8888")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "vision_runner.db")

	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("auth.require_token", false)
	v.SetDefault("auth.default_author_id", 1)

	v.SetDefault("cors.allowed_origins", []string{"https://vision-runner.vercel.app"})

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "60s")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "vision-runner-activity")
	v.SetDefault("kafka.write_timeout", "10s")
}

// Load reads configuration from defaults, an optional configs/config.yml,
// an optional .env file and the process environment, in increasing precedence.
// configPaths overrides the directories searched for config.yml.
func Load(configPaths ...string) (*Config, error) {
	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"configs", "."}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// JWT_SECRET is the name existing deployments set.
	if err := v.BindEnv("auth.jwt_secret", "JWT_SECRET", "AUTH_JWT_SECRET"); err != nil {
		return nil, fmt.Errorf("bind JWT_SECRET: %w", err)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:      strings.TrimSpace(v.GetString("port")),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		Server: ServerConfig{
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
		DB: DBConfig{
			Path: v.GetString("db.path"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("auth.jwt_secret"),
			TokenTTL:        v.GetDuration("auth.token_ttl"),
			RequireToken:    v.GetBool("auth.require_token"),
			DefaultAuthorID: v.GetInt("auth.default_author_id"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetStringSlice("cors.allowed_origins")),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetStringSlice("kafka.brokers")),
			Topic:        v.GetString("kafka.topic"),
			WriteTimeout: v.GetDuration("kafka.write_timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if f := strings.ToLower(c.LogFormat); f != "console" && f != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", c.LogFormat)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.DefaultAuthorID <= 0 {
		return fmt.Errorf("auth.default_author_id must be positive, got %d", c.Auth.DefaultAuthorID)
	}
	for _, o := range c.CORS.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("cors.allowed_origins: %q must be \"*\" or start with http:// or https://", o)
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when kafka.brokers is set")
	}
	return nil
}

// splitList accepts both YAML lists and comma separated env values ("a,b").
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
