package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env         string   `yaml:"env"`
	Addr        string   `yaml:"addr"`
	LogLevel    string   `yaml:"logLevel"`
	DatabaseURL string   `yaml:"databaseURL"`
	StoreDriver string   `yaml:"storeDriver"` // "postgres" | "memory"
	CORSOrigins []string `yaml:"corsOrigins"`
	// MaxBodyBytes caps request bodies; uploads need room for a cover and a PDF.
	MaxBodyBytes int64  `yaml:"maxBodyBytes"`
	TLSCert      string `yaml:"tlsCert"`
	TLSKey       string `yaml:"tlsKey"`

	Redis  RedisConfig  `yaml:"redis"`
	Auth   AuthConfig   `yaml:"auth"`
	Argon2 Argon2Config `yaml:"argon2"`
	Media  MediaConfig  `yaml:"media"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	AccessTTL time.Duration `yaml:"accessTTL"`
	ClockSkew time.Duration `yaml:"clockSkew"`
}

type Argon2Config struct {
	Memory      uint32 `yaml:"memory"` // KiB
	Iterations  uint32 `yaml:"iterations"`
	Parallelism uint8  `yaml:"parallelism"`
}

type MediaConfig struct {
	Driver           string        `yaml:"driver"` // "s3" | "minio"
	Endpoint         string        `yaml:"endpoint"`
	Region           string        `yaml:"region"`
	Bucket           string        `yaml:"bucket"`
	AccessKey        string        `yaml:"accessKey"`
	SecretKey        string        `yaml:"secretKey"`
	UseSSL           bool          `yaml:"useSSL"`
	PublicBaseURL    string        `yaml:"publicBaseURL"`
	PublicACL        bool          `yaml:"publicACL"`
	MaxImageBytes    int64         `yaml:"maxImageBytes"`
	MaxDocumentBytes int64         `yaml:"maxDocumentBytes"`
	DownloadTTL      time.Duration `yaml:"downloadTTL"`
}

func defaults() Config {
	return Config{
		Env:          "development",
		Addr:         ":8000",
		LogLevel:     "info",
		StoreDriver:  "postgres",
		CORSOrigins:  []string{"http://localhost:5500", "http://127.0.0.1:5500"},
		MaxBodyBytes: 60 << 20,
		Auth: AuthConfig{
			AccessTTL: 24 * time.Hour,
			ClockSkew: time.Minute,
		},
		Argon2: Argon2Config{
			Memory:      131072,
			Iterations:  3,
			Parallelism: 1,
		},
		Media: MediaConfig{
			Driver:           "s3",
			Region:           "auto",
			UseSSL:           true,
			MaxImageBytes:    10 << 20,
			MaxDocumentBytes: 50 << 20,
			DownloadTTL:      time.Hour,
		},
	}
}

// Load reads .env (if present), then the optional YAML file at path, then applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("APP_ENV", &cfg.Env)
	str("APP_ADDR", &cfg.Addr)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("STORE_DRIVER", &cfg.StoreDriver)
	str("TLS_CERT", &cfg.TLSCert)
	str("TLS_KEY", &cfg.TLSKey)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}

	str("REDIS_URL", &cfg.Redis.URL)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_USER", &cfg.Redis.User)
	str("REDIS_PASSWORD", &cfg.Redis.Password)

	str("AUTH_JWT_SECRET", &cfg.Auth.JWTSecret)

	str("MEDIA_DRIVER", &cfg.Media.Driver)
	str("MEDIA_ENDPOINT", &cfg.Media.Endpoint)
	str("MEDIA_REGION", &cfg.Media.Region)
	str("MEDIA_BUCKET", &cfg.Media.Bucket)
	str("MEDIA_ACCESS_KEY", &cfg.Media.AccessKey)
	str("MEDIA_SECRET_KEY", &cfg.Media.SecretKey)
	str("MEDIA_PUBLIC_BASE_URL", &cfg.Media.PublicBaseURL)

	var err error
	set := func(key string, fn func(string) error) {
		if err != nil {
			return
		}
		if v := os.Getenv(key); v != "" {
			if e := fn(v); e != nil {
				err = fmt.Errorf("%s: %w", key, e)
			}
		}
	}
	set("MAX_BODY_SIZE", intInto(&cfg.MaxBodyBytes))
	set("AUTH_ACCESS_TTL", durationInto(&cfg.Auth.AccessTTL))
	set("AUTH_CLOCK_SKEW", durationInto(&cfg.Auth.ClockSkew))
	set("ARGON2_MEMORY", uint32Into(&cfg.Argon2.Memory))
	set("ARGON2_ITER", uint32Into(&cfg.Argon2.Iterations))
	set("ARGON2_PAR", func(s string) error {
		n, e := strconv.ParseUint(s, 10, 8)
		cfg.Argon2.Parallelism = uint8(n)
		return e
	})
	set("MEDIA_USE_SSL", boolInto(&cfg.Media.UseSSL))
	set("MEDIA_PUBLIC_ACL", boolInto(&cfg.Media.PublicACL))
	set("MEDIA_MAX_IMAGE_BYTES", intInto(&cfg.Media.MaxImageBytes))
	set("MEDIA_MAX_DOCUMENT_BYTES", intInto(&cfg.Media.MaxDocumentBytes))
	set("MEDIA_DOWNLOAD_TTL", durationInto(&cfg.Media.DownloadTTL))
	return err
}

func intInto(dst *int64) func(string) error {
	return func(s string) error {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			*dst = n
		}
		return err
	}
}

func uint32Into(dst *uint32) func(string) error {
	return func(s string) error {
		n, err := strconv.ParseUint(s, 10, 32)
		if err == nil {
			*dst = uint32(n)
		}
		return err
	}
}

func durationInto(dst *time.Duration) func(string) error {
	return func(s string) error {
		d, err := time.ParseDuration(s)
		if err == nil {
			*dst = d
		}
		return err
	}
}

func boolInto(dst *bool) func(string) error {
	return func(s string) error {
		b, err := strconv.ParseBool(s)
		if err == nil {
			*dst = b
		}
		return err
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
