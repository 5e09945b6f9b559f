package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate fails fast on bad config.
func (c Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters")
	}
	if c.Auth.AccessTTL <= 0 {
		return fmt.Errorf("AUTH_ACCESS_TTL: invalid duration %s", c.Auth.AccessTTL)
	}

	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}

	// Argon2 lower bounds
	if c.Argon2.Memory < 65536 {
		return errors.New("ARGON2_MEMORY: must be >= 65536")
	}
	if c.Argon2.Iterations < 2 {
		return errors.New("ARGON2_ITER: must be >= 2")
	}
	if c.Argon2.Parallelism < 1 {
		return errors.New("ARGON2_PAR: must be >= 1")
	}

	switch c.Media.Driver {
	case "s3", "minio":
	default:
		return fmt.Errorf("MEDIA_DRIVER: unknown driver %q", c.Media.Driver)
	}
	if c.Media.Bucket == "" {
		return errors.New("MEDIA_BUCKET is required")
	}
	if c.Media.PublicBaseURL == "" {
		return errors.New("MEDIA_PUBLIC_BASE_URL is required")
	}
	if c.Media.Driver == "minio" && c.Media.Endpoint == "" {
		return errors.New("MEDIA_ENDPOINT is required for minio")
	}
	if c.Media.MaxImageBytes <= 0 || c.Media.MaxDocumentBytes <= 0 {
		return errors.New("MEDIA_MAX_*_BYTES must be positive")
	}
	if c.Media.DownloadTTL <= 0 {
		return errors.New("MEDIA_DOWNLOAD_TTL must be positive")
	}
	if c.MaxBodyBytes < c.Media.MaxImageBytes+c.Media.MaxDocumentBytes {
		return errors.New("MAX_BODY_SIZE must fit one image and one document")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings you may want to log on startup.
func (c Config) HardeningWarnings() []string {
	var warns []string

	if c.Auth.AccessTTL > 7*24*time.Hour {
		warns = append(warns, fmt.Sprintf("AUTH_ACCESS_TTL=%s is > 7d; consider shorter tokens", c.Auth.AccessTTL))
	}
	if c.Media.DownloadTTL > time.Hour {
		warns = append(warns, fmt.Sprintf("MEDIA_DOWNLOAD_TTL=%s is > 1h; download links outlive their intent", c.Media.DownloadTTL))
	}

	if strings.EqualFold(c.Env, "production") {
		if c.StoreDriver == "memory" {
			warns = append(warns, "STORE_DRIVER=memory loses every book on restart")
		}
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			warns = append(warns, "no Redis configured; logout cannot revoke tokens before they expire")
		}
		if u := c.Redis.URL; u != "" && strings.HasPrefix(u, "redis://") {
			warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if c.Redis.URL == "" && c.Redis.Addr != "" && (c.Redis.User == "" || c.Redis.Password == "") {
			warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
		}
		if c.TLSCert == "" {
			warns = append(warns, "TLS_CERT not set; serve behind a TLS-terminating proxy")
		}
		if !c.Media.UseSSL {
			warns = append(warns, "MEDIA_USE_SSL=false; media traffic is unencrypted")
		}
	}
	return warns
}
