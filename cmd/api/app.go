package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/5w1tchy/novelia-api/internal/api/handlers/books"
	"github.com/5w1tchy/novelia-api/internal/api/router"
	"github.com/5w1tchy/novelia-api/internal/auth"
	"github.com/5w1tchy/novelia-api/internal/catalog"
	"github.com/5w1tchy/novelia-api/internal/config"
	"github.com/5w1tchy/novelia-api/internal/media"
	"github.com/5w1tchy/novelia-api/internal/repository/redisconnect"
	"github.com/5w1tchy/novelia-api/internal/repository/sqlconnect"
	jwtutil "github.com/5w1tchy/novelia-api/internal/security/jwt"
	"github.com/5w1tchy/novelia-api/internal/security/password"
	"github.com/5w1tchy/novelia-api/internal/storage/minio"
	"github.com/5w1tchy/novelia-api/internal/storage/s3"
	bookstore "github.com/5w1tchy/novelia-api/internal/store/books"
)

// app is the wired HTTP handler plus everything that must be closed on exit.
type app struct {
	handler http.Handler
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	password.Configure(password.Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})

	var (
		bookRepo catalog.Repository
		users    auth.UserStore
		ready    func(context.Context) error
	)
	switch cfg.StoreDriver {
	case "postgres":
		db, err := sqlconnect.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		a.closers = append(a.closers, db)
		bookRepo = bookstore.NewSQL(db)
		users = auth.NewSQLStore(db)
		ready = db.PingContext
	default:
		log.Warn("using in-memory store; data is lost on restart")
		bookRepo = bookstore.NewMemory()
		users = auth.NewMemoryStore()
	}

	revoked, err := newRevoker(ctx, cfg.Redis, log, a)
	if err != nil {
		return nil, err
	}

	objects, err := newObjectStore(ctx, cfg.Media)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}
	mediaClient := media.NewClient(objects, media.Options{
		PublicBaseURL:    cfg.Media.PublicBaseURL,
		MaxImageBytes:    cfg.Media.MaxImageBytes,
		MaxDocumentBytes: cfg.Media.MaxDocumentBytes,
	}, log)

	signer := jwtutil.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.ClockSkew)

	a.handler = router.Router(router.Deps{
		Books:        books.New(catalog.NewService(bookRepo, mediaClient, cfg.Media.DownloadTTL, log)),
		Auth:         auth.New(users, signer, revoked, log),
		Authn:        auth.NewAuthenticator(signer, revoked, users),
		Log:          log,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Ready:        ready,
	})
	return a, nil
}

func newRevoker(ctx context.Context, cfg config.RedisConfig, log *slog.Logger, a *app) (auth.Revoker, error) {
	rdb, err := redisconnect.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if rdb == nil {
		log.Warn("no Redis configured; token revocation is process-local")
		return auth.NewMemoryRevoker(), nil
	}
	a.closers = append(a.closers, rdb)
	return auth.NewRedisRevoker(rdb), nil
}

func newObjectStore(ctx context.Context, cfg config.MediaConfig) (media.ObjectStore, error) {
	switch cfg.Driver {
	case "minio":
		return minio.NewStore(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
	case "s3":
		return s3.New(ctx, s3.Options{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			PublicACL: cfg.PublicACL,
			PathStyle: cfg.Endpoint != "",
		})
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}
