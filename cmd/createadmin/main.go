package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/5w1tchy/novelia-api/internal/auth"
	"github.com/5w1tchy/novelia-api/internal/logging"
	"github.com/5w1tchy/novelia-api/internal/repository/sqlconnect"
	"github.com/5w1tchy/novelia-api/internal/security/password"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	username := flag.String("username", "", "username (defaults to the email local part)")
	pass := flag.String("password", "", "password (or $ADMIN_PASSWORD)")
	flag.Parse()

	_ = godotenv.Load()
	logging.Init(os.Getenv("LOG_LEVEL"))

	nu, plain, err := adminFromFlags(*email, *username, *pass, os.Getenv("ADMIN_PASSWORD"))
	if err == nil {
		err = run(nu, plain, os.Getenv("DATABASE_URL"))
	}
	if err != nil {
		slog.Error("createadmin failed", "err", err)
		os.Exit(1)
	}
}

func run(nu auth.NewUser, plain, dbURL string) error {
	if err := password.Validate(plain,
		password.Attribute{Name: "username", Value: nu.Username},
		password.Attribute{Name: "email address", Value: nu.Email},
	); err != nil {
		return fmt.Errorf("weak password: %s", strings.ReplaceAll(err.Error(), "\n", " "))
	}
	if dbURL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	var err error
	if nu.PasswordHash, err = password.Hash(plain); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlconnect.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	u, err := auth.NewSQLStore(db).UpsertAdmin(ctx, nu)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	slog.Info("admin ready", "user_id", u.ID, "email", u.Email, "username", u.Username)
	return nil
}

func adminFromFlags(email, username, flagPass, envPass string) (auth.NewUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return auth.NewUser{}, "", errors.New("-email is required")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	plain := flagPass
	if plain == "" {
		plain = envPass
	}
	if plain == "" {
		return auth.NewUser{}, "", errors.New("-password or ADMIN_PASSWORD is required")
	}
	return auth.NewUser{Email: email, Username: username}, plain, nil
}
