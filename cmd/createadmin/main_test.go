package main

import (
	"strings"
	"testing"

	"github.com/5w1tchy/novelia-api/internal/auth"
)

func TestAdminFromFlags(t *testing.T) {
	nu, plain, err := adminFromFlags(" Root@Example.com ", "", "", "from-env-pass")
	if err != nil {
		t.Fatal(err)
	}
	if nu.Email != "root@example.com" || nu.Username != "root" || plain != "from-env-pass" {
		t.Fatalf("unexpected: %+v %q", nu, plain)
	}

	nu, plain, err = adminFromFlags("a@b.io", "boss", "flag-pass", "env-pass")
	if err != nil || nu.Username != "boss" || plain != "flag-pass" {
		t.Fatalf("flag password should win: %+v %q %v", nu, plain, err)
	}

	if _, _, err := adminFromFlags("", "x", "p", ""); err == nil {
		t.Fatal("expected missing email error")
	}
	if _, _, err := adminFromFlags("a@b.io", "", "", ""); err == nil {
		t.Fatal("expected missing password error")
	}
}

func TestRun_FailsBeforeTouchingTheDatabase(t *testing.T) {
	nu := auth.NewUser{Email: "root@example.com", Username: "root"}

	err := run(nu, "123456", "postgres://unused")
	if err == nil || !strings.Contains(err.Error(), "weak password") {
		t.Fatalf("want weak password error, got %v", err)
	}

	err = run(nu, "Umuofia-drums-1958", "")
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("want DATABASE_URL error, got %v", err)
	}
}
