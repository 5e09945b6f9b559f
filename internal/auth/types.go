package auth

import (
	"context"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/models"
)

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Username    string `json:"username" validate:"required,notblank,max=150"`
	FirstName   string `json:"first_name" validate:"required,notblank,max=150"`
	LastName    string `json:"last_name" validate:"required,notblank,max=150"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=15"`
	State       string `json:"state" validate:"omitempty,max=50"`
	City        string `json:"city" validate:"omitempty,max=50"`
	Password    string `json:"password" validate:"required"`
	Password2   string `json:"password2" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NewUser is what the store persists on signup.
type NewUser struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PhoneNumber  string
	State        string
	City         string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
}

var ErrUserNotFound = apperr.NotFound("User not found")

// UserStore keeps DB details out of the handlers.
type UserStore interface {
	CreateUser(ctx context.Context, u NewUser) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	UpdateUserPasswordHash(ctx context.Context, id int64, hash string) error
	// ListUsers returns every user, newest first.
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpsertAdmin creates or promotes a staff superuser keyed by email.
	UpsertAdmin(ctx context.Context, u NewUser) (models.User, error)
}
