package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/5w1tchy/novelia-api/internal/api/httpx"
	mw "github.com/5w1tchy/novelia-api/internal/api/middlewares"
	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/models"
	jwtutil "github.com/5w1tchy/novelia-api/internal/security/jwt"
	"github.com/5w1tchy/novelia-api/internal/security/password"
	"github.com/5w1tchy/novelia-api/internal/validate"
)

var errInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "Invalid credentials")

type Handler struct {
	Store   UserStore
	Signer  *jwtutil.Signer
	Revoked Revoker
	log     *slog.Logger
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type usersResponse struct {
	Count int           `json:"count"`
	Users []models.User `json:"users"`
}

func New(store UserStore, signer *jwtutil.Signer, revoked Revoker, log *slog.Logger) *Handler {
	return &Handler{Store: store, Signer: signer, Revoked: revoked, log: log}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(req); err != nil {
		httpx.WriteError(w, r, apperr.Wrap(apperr.ErrValidation, err.Error(), err))
		return
	}
	if req.Password != req.Password2 {
		httpx.WriteError(w, r, apperr.Validation("Password fields didn't match."))
		return
	}
	if err := password.Validate(req.Password,
		password.Attribute{Name: "username", Value: req.Username},
		password.Attribute{Name: "first name", Value: req.FirstName},
		password.Attribute{Name: "last name", Value: req.LastName},
		password.Attribute{Name: "email address", Value: req.Email},
	); err != nil {
		httpx.WriteError(w, r, apperr.Wrap(apperr.ErrValidation, strings.ReplaceAll(err.Error(), "\n", " "), err))
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	u, err := h.Store.CreateUser(r.Context(), NewUser{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		State:        strings.TrimSpace(req.State),
		City:         strings.TrimSpace(req.City),
		PasswordHash: hash,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	token, _, err := h.Signer.Sign(u.ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	h.log.Info("user registered", slog.Int64("user_id", u.ID))
	httpx.WriteJSON(w, http.StatusCreated, authResponse{Message: "User registered successfully", Token: token, User: u})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		httpx.WriteError(w, r, apperr.Wrap(apperr.ErrValidation, err.Error(), err))
		return
	}

	u, err := h.Store.FindUserByEmail(r.Context(), req.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		httpx.WriteError(w, r, errInvalidCredentials)
		return
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	ok, needsRehash, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		httpx.WriteError(w, r, errInvalidCredentials)
		return
	}
	if needsRehash {
		if phc, err := password.Hash(req.Password); err == nil {
			if err := h.Store.UpdateUserPasswordHash(r.Context(), u.ID, phc); err != nil {
				httpx.LoggerFrom(r.Context()).Warn("password rehash failed", slog.Int64("user_id", u.ID), slog.Any("err", err))
			}
		}
	}

	token, _, err := h.Signer.Sign(u.ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authResponse{Message: "Login successful", Token: token, User: u})
}

// Logout revokes the token that authenticated this request.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.PrincipalFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}
	if err := h.Revoked.Revoke(r.Context(), p.TokenID, p.ExpiresAt); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Successfully logged out.")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.PrincipalFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.ErrUnauthorized)
		return
	}
	u, err := h.Store.FindUserByID(r.Context(), p.UserID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, usersResponse{Count: len(users), Users: users})
}
