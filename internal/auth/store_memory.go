package auth

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/5w1tchy/novelia-api/internal/apperr"
	"github.com/5w1tchy/novelia-api/internal/models"
)

// MemoryStore is the users table for STORE_DRIVER=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  []models.User
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

func (m *MemoryStore) CreateUser(_ context.Context, nu NewUser) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(nu)
}

func (m *MemoryStore) insertLocked(nu NewUser) (models.User, error) {
	for _, u := range m.users {
		if u.Email == nu.Email {
			return models.User{}, apperr.Validation("user with this email already exists.")
		}
		if u.Username == nu.Username {
			return models.User{}, apperr.Validation("A user with that username already exists.")
		}
	}
	now := m.now().UTC()
	u := models.User{
		ID:           m.nextID,
		Email:        nu.Email,
		Username:     nu.Username,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		PhoneNumber:  nu.PhoneNumber,
		State:        nu.State,
		City:         nu.City,
		PasswordHash: nu.PasswordHash,
		IsStaff:      nu.IsStaff,
		IsSuperuser:  nu.IsSuperuser,
		DateJoined:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextID++
	m.users = append(m.users, u)
	return u, nil
}

func (m *MemoryStore) find(match func(models.User) bool) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := slices.IndexFunc(m.users, match); i >= 0 {
		return m.users[i], nil
	}
	return models.User{}, ErrUserNotFound
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *MemoryStore) FindUserByID(_ context.Context, id int64) (models.User, error) {
	return m.find(func(u models.User) bool { return u.ID == id })
}

func (m *MemoryStore) UpdateUserPasswordHash(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].PasswordHash = hash
			m.users[i].UpdatedAt = m.now().UTC()
			return nil
		}
	}
	return ErrUserNotFound
}

func (m *MemoryStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.RLock()
	out := slices.Clone(m.users)
	m.mu.RUnlock()
	// ids grow with insertion time, so newest first is descending id
	slices.Reverse(out)
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

func (m *MemoryStore) UpsertAdmin(_ context.Context, nu NewUser) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == nu.Email {
			m.users[i].PasswordHash = nu.PasswordHash
			m.users[i].IsStaff = true
			m.users[i].IsSuperuser = true
			m.users[i].UpdatedAt = m.now().UTC()
			return m.users[i], nil
		}
	}
	nu.IsStaff, nu.IsSuperuser = true, true
	return m.insertLocked(nu)
}
