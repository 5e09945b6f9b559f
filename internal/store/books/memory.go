package books

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/5w1tchy/novelia-api/internal/models"
)

// Memory is an in-process store for local runs and tests. Books are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	books  map[int64]models.Book
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{books: map[int64]models.Book{}, now: func() time.Time { return time.Now().UTC() }}
}

func (m *Memory) List(_ context.Context, f models.BookFilter) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Book{}
	for _, b := range m.books {
		if f.Match(b) {
			out = append(out, clone(b))
		}
	}
	slices.SortFunc(out, func(a, b models.Book) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (m *Memory) Get(_ context.Context, id int64) (models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return models.Book{}, errBookNotFound
	}
	return clone(b), nil
}

func (m *Memory) Insert(_ context.Context, b *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := m.now()
	b.ID, b.CreatedAt, b.UpdatedAt = m.nextID, now, now
	m.books[b.ID] = clone(*b)
	return nil
}

func (m *Memory) Update(_ context.Context, b *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.books[b.ID]
	if !ok {
		return errBookNotFound
	}
	b.CreatedAt, b.UpdatedAt = old.CreatedAt, m.now()
	m.books[b.ID] = clone(*b)
	return nil
}

func (m *Memory) Delete(_ context.Context, id int64) (models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return models.Book{}, errBookNotFound
	}
	delete(m.books, id)
	return b, nil
}

// clone copies asset pointers so callers cannot mutate stored books.
func clone(b models.Book) models.Book {
	if b.Cover != nil {
		c := *b.Cover
		b.Cover = &c
	}
	if b.PDF != nil {
		p := *b.PDF
		b.PDF = &p
	}
	return b
}
