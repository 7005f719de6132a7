package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/prokizzle/feeling-mindful-website/internal/idx"
)

// Stored is a document as persisted by the in-memory backend.
type Stored struct {
	ID         string
	Collection string
	Data       Document
	CreatedAt  time.Time
}

// Memory keeps documents in process. It backs local development and tests.
type Memory struct {
	mu      sync.RWMutex
	docs    map[string][]Stored
	failErr error
	now     func() time.Time
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]Stored), now: time.Now}
}

// Create appends doc to collection.
func (m *Memory) Create(_ context.Context, collection string, doc Document) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return "", m.failErr
	}

	now := m.now().UTC()
	stored := Stored{
		ID:         idx.NewAt(now),
		Collection: collection,
		Data:       resolve(doc, now),
		CreatedAt:  now,
	}
	m.docs[collection] = append(m.docs[collection], stored)
	return stored.ID, nil
}

// Documents returns a copy of everything written to collection, oldest first.
func (m *Memory) Documents(collection string) []Stored {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.docs[collection]
	out := make([]Stored, len(src))
	for i, s := range src {
		data := make(Document, len(s.Data))
		for k, v := range s.Data {
			data[k] = v
		}
		s.Data = data
		out[i] = s
	}
	return out
}

// FailWith makes every subsequent Create return err. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Ping reports the configured failure, if any.
func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failErr
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
