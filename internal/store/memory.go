// internal/store/memory.go
//
// In-memory store of active rounds.
// Rounds live here between HTTP requests; finished rounds are also written to
// the history database, so losing this map on restart only drops rounds that
// were still in progress.
//
// Characteristics:
//   - Entries keyed by round ID, each remembering its owner (user or anon id).
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sweep evicts entries idle for longer than a cutoff.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// ErrNotFound is returned by Get for unknown round IDs.
var ErrNotFound = errors.New("round not found")

// Entry is a stored round, who started it and how its codes are shown.
type Entry struct {
	Round   *game.Round
	Owner   string
	Palette string
	Touched time.Time // set by Save
}

// Store defines the persistence interface for active rounds.
type Store interface {
	// Save persists or updates an entry, keyed by its round ID.
	Save(ctx context.Context, e Entry) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Entry, error)

	// Delete forgets a round. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep removes rounds not touched since cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len is the number of stored rounds.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	rounds  map[string]Entry
	nowFunc func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]Entry), nowFunc: time.Now}
}

func (m *memory) Save(ctx context.Context, e Entry) error {
	if e.Round == nil {
		return errors.New("store: nil round")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Touched = m.nowFunc()
	m.rounds[e.Round.ID()] = e
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.rounds[id]; ok {
		return e, nil
	}
	return Entry{}, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.rounds {
		if e.Touched.Before(cutoff) {
			delete(m.rounds, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}
