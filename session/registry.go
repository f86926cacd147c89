// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"sync"

	"github.com/danielhkuo/peerscreen/ids"
	"github.com/danielhkuo/peerscreen/store"
)

var ErrRunNotFound = errors.New("run not found")

// Registry holds every live run, keyed by share slug.
type Registry struct {
	mu       sync.RWMutex
	runs     map[string]*Session
	salt     string
	newStore store.Factory
}

// NewRegistry creates a registry whose runs take their stores from newStore
// unless Options names another factory.
func NewRegistry(salt string, newStore store.Factory) *Registry {
	if newStore == nil {
		newStore = store.MemoryFactory()
	}
	return &Registry{
		runs:     make(map[string]*Session),
		salt:     salt,
		newStore: newStore,
	}
}

// Create starts a new run in the registration phase under a fresh share
// slug. Options.Slug is ignored.
func (r *Registry) Create(opts Options) *Session {
	if opts.NewStore == nil {
		opts.NewStore = r.newStore
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		opts.Slug = ids.ShareSlug(ids.NewRunID(), r.salt)
		if _, taken := r.runs[opts.Slug]; !taken {
			break
		}
	}

	s := New(opts)
	r.runs[s.Slug()] = s
	return s
}

func (r *Registry) Get(slug string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.runs[slug]
	if !ok {
		return nil, ErrRunNotFound
	}
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}
