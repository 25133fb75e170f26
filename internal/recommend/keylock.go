// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"sync"

	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// keyLock serializes weight writes per (user, signal). Entries are
// reference counted and removed when the last holder unlocks.
type keyLock struct {
	mu    sync.Mutex
	locks map[storage.Key]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[storage.Key]*refMutex)}
}

// Lock blocks until k is held and returns the matching unlock.
func (l *keyLock) Lock(k storage.Key) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[k]
	if !ok {
		m = &refMutex{}
		l.locks[k] = m
	}
	m.refs++
	l.mu.Unlock()

	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, k)
		}
		l.mu.Unlock()
	}
}

// size returns the number of keys currently tracked.
func (l *keyLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
