package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"order-desk/internal/core"

	"github.com/google/uuid"
)

// draftSession owns one in-progress draft. mu serialises every edit; submitting is
// held for the whole store call, which runs without mu. Edits are refused while it is set.
type draftSession struct {
	id string

	mu         sync.Mutex
	draft      *core.Draft
	catalog    map[int]core.ProductVariation
	editing    *core.PersistedOrder // nil for new orders
	mutability core.Mutability

	submitting atomic.Bool
	lastUsed   atomic.Int64 // unix nanos
}

func newDraftSession(d *core.Draft, catalog []core.ProductVariation) *draftSession {
	s := &draftSession{
		id:         uuid.NewString(),
		draft:      d,
		catalog:    make(map[int]core.ProductVariation, len(catalog)),
		mutability: core.Editable(),
	}
	for _, v := range catalog {
		s.catalog[v.ID] = v
	}
	s.touch()
	return s
}

func (s *draftSession) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

func (s *draftSession) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}

// sessionStore is a thread-safe in-memory store of draft sessions with TTL expiry.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*draftSession
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{sessions: make(map[string]*draftSession), ttl: ttl}
}

func (s *sessionStore) put(sess *draftSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
}

func (s *sessionStore) get(id string) (*draftSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess, time.Now()) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.touch()
	return sess, true
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// expired never evicts a session whose submission is still running.
func (s *sessionStore) expired(sess *draftSession, now time.Time) bool {
	return !sess.submitting.Load() && sess.idleSince(now) > s.ttl
}

func (s *sessionStore) purge(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// startPurge starts a background goroutine that evicts idle drafts every interval.
func (s *sessionStore) startPurge(ctx context.Context, interval time.Duration, onPurge func(int)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.purge(now); n > 0 && onPurge != nil {
					onPurge(n)
				}
			}
		}
	}()
}
