package app

import (
	"testing"
	"time"

	"order-desk/internal/core"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_Purge(t *testing.T) {
	store := newSessionStore(time.Minute)
	idle := newDraftSession(core.NewDraft(core.Customer{ID: 1}, nil, nil), nil)
	busy := newDraftSession(core.NewDraft(core.Customer{ID: 1}, nil, nil), nil)
	fresh := newDraftSession(core.NewDraft(core.Customer{ID: 1}, nil, nil), nil)
	store.put(idle)
	store.put(busy)
	store.put(fresh)

	past := time.Now().Add(-2 * time.Minute).UnixNano()
	idle.lastUsed.Store(past)
	busy.lastUsed.Store(past)
	busy.submitting.Store(true)

	assert.Equal(t, 1, store.purge(time.Now()))
	assert.Equal(t, 2, store.len())

	_, ok := store.get(idle.id)
	assert.False(t, ok)
	_, ok = store.get(busy.id)
	assert.True(t, ok, "a submitting draft is never evicted")
}

func TestSessionStore_GetExpires(t *testing.T) {
	store := newSessionStore(time.Minute)
	sess := newDraftSession(core.NewDraft(core.Customer{ID: 1}, nil, nil), nil)
	store.put(sess)

	_, ok := store.get(sess.id)
	assert.True(t, ok)

	sess.lastUsed.Store(time.Now().Add(-time.Hour).UnixNano())
	_, ok = store.get(sess.id)
	assert.False(t, ok)
	assert.Zero(t, store.len())
}
