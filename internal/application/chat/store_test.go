package chat

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SnapshotCreatesSession(t *testing.T) {
	store := NewSessionStore(5)

	history, created := store.Snapshot("u1")
	assert.Empty(t, history)
	assert.True(t, created)
	assert.Equal(t, 1, store.Len())

	_, created = store.Snapshot("u1")
	assert.False(t, created)
}

func TestSessionStore_AppendAndHistory(t *testing.T) {
	store := NewSessionStore(5)

	store.Append("u1", "q1", "a1")
	store.Append("u1", "q2", "a2")

	history, ok := store.History("u1")
	require.True(t, ok)
	require.Len(t, history, 2)
	assert.Equal(t, "q1", history[0].Question)
	assert.Equal(t, "a2", history[1].Answer)
}

func TestSessionStore_HistoryMissingUser(t *testing.T) {
	store := NewSessionStore(5)

	_, ok := store.History("ghost")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "History 不应创建会话")
}

func TestSessionStore_UsersAreIsolated(t *testing.T) {
	store := NewSessionStore(5)

	store.Append("u1", "q1", "a1")
	store.Append("u2", "qx", "ax")

	h1, _ := store.History("u1")
	h2, _ := store.History("u2")
	require.Len(t, h1, 1)
	require.Len(t, h2, 1)
	assert.Equal(t, "q1", h1[0].Question)
	assert.Equal(t, "qx", h2[0].Question)
}

func TestSessionStore_ClearKeepsSession(t *testing.T) {
	store := NewSessionStore(5)

	store.Append("u1", "q1", "a1")
	assert.True(t, store.Clear("u1"))

	history, ok := store.History("u1")
	require.True(t, ok, "清空后会话应保持存活")
	assert.Empty(t, history)

	assert.False(t, store.Clear("ghost"))
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(5)

	store.Append("u1", "q1", "a1")
	assert.True(t, store.Delete("u1"))
	assert.False(t, store.Delete("u1"))

	_, ok := store.History("u1")
	assert.False(t, ok)
}

func TestSessionStore_ActiveUserIDs(t *testing.T) {
	store := NewSessionStore(5)

	store.Append("u1", "q", "a")
	store.Append("u2", "q", "a")

	ids := store.ActiveUserIDs()
	assert.ElementsMatch(t, []string{"u1", "u2"}, ids)
}

func TestSessionStore_ConcurrentSameUser(t *testing.T) {
	store := NewSessionStore(1000)

	const goroutines = 50
	var createdCount atomic.Int32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if _, created := store.Snapshot("u1"); created {
				createdCount.Add(1)
			}
			store.Append("u1", "q", "a")
		}()
	}
	wg.Wait()

	// 并发下只应创建一个会话，恰有一次 created=true，且不丢失任何追加
	assert.Equal(t, int32(1), createdCount.Load())
	assert.Equal(t, 1, store.Len())
	history, _ := store.History("u1")
	assert.Len(t, history, goroutines)
}

func TestSessionStore_ConcurrentDistinctUsers(t *testing.T) {
	store := NewSessionStore(5)

	const goroutines = 20
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		id := string(rune('a' + i))
		go func() {
			defer wg.Done()
			store.Append(id, "q", "a")
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, store.Len())
}
