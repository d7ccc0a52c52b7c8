package snapshot

import (
	"sync"
	"testing"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(key int64, doc string) *Snapshot {
	ws := workspace.New(workspace.Contents{Experiments: []model.Experiment{{ID: key, Key: key}}})
	return New(ws, []byte(doc))
}

func TestETag_Deterministic(t *testing.T) {
	assert.Equal(t, ETag([]byte(`{"experiments":[]}`)), ETag([]byte(`{"experiments":[]}`)))
	assert.NotEqual(t, ETag([]byte(`{"experiments":[]}`)), ETag([]byte(`{"featureFlags":[]}`)))
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, ETag(nil))
}

func TestHolder_LoadBeforeUpdate(t *testing.T) {
	h := NewHolder()
	s, ok := h.Load()
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestHolder_Update(t *testing.T) {
	h := NewHolder()
	first := testSnapshot(1, "v1")

	require.True(t, h.Update(first))
	got, ok := h.Load()
	require.True(t, ok)
	assert.Same(t, first, got)

	assert.False(t, h.Update(testSnapshot(2, "v1")), "same document should not replace the snapshot")
	got, _ = h.Load()
	assert.Same(t, first, got)

	second := testSnapshot(2, "v2")
	assert.True(t, h.Update(second))
	got, _ = h.Load()
	assert.Same(t, second, got)

	assert.False(t, h.Update(nil))
}

func TestHolder_SubscribeReceivesETag(t *testing.T) {
	h := NewHolder()
	updates, unsub := h.Subscribe()
	defer unsub()

	s := testSnapshot(1, "v1")
	h.Update(s)
	assert.Equal(t, s.ETag, <-updates)
}

func TestHolder_PublishNonBlocking(t *testing.T) {
	h := NewHolder()
	updates, unsub := h.Subscribe()
	defer unsub()

	// The buffer holds one ETag; later ones are dropped for a slow listener.
	h.Update(testSnapshot(1, "v1"))
	h.Update(testSnapshot(2, "v2"))
	h.Update(testSnapshot(3, "v3"))

	assert.Equal(t, ETag([]byte("v1")), <-updates)
	select {
	case etag := <-updates:
		t.Fatalf("unexpected buffered etag %s", etag)
	default:
	}
}

func TestHolder_Unsubscribe(t *testing.T) {
	h := NewHolder()
	updates, unsub := h.Subscribe()
	unsub()
	unsub() // idempotent

	_, ok := <-updates
	assert.False(t, ok, "channel should be closed")

	assert.NotPanics(t, func() { h.Update(testSnapshot(1, "v1")) })
}

func TestHolder_ConcurrentReaders(t *testing.T) {
	h := NewHolder()
	h.Update(testSnapshot(1, "v1"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s, ok := h.Load()
				if !ok || s.Workspace == nil {
					t.Error("reader observed an empty snapshot")
					return
				}
			}
		}()
	}
	for i := 2; i < 50; i++ {
		h.Update(testSnapshot(int64(i), string(rune('a'+i))))
	}
	wg.Wait()
}
