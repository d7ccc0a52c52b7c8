// Package snapshot holds the workspace the SDK currently decides against.
// The workspace is replaced wholesale; readers load one snapshot per call and
// never observe a partial update.
package snapshot

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"
	"github.com/cespare/xxhash/v2"
)

type Snapshot struct {
	ETag      string          `json:"etag"`
	Workspace model.Workspace `json:"-"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// New wraps a workspace parsed from document. The ETag fingerprints the raw
// document, so republishing identical configuration keeps the same ETag.
func New(ws model.Workspace, document []byte) *Snapshot {
	return &Snapshot{
		ETag:      ETag(document),
		Workspace: ws,
		UpdatedAt: time.Now().UTC(),
	}
}

// ETag returns a weak entity tag for a workspace document.
func ETag(document []byte) string {
	return fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(document))
}

// Holder publishes the current snapshot to concurrent readers.
type Holder struct {
	current atomic.Pointer[Snapshot]
	subs    subscribers
}

func NewHolder() *Holder {
	return &Holder{subs: newSubscribers()}
}

// Load returns the current snapshot; ok is false until the first Update.
func (h *Holder) Load() (*Snapshot, bool) {
	s := h.current.Load()
	return s, s != nil
}

// Update swaps in s and notifies subscribers. It reports false and keeps the
// current snapshot when s carries the same ETag.
func (h *Holder) Update(s *Snapshot) bool {
	if s == nil {
		return false
	}
	for {
		old := h.current.Load()
		if old != nil && old.ETag == s.ETag {
			return false
		}
		if h.current.CompareAndSwap(old, s) {
			break
		}
	}
	h.subs.publish(s.ETag)
	return true
}

// Subscribe registers a listener for new ETags and returns its channel and an
// unsubscribe func.
func (h *Holder) Subscribe() (<-chan string, func()) {
	return h.subs.subscribe()
}
