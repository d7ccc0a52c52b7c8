package snapshot

import (
	"sync"
)

type subCh = chan string // carries new ETags

type subscribers struct {
	mu   *sync.Mutex
	subs map[subCh]struct{}
}

func newSubscribers() subscribers {
	return subscribers{mu: &sync.Mutex{}, subs: make(map[subCh]struct{})}
}

func (s subscribers) subscribe() (<-chan string, func()) {
	ch := make(subCh, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, unsub
}

// publish notifies all listeners (non-blocking).
func (s subscribers) publish(etag string) {
	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- etag:
		default: // slow listener, skip instead of blocking
		}
	}
	s.mu.Unlock()
}
