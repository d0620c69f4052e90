package app

import (
	"sync"

	"github.com/ayusman/airkeys/internal/engine"
)

// subscriberBuffer is how many snapshots a subscriber may fall behind
// before the oldest pending one is dropped.
const subscriberBuffer = 16

// broadcaster fans snapshots out to subscribers.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[chan engine.Snapshot]struct{}
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan engine.Snapshot]struct{})}
}

func (b *broadcaster) subscribe() (<-chan engine.Snapshot, func()) {
	ch := make(chan engine.Snapshot, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		})
	}
}

func (b *broadcaster) publish(snap engine.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the oldest pending snapshot and retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// close ends every subscription; later subscribers get a closed channel.
func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *broadcaster) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
