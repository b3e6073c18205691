package natsbridge

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// dedupWindow remembers the hashes of the most recently delivered messages
// in a fixed-size ring. When the ring wraps, the oldest hash is forgotten
// and the message becomes deliverable again.
type dedupWindow struct {
	mu   sync.Mutex
	ring []uint64
	seen map[uint64]struct{}
	next int
	full bool
}

func newDedupWindow(size int) *dedupWindow {
	return &dedupWindow{
		ring: make([]uint64, size),
		seen: make(map[uint64]struct{}, size),
	}
}

// hashMessage hashes a message identity as subject, a zero separator, then
// the payload, so "a.b"+"c" and "a"+"b.c" never collide structurally.
func hashMessage(subject string, payload []byte) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(subject)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(payload)

	return h.Sum64()
}

// observe records a message identity and reports whether it was already
// present in the window.
func (w *dedupWindow) observe(subject string, payload []byte) bool {
	h := hashMessage(subject, payload)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, dup := w.seen[h]; dup {
		return true
	}

	if w.full {
		delete(w.seen, w.ring[w.next])
	}
	w.ring[w.next] = h
	w.seen[h] = struct{}{}
	w.next++
	if w.next == len(w.ring) {
		w.next = 0
		w.full = true
	}

	return false
}
