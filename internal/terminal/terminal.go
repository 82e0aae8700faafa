package terminal

import (
	"sync"

	"github.com/google/uuid"
)

// replayBufferSize bounds how much transcript late subscribers can recover
const replayBufferSize = 256 * 1024

// Terminal is the shared, append-only output sink for one preview panel
type Terminal struct {
	mu     sync.RWMutex
	replay *circularBuffer
	subs   map[string]chan []byte
}

// New creates an empty terminal
func New() *Terminal {
	return &Terminal{
		replay: newCircularBuffer(replayBufferSize),
		subs:   make(map[string]chan []byte),
	}
}

// Write appends raw output, fanning it out to all subscribers.
// Slow subscribers drop chunks rather than block the writer; the replay
// buffer still holds what they missed.
func (t *Terminal) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	chunk := make([]byte, len(p))
	copy(chunk, p)

	t.mu.Lock()
	t.replay.write(chunk)
	for _, sub := range t.subs {
		select {
		case sub <- chunk:
		default:
		}
	}
	t.mu.Unlock()

	return len(p), nil
}

// WriteString appends a string
func (t *Terminal) WriteString(s string) {
	t.Write([]byte(s))
}

// Subscribe returns a channel of output chunks plus the replay of recent
// transcript. Cancel must be called when the subscriber goes away.
func (t *Terminal) Subscribe() (replay []byte, ch <-chan []byte, cancel func()) {
	sub := make(chan []byte, 256)
	id := uuid.New().String()

	t.mu.Lock()
	replay = t.replay.snapshot()
	t.subs[id] = sub
	t.mu.Unlock()

	return replay, sub, func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// Snapshot returns the replay buffer's current contents
func (t *Terminal) Snapshot() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.replay.snapshot()
}

// circularBuffer is a fixed-capacity byte ring keeping the newest data
type circularBuffer struct {
	data []byte
	size int
	head int
	tail int
	full bool
}

func newCircularBuffer(size int) *circularBuffer {
	return &circularBuffer{data: make([]byte, size), size: size}
}

func (b *circularBuffer) write(p []byte) {
	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size
		if b.full {
			b.head = b.tail
		}
		if b.tail == b.head {
			b.full = true
		}
	}
}

// snapshot copies out the buffered bytes, oldest first, without consuming
func (b *circularBuffer) snapshot() []byte {
	if !b.full && b.head == b.tail {
		return nil
	}

	if !b.full && b.tail > b.head {
		out := make([]byte, b.tail-b.head)
		copy(out, b.data[b.head:b.tail])
		return out
	}

	first := b.data[b.head:]
	second := b.data[:b.tail]
	out := make([]byte, len(first)+len(second))
	copy(out, first)
	copy(out[len(first):], second)
	return out
}
