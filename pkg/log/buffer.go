package log

import (
	"fmt"
	"io"
	"sync"
)

const defaultBufferCapacity = 100

// CircularBuffer is a thread-safe [io.Writer] that keeps the most recent
// writes, overwriting the oldest once capacity is reached. Each Write is one
// entry, which matches how [slog.Handler]s emit records.
type CircularBuffer struct {
	entries  [][]byte
	capacity int
	head     int
	size     int
	mu       sync.RWMutex
}

// NewCircularBuffer creates a buffer holding at most capacity entries.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}

	return &CircularBuffer{
		entries:  make([][]byte, capacity),
		capacity: capacity,
	}
}

// Write stores a copy of p as a new entry.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := make([]byte, len(p))
	copy(entry, p)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.entries[cb.head] = entry
	cb.head = (cb.head + 1) % cb.capacity

	if cb.size < cb.capacity {
		cb.size++
	}

	return len(p), nil
}

// Entries returns copies of the current entries, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if cb.size == 0 {
		return nil
	}

	start := 0
	if cb.size == cb.capacity {
		start = cb.head
	}

	result := make([][]byte, 0, cb.size)
	for i := range cb.size {
		src := cb.entries[(start+i)%cb.capacity]
		entry := make([]byte, len(src))
		copy(entry, src)

		result = append(result, entry)
	}

	return result
}

// Size returns the current number of entries.
func (cb *CircularBuffer) Size() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.size
}

func (cb *CircularBuffer) Capacity() int {
	return cb.capacity
}

// IsFull reports whether older entries have started to be overwritten.
func (cb *CircularBuffer) IsFull() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.size == cb.capacity
}

// WriteTo writes all entries to w, oldest first.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, entry := range cb.Entries() {
		written, err := w.Write(entry)
		total += int64(written)

		if err != nil {
			return total, fmt.Errorf("writing entry: %w", err)
		}
	}

	return total, nil
}
