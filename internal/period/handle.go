package period

import (
	"errors"
	"sync"
)

var errHandleClosed = errors.New("period store handle is closed")

// Handle holds the one Store a process shares. The database is opened on
// the first call to Store and reused after that.
type Handle struct {
	path string
	opts []Option

	once   sync.Once
	mu     sync.Mutex
	store  *Store
	err    error
	closed bool
}

// NewHandle returns a handle that will open path on first use.
func NewHandle(path string, opts ...Option) *Handle {
	return &Handle{path: path, opts: opts}
}

// Store opens the database on first use and returns the shared store.
// A failed open is remembered and returned on every later call.
func (h *Handle) Store() (*Store, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, errHandleClosed
	}

	h.once.Do(func() {
		h.store, h.err = NewStore(h.path, h.opts...)
	})
	return h.store, h.err
}

// Path returns the database path the handle opens.
func (h *Handle) Path() string {
	return h.path
}

// Close closes the shared store if it was opened. Later calls to Store
// fail.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	// Prevent a concurrent first Store call from opening after close.
	h.once.Do(func() { h.err = errHandleClosed })
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}
