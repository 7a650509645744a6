// Package notify provides sinks for short user-facing notifications.
package notify

import (
	"sync"
	"time"

	"github.com/ryanm101/gameswiki/internal/logging"
)

// Toast is one notification.
type Toast struct {
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// Sink receives notifications.
type Sink interface {
	Notify(title, body string)
}

// Func adapts a function to Sink.
type Func func(title, body string)

// Notify calls f.
func (f Func) Notify(title, body string) { f(title, body) }

// Log writes notifications to the structured logger.
type Log struct{}

// Notify logs the notification at info level.
func (Log) Notify(title, body string) {
	logging.Info("notification", "title", title, "body", body)
}

// Multi fans one notification out to several sinks. Nil sinks are skipped.
type Multi []Sink

// Notify forwards to every sink in order.
func (m Multi) Notify(title, body string) {
	for _, s := range m {
		if s != nil {
			s.Notify(title, body)
		}
	}
}

// DefaultCapacity is the number of toasts a Buffer keeps before dropping the oldest.
const DefaultCapacity = 32

// Buffer keeps the most recent notifications until they are drained.
type Buffer struct {
	mu     sync.Mutex
	toasts []Toast
	limit  int
	now    func() time.Time
}

// NewBuffer creates a Buffer holding at most capacity toasts.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{limit: capacity, now: time.Now}
}

// Notify appends a toast, evicting the oldest when full.
func (b *Buffer) Notify(title, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.toasts) == b.limit {
		copy(b.toasts, b.toasts[1:])
		b.toasts = b.toasts[:len(b.toasts)-1]
	}
	b.toasts = append(b.toasts, Toast{Title: title, Body: body, At: b.now()})
}

// Drain returns buffered toasts oldest first and empties the buffer.
func (b *Buffer) Drain() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.toasts
	b.toasts = nil
	if out == nil {
		return []Toast{}
	}
	return out
}

// Len returns the number of pending toasts.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.toasts)
}

// Latest returns the newest toast without removing it.
func (b *Buffer) Latest() (Toast, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.toasts) == 0 {
		return Toast{}, false
	}
	return b.toasts[len(b.toasts)-1], true
}
