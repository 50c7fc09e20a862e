package domain

import (
	"context"
	"sync"
	"time"
)

// Session binds one browser client to its ViewState and pending notices.
type Session struct {
	ID        string
	State     *ViewState
	Notices   *NoticeBoard
	CreatedAt time.Time
}

// NewSession creates an idle session.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		State:     NewViewState(),
		Notices:   &NoticeBoard{},
		CreatedAt: time.Now(),
	}
}

// NoticeBoard queues notices until the next render drains them.
type NoticeBoard struct {
	mu      sync.Mutex
	pending []Notice
}

// Notify implements Notifier.
func (b *NoticeBoard) Notify(ctx context.Context, notice Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, notice)
}

// Drain returns and clears the queued notices.
func (b *NoticeBoard) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	notices := b.pending
	b.pending = nil
	if notices == nil {
		return []Notice{}
	}
	return notices
}
