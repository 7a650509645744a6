package session

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/ryanm101/gameswiki/internal/games"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) InstalledGames(ctx context.Context) ([]games.Game, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]games.Game)
	return list, args.Error(1)
}

type MockOpener struct {
	mock.Mock
}

func (m *MockOpener) OpenURL(url string) error {
	args := m.Called(url)
	return args.Error(0)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) RecordOpen(ctx context.Context, l games.Lookup) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

type toast struct {
	Title, Body string
}

// recorder collects notifications.
type recorder struct {
	mu     sync.Mutex
	toasts []toast
}

func (r *recorder) Notify(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast{title, body})
}

func (r *recorder) all() []toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]toast(nil), r.toasts...)
}

func (r *recorder) last() toast {
	all := r.all()
	if len(all) == 0 {
		return toast{}
	}
	return all[len(all)-1]
}
