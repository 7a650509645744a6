package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gameswiki/internal/games"
)

func TestDispatcher_OpenSuccess(t *testing.T) {
	opener := new(MockOpener)
	opener.On("OpenURL", "https://www.metacritic.com/search/Hollow%20Knight/").Return(nil)
	rec := &recorder{}

	d := NewDispatcher(opener, rec)
	url, err := d.Open(context.Background(), games.Game{Name: "Hollow Knight", AppID: "367520"}, "metacritic")

	require.NoError(t, err)
	assert.Equal(t, "https://www.metacritic.com/search/Hollow%20Knight/", url)
	assert.Equal(t, []toast{{"Opening Wiki", `Searching Metacritic for "Hollow Knight"`}}, rec.all())
	opener.AssertExpectations(t)
}

func TestDispatcher_OpenFailure(t *testing.T) {
	opener := new(MockOpener)
	opener.On("OpenURL", mock.Anything).Return(errors.New("xdg-open: not found"))
	rec := &recorder{}

	d := NewDispatcher(opener, rec)
	url, err := d.Open(context.Background(), games.Game{Name: "Portal", AppID: "400"}, "ign")

	require.Error(t, err)
	var linkErr *LinkOpenError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, url, linkErr.URL)
	assert.ErrorIs(t, err, ErrLinkOpen)
	assert.Equal(t, []toast{{"Error", "Failed to open wiki link"}}, rec.all())
}

func TestDispatcher_OpenerPanicBecomesError(t *testing.T) {
	d := NewDispatcher(panicOpener{}, &recorder{})

	var err error
	assert.NotPanics(t, func() {
		_, err = d.Open(context.Background(), games.Game{Name: "Portal"}, "steam")
	})
	assert.ErrorIs(t, err, ErrLinkOpen)
}

func TestDispatcher_NilOpener(t *testing.T) {
	d := NewDispatcher(nil, nil)

	_, err := d.Open(context.Background(), games.Game{Name: "Portal"}, "steam")
	assert.ErrorIs(t, err, ErrLinkOpen)
}

func TestDispatcher_RecordsHistory(t *testing.T) {
	opener := new(MockOpener)
	opener.On("OpenURL", mock.Anything).Return(nil).Once()
	opener.On("OpenURL", mock.Anything).Return(errors.New("refused")).Once()

	history := new(MockHistory)
	history.On("RecordOpen", mock.Anything, mock.MatchedBy(func(l games.Lookup) bool {
		return l.Succeeded && l.SiteID == "wikipedia" && l.SessionID == "sess-1" && l.AppID == "220"
	})).Return(nil).Once()
	history.On("RecordOpen", mock.Anything, mock.MatchedBy(func(l games.Lookup) bool {
		return !l.Succeeded && l.URL == "https://en.wikipedia.org/w/index.php?search=Half-Life%202"
	})).Return(errors.New("disk full")).Once()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := NewDispatcher(opener, &recorder{}, WithHistory(history, "sess-1"))
	d.now = func() time.Time { return fixed }

	g := games.Game{Name: "Half-Life 2", AppID: "220"}
	_, err := d.Open(context.Background(), g, "wikipedia")
	require.NoError(t, err)

	_, err = d.Open(context.Background(), g, "wikipedia")
	require.Error(t, err, "history failure does not mask the open failure")

	history.AssertExpectations(t)
	lookup := history.Calls[0].Arguments.Get(1).(games.Lookup)
	assert.Equal(t, fixed, lookup.OpenedAt)
	assert.Equal(t, "Half-Life 2", lookup.GameName)
}

type panicOpener struct{}

func (panicOpener) OpenURL(string) error { panic("host threw") }
