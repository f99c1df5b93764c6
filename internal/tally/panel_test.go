package tally

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

type fakeRecorder struct {
	mu      sync.Mutex
	entries map[int]stats.Entry
	calls   int
	fail    map[int]error
	// when gate is set, RecordStats signals started and waits for gate to close
	gate    chan struct{}
	started chan struct{}
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{entries: map[int]stats.Entry{}, fail: map[int]error{}}
}

func (f *fakeRecorder) RecordStats(_ context.Context, gameID int, entry stats.Entry, key string) (*store.StatEntry, error) {
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fail[entry.PlayerID]; err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.New("missing idempotency key")
	}
	f.entries[entry.PlayerID] = entry
	return &store.StatEntry{ID: len(f.entries), GameID: gameID, Entry: entry}, nil
}

func newPanel() (*Panel, *clock.Mock, *fakeRecorder) {
	clk := clock.NewMock()
	rec := newFakeRecorder()
	return NewPanel(clk, rec), clk, rec
}

func tap(t *testing.T, p *Panel, playerID int, stat Stat) TapResult {
	t.Helper()
	res, err := p.Tap(playerID, stat)
	require.NoError(t, err)
	return res
}

// saveInBackground starts a Save that blocks inside the recorder until the returned release is called.
func saveInBackground(t *testing.T, p *Panel, rec *fakeRecorder) (release func() (*SaveReport, error)) {
	t.Helper()
	rec.gate = make(chan struct{})
	rec.started = make(chan struct{}, 16)

	type result struct {
		report *SaveReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := p.Save(context.Background(), 1, 1)
		done <- result{report, err}
	}()

	select {
	case <-rec.started:
	case <-time.After(time.Second):
		t.Fatal("save never reached the recorder")
	}

	return func() (*SaveReport, error) {
		close(rec.gate)
		res := <-done
		return res.report, res.err
	}
}

func TestTap_ConfirmInsideWindowIsMake(t *testing.T) {
	p, clk, _ := newPanel()

	assert.Equal(t, TapAttempt, tap(t, p, 7, StatThree))
	player, stat, ok := p.Armed()
	require.True(t, ok)
	assert.Equal(t, 7, player)
	assert.Equal(t, StatThree, stat)

	clk.Add(2 * time.Second)
	assert.Equal(t, TapMake, tap(t, p, 7, StatThree))

	_, _, ok = p.Armed()
	assert.False(t, ok)
	assert.Equal(t, Tally{ThreeAttempts: 1, ThreeMakes: 1}, p.Tally(7))
	assert.Equal(t, 3, p.Tally(7).Points())
}

func TestTap_ExpiryLeavesAttempt(t *testing.T) {
	p, clk, _ := newPanel()

	tap(t, p, 7, StatTwo)
	clk.Add(ConfirmWindow)

	_, _, ok := p.Armed()
	assert.False(t, ok)
	assert.Equal(t, TapAttempt, tap(t, p, 7, StatTwo), "tap after expiry starts a new attempt")
	assert.Equal(t, Tally{TwoAttempts: 2}, p.Tally(7))
}

func TestTap_DifferentButtonIsFreshTap(t *testing.T) {
	p, _, _ := newPanel()

	tap(t, p, 7, StatTwo)
	assert.Equal(t, TapAttempt, tap(t, p, 8, StatTwo))
	assert.Equal(t, TapAttempt, tap(t, p, 8, StatFreeThrow))

	player, stat, ok := p.Armed()
	require.True(t, ok)
	assert.Equal(t, 8, player)
	assert.Equal(t, StatFreeThrow, stat)

	assert.Equal(t, TapCount, tap(t, p, 8, StatRebound))
	_, _, ok = p.Armed()
	assert.False(t, ok)

	assert.Equal(t, Tally{TwoAttempts: 1}, p.Tally(7))
	assert.Equal(t, Tally{TwoAttempts: 1, FreeThrowAttempts: 1, Rebounds: 1}, p.Tally(8))
}

func TestTap_UnknownStatIsRejected(t *testing.T) {
	p, _, _ := newPanel()

	for i := 0; i < 2; i++ {
		_, err := p.Tap(7, Stat("bogus"))
		assert.ErrorIs(t, err, ErrUnknownStat)
	}

	assert.Empty(t, p.Active())
	assert.False(t, p.Undo())
	assert.False(t, p.Undo())
}

func TestUndo(t *testing.T) {
	p, _, _ := newPanel()

	tap(t, p, 4, StatTwo)
	tap(t, p, 4, StatTwo)
	tap(t, p, 4, StatBlock)

	require.True(t, p.Undo())
	assert.Equal(t, Tally{TwoAttempts: 1, TwoMakes: 1}, p.Tally(4))
	require.True(t, p.Undo())
	assert.Equal(t, Tally{TwoAttempts: 1}, p.Tally(4), "undoing a make keeps its attempt")
	require.True(t, p.Undo())
	assert.True(t, p.Tally(4).IsEmpty())
	assert.Empty(t, p.Active())
	assert.False(t, p.Undo())
}

func TestUndo_DisarmsAndIsBounded(t *testing.T) {
	p, _, _ := newPanel()

	for i := 0; i < UndoDepth+2; i++ {
		tap(t, p, 1, StatAssist)
	}
	tap(t, p, 1, StatThree)

	require.True(t, p.Undo())
	_, _, ok := p.Armed()
	assert.False(t, ok)

	undone := 1
	for p.Undo() {
		undone++
	}
	assert.Equal(t, UndoDepth, undone)
	assert.Equal(t, 3, p.Tally(1).Assists)
}

func TestSave_BestEffort(t *testing.T) {
	p, _, rec := newPanel()
	rec.fail[2] = errors.New("503")

	tap(t, p, 1, StatTwo)
	tap(t, p, 1, StatTwo)
	tap(t, p, 1, StatTurnover)
	tap(t, p, 2, StatFoul)
	tap(t, p, 3, StatFreeThrow)

	report, err := p.Save(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []int{1, 3}, report.Saved)
	require.Contains(t, report.Failed, 2)

	first := rec.entries[1]
	assert.Equal(t, 3, first.Quarter)
	assert.Equal(t, 2, first.Points)
	assert.Equal(t, 1, first.TwoMakes)
	assert.Equal(t, 0, rec.entries[3].Points)

	assert.Equal(t, []int{2}, p.Active())
	assert.Equal(t, Tally{Fouls: 1}, p.Tally(2))

	require.True(t, p.Undo(), "failed player's taps can still be undone")
	assert.False(t, p.Undo())

	delete(rec.fail, 2)
	tap(t, p, 2, StatFoul)
	report, err = p.Save(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, rec.entries[2].Fouls)
}

func TestSave_OverlappingSaveIsRejected(t *testing.T) {
	p, _, rec := newPanel()
	tap(t, p, 7, StatRebound)

	finish := saveInBackground(t, p, rec)
	assert.True(t, p.Saving())

	_, err := p.Save(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSaveInFlight)

	report, err := finish()
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.False(t, p.Saving())
	assert.Equal(t, 1, rec.calls, "one tallied rebound is written once")
	assert.Empty(t, p.Active())
}

func TestSave_UndoDuringSave(t *testing.T) {
	p, _, rec := newPanel()
	tap(t, p, 7, StatRebound)

	finish := saveInBackground(t, p, rec)

	assert.False(t, p.Undo(), "taps being saved cannot be undone")

	tap(t, p, 7, StatSteal)
	tap(t, p, 8, StatAssist)
	require.True(t, p.Undo())
	assert.Equal(t, Tally{Rebounds: 1, Steals: 1}, p.Tally(7))

	report, err := finish()
	require.NoError(t, err)
	assert.Equal(t, []int{7}, report.Saved)
	assert.Equal(t, 1, rec.entries[7].Rebounds)
	assert.Zero(t, rec.entries[7].Steals)

	assert.Equal(t, Tally{Steals: 1}, p.Tally(7), "taps made during the save stay on the panel")
	require.True(t, p.Undo(), "and can still be undone")
	assert.True(t, p.Tally(7).IsEmpty())
	assert.False(t, p.Undo())
}

func TestSave_Errors(t *testing.T) {
	p, _, _ := newPanel()

	_, err := p.Save(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNothingToSave)

	tap(t, p, 1, StatSteal)
	_, err = p.Save(context.Background(), 1, 5)
	assert.ErrorIs(t, err, stats.ErrInvalidQuarter)
	assert.Equal(t, 1, p.Tally(1).Steals)
	assert.False(t, p.Saving())
}

func TestTally_SubStopsAtZero(t *testing.T) {
	tl := Tally{Rebounds: 1}
	tl.sub(Tally{Rebounds: 2, Fouls: 1})
	assert.True(t, tl.IsEmpty())
}

func TestTally_EntryDropsBenchOnlyCounters(t *testing.T) {
	tl := Tally{TwoMakes: 2, TwoAttempts: 3, FreeThrowMakes: 1, FreeThrowAttempts: 2, Blocks: 4, Turnovers: 2}
	e := tl.Entry(5, 2)

	assert.Equal(t, 5, e.Points)
	assert.NoError(t, e.Validate())
	assert.False(t, tl.IsEmpty())
}
