package tally

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

const (
	// ConfirmWindow is how long a shot attempt waits for the tap that turns it into a make.
	ConfirmWindow = 3 * time.Second
	// UndoDepth is the number of taps that can be undone.
	UndoDepth = 5

	saveConcurrency = 4
)

var (
	// ErrNothingToSave is returned by Save when no player has activity.
	ErrNothingToSave = errors.New("no tallied activity to save")
	// ErrSaveInFlight is returned by Save while a previous save is still running.
	ErrSaveInFlight = errors.New("save already in progress")
	// ErrUnknownStat is returned by Tap for a stat the panel has no button for.
	ErrUnknownStat = errors.New("unknown stat")
)

// TapResult says how a tap was counted
type TapResult string

const (
	TapAttempt TapResult = "attempt"
	TapMake    TapResult = "make"
	TapCount   TapResult = "count"
)

// Recorder sends one stat line to the API
type Recorder interface {
	RecordStats(ctx context.Context, gameID int, entry stats.Entry, key string) (*store.StatEntry, error)
}

type armed struct {
	playerID int
	stat     Stat
	deadline time.Time
}

type action struct {
	seq      uint64
	playerID int
	delta    Tally
}

// Panel is the quick-entry grid of one game. A first tap on a shot records an
// attempt and arms the confirmation window; a second tap on the same player and
// shot inside the window upgrades it to a make.
type Panel struct {
	mu       sync.Mutex
	clock    clock.Clock
	recorder Recorder

	tallies map[int]*Tally
	armed   *armed
	timer   *clock.Timer
	// gen invalidates callbacks of replaced timers
	gen  uint64
	undo []action
	seq  uint64

	saving bool
	// savedSeq is the last action included in the running save's snapshot
	savedSeq uint64
}

// NewPanel creates an empty panel
func NewPanel(clk clock.Clock, recorder Recorder) *Panel {
	return &Panel{
		clock:    clk,
		recorder: recorder,
		tallies:  make(map[int]*Tally),
	}
}

// Tap registers one press of stat for playerID.
func (p *Panel) Tap(playerID int, stat Stat) (TapResult, error) {
	if !stat.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStat, stat)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	if stat.IsShot() && p.armed != nil && p.armed.playerID == playerID && p.armed.stat == stat && now.Before(p.armed.deadline) {
		p.disarm()
		p.apply(playerID, makeOf(stat))
		return TapMake, nil
	}

	p.disarm()
	p.apply(playerID, attempt(stat))
	if !stat.IsShot() {
		return TapCount, nil
	}

	p.armed = &armed{playerID: playerID, stat: stat, deadline: now.Add(ConfirmWindow)}
	gen := p.gen
	p.timer = p.clock.AfterFunc(ConfirmWindow, func() { p.expire(gen) })
	return TapAttempt, nil
}

// Armed returns the player and shot waiting for confirmation, if any.
func (p *Panel) Armed() (playerID int, stat Stat, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.armed == nil {
		return 0, "", false
	}
	if !p.clock.Now().Before(p.armed.deadline) {
		p.disarm()
		return 0, "", false
	}
	return p.armed.playerID, p.armed.stat, true
}

// Undo reverts the most recent tap still on the stack and disarms the panel.
// While a save runs, only taps made after it started can be undone. It reports
// false when there is nothing to undo.
func (p *Panel) Undo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.disarm()
	if len(p.undo) == 0 {
		return false
	}
	last := p.undo[len(p.undo)-1]
	if p.saving && last.seq <= p.savedSeq {
		return false
	}
	p.undo = p.undo[:len(p.undo)-1]

	if t, ok := p.tallies[last.playerID]; ok {
		t.sub(last.delta)
		if t.IsEmpty() {
			delete(p.tallies, last.playerID)
		}
	}
	return true
}

// Tally returns the running count of playerID
func (p *Panel) Tally(playerID int) Tally {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.tallies[playerID]; ok {
		return *t
	}
	return Tally{}
}

// Active returns the ids of players with activity, ascending
func (p *Panel) Active() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeLocked()
}

func (p *Panel) activeLocked() []int {
	ids := make([]int, 0, len(p.tallies))
	for id, t := range p.tallies {
		if !t.IsEmpty() {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Saving reports whether a save is running; the save control is disabled meanwhile.
func (p *Panel) Saving() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saving
}

// SaveReport is the per-player outcome of a Save
type SaveReport struct {
	Saved  []int
	Failed map[int]error
}

// OK reports whether every player was saved
func (r *SaveReport) OK() bool {
	return len(r.Failed) == 0
}

// Save writes one stat line per active player for quarter, concurrently.
// Writes are independent: saved players are cleared from the panel while
// failed players keep their tallies for a retry. Taps made during the save
// stay on the panel and can still be undone.
func (p *Panel) Save(ctx context.Context, gameID, quarter int) (*SaveReport, error) {
	if quarter < 1 || quarter > stats.NumQuarters {
		return nil, fmt.Errorf("%w: got %d", stats.ErrInvalidQuarter, quarter)
	}

	p.mu.Lock()
	if p.saving {
		p.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	p.disarm()
	ids := p.activeLocked()
	if len(ids) == 0 {
		p.mu.Unlock()
		return nil, ErrNothingToSave
	}
	snapshot := make([]Tally, len(ids))
	for i, id := range ids {
		snapshot[i] = *p.tallies[id]
	}
	p.saving = true
	p.savedSeq = p.seq
	p.mu.Unlock()

	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(saveConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			entry := snapshot[i].Entry(id, quarter)
			if _, err := p.recorder.RecordStats(ctx, gameID, entry, uuid.NewString()); err != nil {
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &SaveReport{Failed: make(map[int]error)}

	p.mu.Lock()
	defer p.mu.Unlock()
	saved := make(map[int]bool, len(ids))
	for i, id := range ids {
		if errs[i] != nil {
			report.Failed[id] = errs[i]
			log.WithFields(log.Fields{"game_id": gameID, "player_id": id, "quarter": quarter}).WithError(errs[i]).Warn("failed to save tally")
			continue
		}
		report.Saved = append(report.Saved, id)
		saved[id] = true

		if t, ok := p.tallies[id]; ok {
			t.sub(snapshot[i])
			if t.IsEmpty() {
				delete(p.tallies, id)
			}
		}
	}

	kept := make([]action, 0, len(p.undo))
	for _, a := range p.undo {
		if a.seq > p.savedSeq || !saved[a.playerID] {
			kept = append(kept, a)
		}
	}
	p.undo = kept
	p.saving = false

	log.WithFields(log.Fields{
		"game_id": gameID,
		"quarter": quarter,
		"saved":   len(report.Saved),
		"failed":  len(report.Failed),
	}).Info("tally saved")
	return report, nil
}

func (p *Panel) apply(playerID int, delta Tally) {
	t, ok := p.tallies[playerID]
	if !ok {
		t = &Tally{}
		p.tallies[playerID] = t
	}
	t.add(delta)

	p.seq++
	p.undo = append(p.undo, action{seq: p.seq, playerID: playerID, delta: delta})
	if len(p.undo) > UndoDepth {
		p.undo = p.undo[len(p.undo)-UndoDepth:]
	}
}

// disarm clears the confirmation window. Callers hold mu.
func (p *Panel) disarm() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.armed = nil
	p.gen++
}

func (p *Panel) expire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.armed == nil {
		return
	}
	p.armed = nil
	p.timer = nil
}
