package mockstore

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

type Stats struct {
	mock.Mock
}

func (m *Stats) ListByGame(ctx context.Context, gameID int) ([]stats.Entry, error) {
	args := m.Called(ctx, gameID)

	var r []stats.Entry
	if args.Get(0) != nil {
		r = args.Get(0).([]stats.Entry)
	}
	return r, args.Error(1)
}

func (m *Stats) ListByGameWithPlayer(ctx context.Context, gameID int, filter store.StatFilter) ([]*store.StatEntryWithPlayer, error) {
	args := m.Called(ctx, gameID, filter)

	var r []*store.StatEntryWithPlayer
	if args.Get(0) != nil {
		r = args.Get(0).([]*store.StatEntryWithPlayer)
	}
	return r, args.Error(1)
}

func (m *Stats) Insert(ctx context.Context, entry *store.StatEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *Stats) ExistsForPlayerGame(ctx context.Context, playerID, gameID int) (bool, error) {
	args := m.Called(ctx, playerID, gameID)
	return args.Bool(0), args.Error(1)
}

func (m *Stats) TeamTotals(ctx context.Context, filter store.GameFilter) (*store.TeamTotals, error) {
	args := m.Called(ctx, filter)

	var t *store.TeamTotals
	if args.Get(0) != nil {
		t = args.Get(0).(*store.TeamTotals)
	}
	return t, args.Error(1)
}

func (m *Stats) TopScorer(ctx context.Context, filter store.GameFilter) (*store.TopScorer, error) {
	args := m.Called(ctx, filter)

	var t *store.TopScorer
	if args.Get(0) != nil {
		t = args.Get(0).(*store.TopScorer)
	}
	return t, args.Error(1)
}

func (m *Stats) PlayerTotals(ctx context.Context, filter store.GameFilter) ([]*store.PlayerTotals, error) {
	args := m.Called(ctx, filter)

	var r []*store.PlayerTotals
	if args.Get(0) != nil {
		r = args.Get(0).([]*store.PlayerTotals)
	}
	return r, args.Error(1)
}

func (m *Stats) ListInWindow(ctx context.Context, filter store.GameFilter) ([]*store.StatEntry, error) {
	args := m.Called(ctx, filter)

	var r []*store.StatEntry
	if args.Get(0) != nil {
		r = args.Get(0).([]*store.StatEntry)
	}
	return r, args.Error(1)
}

type Games struct {
	mock.Mock
}

func (m *Games) GetByID(ctx context.Context, gameID int) (*store.Game, error) {
	args := m.Called(ctx, gameID)

	var g *store.Game
	if args.Get(0) != nil {
		g = args.Get(0).(*store.Game)
	}
	return g, args.Error(1)
}

func (m *Games) FindByOpponentAndDate(ctx context.Context, opponent string, date string) (*store.Game, error) {
	args := m.Called(ctx, opponent, date)

	var g *store.Game
	if args.Get(0) != nil {
		g = args.Get(0).(*store.Game)
	}
	return g, args.Error(1)
}

func (m *Games) List(ctx context.Context, filter store.GameFilter) ([]*store.Game, error) {
	args := m.Called(ctx, filter)

	var r []*store.Game
	if args.Get(0) != nil {
		r = args.Get(0).([]*store.Game)
	}
	return r, args.Error(1)
}

func (m *Games) Count(ctx context.Context, filter store.GameFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *Games) Create(ctx context.Context, game *store.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *Games) Update(ctx context.Context, game *store.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *Games) UpdateStatus(ctx context.Context, gameID int, status store.GameStatus) error {
	args := m.Called(ctx, gameID, status)
	return args.Error(0)
}

func (m *Games) Delete(ctx context.Context, gameID int) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

type Players struct {
	mock.Mock
}

func (m *Players) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	args := m.Called(ctx, playerID)

	var p *store.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*store.Player)
	}
	return p, args.Error(1)
}

func (m *Players) GetByName(ctx context.Context, name string) (*store.Player, error) {
	args := m.Called(ctx, name)

	var p *store.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*store.Player)
	}
	return p, args.Error(1)
}

func (m *Players) List(ctx context.Context) ([]*store.Player, error) {
	args := m.Called(ctx)

	var r []*store.Player
	if args.Get(0) != nil {
		r = args.Get(0).([]*store.Player)
	}
	return r, args.Error(1)
}

func (m *Players) Create(ctx context.Context, player *store.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *Players) Update(ctx context.Context, player *store.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *Players) Delete(ctx context.Context, playerID int) error {
	args := m.Called(ctx, playerID)
	return args.Error(0)
}

type Publisher struct {
	mock.Mock
}

func (m *Publisher) PublishStatRecorded(ctx context.Context, entry *store.StatEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type Idempotency struct {
	mock.Mock
}

func (m *Idempotency) Reserve(ctx context.Context, key string) (bool, []byte, error) {
	args := m.Called(ctx, key)

	var b []byte
	if args.Get(1) != nil {
		b = args.Get(1).([]byte)
	}
	return args.Bool(0), b, args.Error(2)
}

func (m *Idempotency) Remember(ctx context.Context, key string, payload []byte) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}

func (m *Idempotency) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
