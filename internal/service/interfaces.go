package service

import (
	"context"
	"errors"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

var (
	// ErrInvalidGame is returned when a game payload is missing required fields.
	ErrInvalidGame = errors.New("invalid game")
	// ErrInvalidPlayer is returned when a player payload is missing required fields.
	ErrInvalidPlayer = errors.New("invalid player")
	// ErrInvalidTransition is returned when a status change moves a game backwards.
	ErrInvalidTransition = errors.New("invalid game status transition")
	// ErrRequestInFlight is returned when an idempotency key is held by a request still running.
	ErrRequestInFlight = errors.New("request with this idempotency key is in progress")
)

// StatsStore is the data access StatsService depends on
type StatsStore interface {
	ListByGame(ctx context.Context, gameID int) ([]stats.Entry, error)
	ListByGameWithPlayer(ctx context.Context, gameID int, filter store.StatFilter) ([]*store.StatEntryWithPlayer, error)
	Insert(ctx context.Context, entry *store.StatEntry) error
}

// GameStore is the data access GameService depends on
type GameStore interface {
	GetByID(ctx context.Context, gameID int) (*store.Game, error)
	List(ctx context.Context, filter store.GameFilter) ([]*store.Game, error)
	Create(ctx context.Context, game *store.Game) error
	Update(ctx context.Context, game *store.Game) error
	UpdateStatus(ctx context.Context, gameID int, status store.GameStatus) error
	Delete(ctx context.Context, gameID int) error
}

// PlayerStore is the data access PlayerService depends on
type PlayerStore interface {
	GetByID(ctx context.Context, playerID int) (*store.Player, error)
	GetByName(ctx context.Context, name string) (*store.Player, error)
	List(ctx context.Context) ([]*store.Player, error)
	Create(ctx context.Context, player *store.Player) error
	Update(ctx context.Context, player *store.Player) error
	Delete(ctx context.Context, playerID int) error
}

// DashboardStore is the data access DashboardService depends on
type DashboardStore interface {
	TeamTotals(ctx context.Context, filter store.GameFilter) (*store.TeamTotals, error)
	TopScorer(ctx context.Context, filter store.GameFilter) (*store.TopScorer, error)
	PlayerTotals(ctx context.Context, filter store.GameFilter) ([]*store.PlayerTotals, error)
	ListInWindow(ctx context.Context, filter store.GameFilter) ([]*store.StatEntry, error)
}

// GameLister lists and counts games for the dashboard
type GameLister interface {
	List(ctx context.Context, filter store.GameFilter) ([]*store.Game, error)
	Count(ctx context.Context, filter store.GameFilter) (int, error)
}

// EventPublisher announces persisted stat lines
type EventPublisher interface {
	PublishStatRecorded(ctx context.Context, entry *store.StatEntry) error
}

// IdempotencyStore reserves client supplied keys and remembers their responses
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (reserved bool, payload []byte, err error)
	Remember(ctx context.Context, key string, payload []byte) error
	Release(ctx context.Context, key string) error
}
