package store

import (
	"errors"
	"time"

	"github.com/scoremvp/scoremvp/internal/stats"
)

var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReference is returned when a write points at a game or player that does not exist.
	ErrInvalidReference = errors.New("referenced game or player does not exist")
)

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	GameStatusPending    GameStatus = "PENDENTE"
	GameStatusInProgress GameStatus = "EM_ANDAMENTO"
	GameStatusFinished   GameStatus = "FINALIZADO"
)

// Valid reports whether s is one of the known statuses.
func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusPending, GameStatusInProgress, GameStatusFinished:
		return true
	}
	return false
}

// CanTransitionTo reports whether a game may move from s to next.
// Games only move forward; staying in place is allowed.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case GameStatusPending:
		return next == GameStatusInProgress
	case GameStatusInProgress:
		return next == GameStatusFinished
	}
	return false
}

// Game represents a scheduled or played game
type Game struct {
	ID        int        `json:"id" db:"id"`
	Opponent  string     `json:"opponent" db:"opponent"`
	Date      time.Time  `json:"date" db:"date"`
	Time      string     `json:"time,omitempty" db:"time"`
	Location  string     `json:"location,omitempty" db:"location"`
	Category  string     `json:"category,omitempty" db:"category"`
	Status    GameStatus `json:"status" db:"status"`
	HomeScore int        `json:"home_score" db:"home_score"`
	AwayScore int        `json:"away_score" db:"away_score"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Player represents a rostered player
type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"nome" db:"nome"`
	Number    int       `json:"numero" db:"numero"`
	Position  string    `json:"posicao,omitempty" db:"posicao"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StatEntry is a persisted stats.Entry for one game.
type StatEntry struct {
	ID     int `json:"id" db:"id"`
	GameID int `json:"jogo_id" db:"jogo_id"`
	stats.Entry
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlayerIdentity is the subset of Player shown next to a stat line
type PlayerIdentity struct {
	ID       int    `json:"id"`
	Name     string `json:"nome"`
	Number   int    `json:"numero"`
	Position string `json:"posicao,omitempty"`
}

// StatEntryWithPlayer joins a StatEntry with the identity of its player
type StatEntryWithPlayer struct {
	StatEntry
	Player PlayerIdentity `json:"jogadora"`
}

// StatFilter narrows a game's entries; zero fields match everything.
type StatFilter struct {
	Quarter  int
	PlayerID int
}

// GameFilter narrows game listings; zero fields match everything.
type GameFilter struct {
	Status GameStatus
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// TeamTotals aggregates entries across a set of games for the dashboard.
type TeamTotals struct {
	Entries  int
	Points   int
	Assists  int
	Rebounds int
	Steals   int
	Fouls    int
	// Shooting holds the summed attempts and makes as a single synthetic line.
	Shooting stats.Entry
}

// TopScorer is the player with the most points over a set of games.
type TopScorer struct {
	PlayerID int    `json:"id"`
	Name     string `json:"nome"`
	Points   int    `json:"total_pontos"`
}

// PlayerTotals aggregates one player's entries across a set of games.
type PlayerTotals struct {
	PlayerIdentity
	Games    int
	Entries  int
	Points   int
	Assists  int
	Rebounds int
	Steals   int
	Fouls    int
}
