package importer

import (
	"context"
	"errors"
	"time"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

// ErrInvalidCSV is returned when the file cannot be read as a stats sheet at all.
// Problems confined to a single row are reported per row instead.
var ErrInvalidCSV = errors.New("invalid stats csv")

// Outcome is what happened to one row
type Outcome string

const (
	OutcomeImported Outcome = "imported"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeChecked  Outcome = "checked"
)

// Options tunes a run
type Options struct {
	// DryRun parses and validates every row without touching the database.
	DryRun bool
}

// Row is one parsed line of the sheet
type Row struct {
	Line       int
	PlayerName string
	Opponent   string
	Date       time.Time
	Time       string
	Location   string
	Category   string
	Entry      stats.Entry
}

// RowError describes a row that could not be imported
type RowError struct {
	Line    int    `json:"linha"`
	Message string `json:"erro"`
}

// Report summarizes a run
type Report struct {
	DryRun         bool       `json:"dry_run"`
	Rows           int        `json:"linhas"`
	Imported       int        `json:"importadas"`
	Skipped        int        `json:"ignoradas"`
	Failed         int        `json:"falhas"`
	PlayersCreated int        `json:"jogadoras_criadas"`
	GamesCreated   int        `json:"jogos_criados"`
	Errors         []RowError `json:"erros"`
}

// Reporter receives lifecycle callbacks from the importer.
type Reporter interface {
	OnStart(rows int, dryRun bool)
	OnRow(row Row, outcome Outcome)
	OnRowError(line int, err error)
	OnComplete(report *Report)
}

// PlayerStore finds and creates players by display name
type PlayerStore interface {
	GetByName(ctx context.Context, name string) (*store.Player, error)
	Create(ctx context.Context, player *store.Player) error
}

// GameStore finds and creates games by opponent and day
type GameStore interface {
	FindByOpponentAndDate(ctx context.Context, opponent string, date string) (*store.Game, error)
	Create(ctx context.Context, game *store.Game) error
}

// StatsStore checks for and inserts stat lines
type StatsStore interface {
	ExistsForPlayerGame(ctx context.Context, playerID, gameID int) (bool, error)
	Insert(ctx context.Context, entry *store.StatEntry) error
}
