package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/scoremvp/scoremvp/internal/store"
)

const gameColumns = `id, opponent, date, COALESCE(time, ''), COALESCE(location, ''), COALESCE(category, ''),
	status, home_score, away_score, created_at`

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// GetByID finds a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*store.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %d: %w", gameID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}

	return game, nil
}

// FindByOpponentAndDate returns the game played against opponent on the calendar day of date
func (r *GameRepository) FindByOpponentAndDate(ctx context.Context, opponent string, date string) (*store.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE opponent = $1 AND date::date = $2::date
		ORDER BY id
		LIMIT 1`

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, opponent, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game vs %s on %s: %w", opponent, date, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game by opponent: %w", err)
	}

	return game, nil
}

// List returns games matching filter, most recent first
func (r *GameRepository) List(ctx context.Context, filter store.GameFilter) ([]*store.Game, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where = append(where, fmt.Sprintf("date < $%d", len(args)))
	}

	query := `SELECT ` + gameColumns + ` FROM games`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// Count returns the number of games in [from, to); zero bounds are open
func (r *GameRepository) Count(ctx context.Context, filter store.GameFilter) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM games
		WHERE ($1::timestamptz IS NULL OR date >= $1)
			AND ($2::timestamptz IS NULL OR date < $2)
	`

	var n int
	err := r.db.DB().QueryRowContext(ctx, query, nullTime(filter.From), nullTime(filter.To)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return n, nil
}

// Create inserts a new game and fills in its ID and CreatedAt
func (r *GameRepository) Create(ctx context.Context, game *store.Game) error {
	if game.Status == "" {
		game.Status = store.GameStatusPending
	}

	query := `
		INSERT INTO games (opponent, date, time, location, category, status, home_score, away_score)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		game.Opponent, game.Date, game.Time, game.Location, game.Category,
		string(game.Status), game.HomeScore, game.AwayScore,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of a game
func (r *GameRepository) Update(ctx context.Context, game *store.Game) error {
	query := `
		UPDATE games SET
			opponent = $2,
			date = $3,
			time = NULLIF($4, ''),
			location = NULLIF($5, ''),
			category = NULLIF($6, ''),
			status = $7,
			home_score = $8,
			away_score = $9
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		game.ID, game.Opponent, game.Date, game.Time, game.Location, game.Category,
		string(game.Status), game.HomeScore, game.AwayScore,
	).Scan(&game.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("game %d: %w", game.ID, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("updating game: %w", err)
	}

	return nil
}

// UpdateStatus sets the status column only
func (r *GameRepository) UpdateStatus(ctx context.Context, gameID int, status store.GameStatus) error {
	result, err := r.db.DB().ExecContext(ctx, `UPDATE games SET status = $2 WHERE id = $1`, gameID, string(status))
	if err != nil {
		return fmt.Errorf("updating game status: %w", err)
	}
	return requireAffected(result, "game", gameID)
}

// Delete removes a game and, through the FK cascade, its stat entries
func (r *GameRepository) Delete(ctx context.Context, gameID int) error {
	result, err := r.db.DB().ExecContext(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	return requireAffected(result, "game", gameID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*store.Game, error) {
	game := &store.Game{}
	var status string
	err := row.Scan(
		&game.ID, &game.Opponent, &game.Date, &game.Time, &game.Location, &game.Category,
		&status, &game.HomeScore, &game.AwayScore, &game.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	game.Status = store.GameStatus(status)
	return game, nil
}

// scanGames scans multiple game rows
func scanGames(rows *sql.Rows) ([]*store.Game, error) {
	games := []*store.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
