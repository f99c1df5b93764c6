package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/scoremvp/scoremvp/internal/store"
)

const playerColumns = `id, nome, numero, COALESCE(posicao, ''), created_at`

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByID finds a player by database ID
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, playerID).Scan(
		&player.ID, &player.Name, &player.Number, &player.Position, &player.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", playerID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	return player, nil
}

// GetByName returns the first player whose name matches exactly, ignoring case
func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*store.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE LOWER(nome) = LOWER($1) ORDER BY id LIMIT 1`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, name).Scan(
		&player.ID, &player.Name, &player.Number, &player.Position, &player.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %q: %w", name, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player by name: %w", err)
	}

	return player, nil
}

// List returns all players ordered by jersey number then name
func (r *PlayerRepository) List(ctx context.Context) ([]*store.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY numero, nome`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// Create inserts a player and fills in its ID and CreatedAt
func (r *PlayerRepository) Create(ctx context.Context, player *store.Player) error {
	query := `
		INSERT INTO players (nome, numero, posicao)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query, player.Name, player.Number, player.Position).
		Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting player: %w", err)
	}

	return nil
}

// Update overwrites name, number and position
func (r *PlayerRepository) Update(ctx context.Context, player *store.Player) error {
	query := `
		UPDATE players SET nome = $2, numero = $3, posicao = NULLIF($4, '')
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query, player.ID, player.Name, player.Number, player.Position).
		Scan(&player.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("player %d: %w", player.ID, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("updating player: %w", err)
	}

	return nil
}

// Delete removes a player together with the player's stat entries
func (r *PlayerRepository) Delete(ctx context.Context, playerID int) error {
	result, err := r.db.DB().ExecContext(ctx, `DELETE FROM players WHERE id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("deleting player: %w", err)
	}
	return requireAffected(result, "player", playerID)
}

// scanPlayers is a helper to scan multiple player rows
func scanPlayers(rows *sql.Rows) ([]*store.Player, error) {
	players := []*store.Player{}
	for rows.Next() {
		player := &store.Player{}
		err := rows.Scan(&player.ID, &player.Name, &player.Number, &player.Position, &player.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}
