package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

const statColumns = `s.id, s.jogo_id, s.jogadora_id, s.quarto, s.pontos, s.assistencias, s.rebotes, s.roubos, s.faltas,
	s.dois_tentativas, s.dois_acertos, s.tres_tentativas, s.tres_acertos,
	s.lance_tentativas, s.lance_acertos, s.interferencia, s.created_at`

// StatsRepository handles stat entry data access
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// ListByGame returns the raw stat lines of a game in storage order
func (r *StatsRepository) ListByGame(ctx context.Context, gameID int) ([]stats.Entry, error) {
	query := `SELECT ` + statColumns + ` FROM stat_entries s WHERE s.jogo_id = $1 ORDER BY s.id`

	rows, err := r.db.DB().QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying stat entries: %w", err)
	}
	defer rows.Close()

	entries := []stats.Entry{}
	for rows.Next() {
		var e store.StatEntry
		if err := scanStatEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scanning stat entry: %w", err)
		}
		entries = append(entries, e.Entry)
	}

	return entries, rows.Err()
}

// ListByGameWithPlayer returns a game's entries joined with player identity.
// Zero filter fields match all rows.
func (r *StatsRepository) ListByGameWithPlayer(ctx context.Context, gameID int, filter store.StatFilter) ([]*store.StatEntryWithPlayer, error) {
	query := `
		SELECT ` + statColumns + `, p.id, p.nome, p.numero, COALESCE(p.posicao, '')
		FROM stat_entries s
		INNER JOIN players p ON p.id = s.jogadora_id
		WHERE s.jogo_id = $1
			AND ($2 = 0 OR s.quarto = $2)
			AND ($3 = 0 OR s.jogadora_id = $3)
		ORDER BY s.id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, gameID, filter.Quarter, filter.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("querying player stat lines: %w", err)
	}
	defer rows.Close()

	lines := []*store.StatEntryWithPlayer{}
	for rows.Next() {
		line := &store.StatEntryWithPlayer{}
		err := scanStatEntry(rows, &line.StatEntry,
			&line.Player.ID, &line.Player.Name, &line.Player.Number, &line.Player.Position)
		if err != nil {
			return nil, fmt.Errorf("scanning player stat line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// Insert persists one stat entry and fills in its ID and CreatedAt.
// A missing game or player yields store.ErrInvalidReference.
func (r *StatsRepository) Insert(ctx context.Context, entry *store.StatEntry) error {
	query := `
		INSERT INTO stat_entries (jogo_id, jogadora_id, quarto, pontos, assistencias, rebotes, roubos, faltas,
			dois_tentativas, dois_acertos, tres_tentativas, tres_acertos,
			lance_tentativas, lance_acertos, interferencia)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`

	e := entry.Entry
	err := r.db.DB().QueryRowContext(ctx, query,
		entry.GameID, e.PlayerID, e.Quarter, e.Points, e.Assists, e.Rebounds, e.Steals, e.Fouls,
		e.TwoAttempts, e.TwoMakes, e.ThreeAttempts, e.ThreeMakes,
		e.FreeThrowAttempts, e.FreeThrowMakes, e.Interference,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting stat entry: %w", translateError(err))
	}

	return nil
}

// ExistsForPlayerGame reports whether the player already has any line in the game
func (r *StatsRepository) ExistsForPlayerGame(ctx context.Context, playerID, gameID int) (bool, error) {
	var exists bool
	err := r.db.DB().QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM stat_entries WHERE jogadora_id = $1 AND jogo_id = $2)`,
		playerID, gameID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking stat entry: %w", err)
	}
	return exists, nil
}

// TeamTotals sums every entry of games dated within the filter window
func (r *StatsRepository) TeamTotals(ctx context.Context, filter store.GameFilter) (*store.TeamTotals, error) {
	query := `
		SELECT COUNT(s.id),
			COALESCE(SUM(s.pontos), 0), COALESCE(SUM(s.assistencias), 0), COALESCE(SUM(s.rebotes), 0),
			COALESCE(SUM(s.roubos), 0), COALESCE(SUM(s.faltas), 0),
			COALESCE(SUM(s.dois_tentativas), 0), COALESCE(SUM(s.dois_acertos), 0),
			COALESCE(SUM(s.tres_tentativas), 0), COALESCE(SUM(s.tres_acertos), 0),
			COALESCE(SUM(s.lance_tentativas), 0), COALESCE(SUM(s.lance_acertos), 0)
		FROM stat_entries s
		INNER JOIN games g ON g.id = s.jogo_id
		WHERE ($1::timestamptz IS NULL OR g.date >= $1)
			AND ($2::timestamptz IS NULL OR g.date < $2)
	`

	totals := &store.TeamTotals{}
	sh := &totals.Shooting
	err := r.db.DB().QueryRowContext(ctx, query, nullTime(filter.From), nullTime(filter.To)).Scan(
		&totals.Entries, &totals.Points, &totals.Assists, &totals.Rebounds, &totals.Steals, &totals.Fouls,
		&sh.TwoAttempts, &sh.TwoMakes, &sh.ThreeAttempts, &sh.ThreeMakes, &sh.FreeThrowAttempts, &sh.FreeThrowMakes,
	)
	if err != nil {
		return nil, fmt.Errorf("querying team totals: %w", err)
	}

	return totals, nil
}

// TopScorer returns the player with the most points in the filter window, or nil when nobody scored
func (r *StatsRepository) TopScorer(ctx context.Context, filter store.GameFilter) (*store.TopScorer, error) {
	query := `
		SELECT p.id, p.nome, SUM(s.pontos) AS total
		FROM stat_entries s
		INNER JOIN players p ON p.id = s.jogadora_id
		INNER JOIN games g ON g.id = s.jogo_id
		WHERE ($1::timestamptz IS NULL OR g.date >= $1)
			AND ($2::timestamptz IS NULL OR g.date < $2)
		GROUP BY p.id, p.nome
		ORDER BY total DESC, p.id
		LIMIT 1
	`

	top := &store.TopScorer{}
	err := r.db.DB().QueryRowContext(ctx, query, nullTime(filter.From), nullTime(filter.To)).
		Scan(&top.PlayerID, &top.Name, &top.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying top scorer: %w", err)
	}

	return top, nil
}

// PlayerTotals sums each player's entries over games dated within the filter window.
// Players without entries in the window are left out. Ordered by points, then id.
func (r *StatsRepository) PlayerTotals(ctx context.Context, filter store.GameFilter) ([]*store.PlayerTotals, error) {
	query := `
		SELECT p.id, p.nome, p.numero, COALESCE(p.posicao, ''),
			COUNT(DISTINCT s.jogo_id), COUNT(s.id),
			SUM(s.pontos), SUM(s.assistencias), SUM(s.rebotes), SUM(s.roubos), SUM(s.faltas)
		FROM stat_entries s
		INNER JOIN players p ON p.id = s.jogadora_id
		INNER JOIN games g ON g.id = s.jogo_id
		WHERE ($1::timestamptz IS NULL OR g.date >= $1)
			AND ($2::timestamptz IS NULL OR g.date < $2)
		GROUP BY p.id, p.nome, p.numero, p.posicao
		ORDER BY SUM(s.pontos) DESC, p.id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, nullTime(filter.From), nullTime(filter.To))
	if err != nil {
		return nil, fmt.Errorf("querying player totals: %w", err)
	}
	defer rows.Close()

	totals := []*store.PlayerTotals{}
	for rows.Next() {
		t := &store.PlayerTotals{}
		err := rows.Scan(&t.ID, &t.Name, &t.Number, &t.Position,
			&t.Games, &t.Entries, &t.Points, &t.Assists, &t.Rebounds, &t.Steals, &t.Fouls)
		if err != nil {
			return nil, fmt.Errorf("scanning player totals: %w", err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

// ListInWindow returns the entries of every game dated within the filter window, by game then id
func (r *StatsRepository) ListInWindow(ctx context.Context, filter store.GameFilter) ([]*store.StatEntry, error) {
	query := `SELECT ` + statColumns + `
		FROM stat_entries s
		INNER JOIN games g ON g.id = s.jogo_id
		WHERE ($1::timestamptz IS NULL OR g.date >= $1)
			AND ($2::timestamptz IS NULL OR g.date < $2)
		ORDER BY s.jogo_id, s.id`

	rows, err := r.db.DB().QueryContext(ctx, query, nullTime(filter.From), nullTime(filter.To))
	if err != nil {
		return nil, fmt.Errorf("querying stat entries in window: %w", err)
	}
	defer rows.Close()

	entries := []*store.StatEntry{}
	for rows.Next() {
		e := &store.StatEntry{}
		if err := scanStatEntry(rows, e); err != nil {
			return nil, fmt.Errorf("scanning stat entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// scanStatEntry scans the statColumns prefix into entry, then any extra destinations
func scanStatEntry(row rowScanner, entry *store.StatEntry, extra ...interface{}) error {
	e := &entry.Entry
	dest := []interface{}{
		&entry.ID, &entry.GameID, &e.PlayerID, &e.Quarter, &e.Points, &e.Assists, &e.Rebounds, &e.Steals, &e.Fouls,
		&e.TwoAttempts, &e.TwoMakes, &e.ThreeAttempts, &e.ThreeMakes,
		&e.FreeThrowAttempts, &e.FreeThrowMakes, &e.Interference, &entry.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}
