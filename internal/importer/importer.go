package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/store"
)

// Importer loads historical stat sheets. Players are matched by name and games
// by opponent and day, both created when missing. A player already holding a
// line for the game is skipped, so re-running a sheet is harmless.
type Importer struct {
	players PlayerStore
	games   GameStore
	stats   StatsStore
}

// New creates an importer over the given stores
func New(players PlayerStore, games GameStore, stats StatsStore) *Importer {
	return &Importer{
		players: players,
		games:   games,
		stats:   stats,
	}
}

// run carries the lookups cached during one import
type run struct {
	players map[string]*store.Player
	games   map[string]*store.Game
	report  *Report
}

// Run imports every row of r, reporting progress via reporter if provided.
// Row level problems are collected in the report; store failures abort the run.
func (im *Importer) Run(ctx context.Context, r io.Reader, opts Options, reporter Reporter) (*Report, error) {
	rows, rowErrs, err := readRows(r)
	if err != nil {
		return nil, err
	}

	report := &Report{
		DryRun: opts.DryRun,
		Rows:   len(rows) + len(rowErrs),
		Failed: len(rowErrs),
		Errors: append([]RowError{}, rowErrs...),
	}
	if reporter != nil {
		reporter.OnStart(report.Rows, opts.DryRun)
		for _, re := range rowErrs {
			reporter.OnRowError(re.Line, errors.New(re.Message))
		}
	}

	state := &run{
		players: make(map[string]*store.Player),
		games:   make(map[string]*store.Game),
		report:  report,
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if opts.DryRun {
			if reporter != nil {
				reporter.OnRow(row, OutcomeChecked)
			}
			continue
		}

		outcome, err := im.importRow(ctx, state, row)
		if err != nil {
			if reporter != nil {
				reporter.OnRowError(row.Line, err)
			}
			return report, fmt.Errorf("line %d: %w", row.Line, err)
		}

		switch outcome {
		case OutcomeImported:
			report.Imported++
		case OutcomeSkipped:
			report.Skipped++
		}
		if reporter != nil {
			reporter.OnRow(row, outcome)
		}
	}

	if reporter != nil {
		reporter.OnComplete(report)
	}
	return report, nil
}

func (im *Importer) importRow(ctx context.Context, state *run, row Row) (Outcome, error) {
	player, err := im.playerFor(ctx, state, row.PlayerName)
	if err != nil {
		return "", err
	}
	game, err := im.gameFor(ctx, state, row)
	if err != nil {
		return "", err
	}

	exists, err := im.stats.ExistsForPlayerGame(ctx, player.ID, game.ID)
	if err != nil {
		return "", fmt.Errorf("checking existing entry: %w", err)
	}
	if exists {
		return OutcomeSkipped, nil
	}

	entry := &store.StatEntry{GameID: game.ID, Entry: row.Entry}
	entry.PlayerID = player.ID
	if err := im.stats.Insert(ctx, entry); err != nil {
		return "", fmt.Errorf("inserting entry: %w", err)
	}
	return OutcomeImported, nil
}

// playerFor returns the player called name, creating it with number 0 if unknown
func (im *Importer) playerFor(ctx context.Context, state *run, name string) (*store.Player, error) {
	key := strings.ToLower(name)
	if p, ok := state.players[key]; ok {
		return p, nil
	}

	player, err := im.players.GetByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		player = &store.Player{Name: name}
		if err := im.players.Create(ctx, player); err != nil {
			return nil, fmt.Errorf("creating player %q: %w", name, err)
		}
		state.report.PlayersCreated++
		log.WithFields(log.Fields{"player_id": player.ID, "name": name}).Debug("created player")
	case err != nil:
		return nil, fmt.Errorf("looking up player %q: %w", name, err)
	}

	state.players[key] = player
	return player, nil
}

// gameFor returns the game against row.Opponent on row.Date, creating a finished one if unknown
func (im *Importer) gameFor(ctx context.Context, state *run, row Row) (*store.Game, error) {
	day := row.Date.Format("2006-01-02")
	key := row.Opponent + "|" + day
	if g, ok := state.games[key]; ok {
		return g, nil
	}

	game, err := im.games.FindByOpponentAndDate(ctx, row.Opponent, day)
	switch {
	case errors.Is(err, store.ErrNotFound):
		game = &store.Game{
			Opponent: row.Opponent,
			Date:     row.Date,
			Time:     row.Time,
			Location: row.Location,
			Category: row.Category,
			Status:   store.GameStatusFinished,
		}
		if err := im.games.Create(ctx, game); err != nil {
			return nil, fmt.Errorf("creating game vs %q: %w", row.Opponent, err)
		}
		state.report.GamesCreated++
		log.WithFields(log.Fields{"game_id": game.ID, "opponent": row.Opponent, "date": day}).Debug("created game")
	case err != nil:
		return nil, fmt.Errorf("looking up game vs %q: %w", row.Opponent, err)
	}

	state.games[key] = game
	return game, nil
}

// LogReporter writes import progress to the package logger
type LogReporter struct {
	Fields log.Fields
}

func (l LogReporter) OnStart(rows int, dryRun bool) {
	log.WithFields(l.Fields).WithFields(log.Fields{"rows": rows, "dry_run": dryRun}).Info("stats import started")
}

func (l LogReporter) OnRow(row Row, outcome Outcome) {
	log.WithFields(l.Fields).WithFields(log.Fields{
		"line":     row.Line,
		"player":   row.PlayerName,
		"opponent": row.Opponent,
		"outcome":  outcome,
	}).Debug("stats import row")
}

func (l LogReporter) OnRowError(line int, err error) {
	log.WithFields(l.Fields).WithField("line", line).WithError(err).Warn("stats import row failed")
}

func (l LogReporter) OnComplete(report *Report) {
	log.WithFields(l.Fields).WithFields(log.Fields{
		"imported":        report.Imported,
		"skipped":         report.Skipped,
		"failed":          report.Failed,
		"players_created": report.PlayersCreated,
		"games_created":   report.GamesCreated,
	}).Info("✓ stats import complete")
}
