package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

// Shared across the package's tests; nil when integration tests are disabled.
var testDB *store.Database

func TestMain(m *testing.M) {
	if os.Getenv("SCOREMVP_INTEGRATION") != "1" {
		fmt.Println("skipping repository tests: set SCOREMVP_INTEGRATION=1 to run against postgres")
		os.Exit(0)
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16.3-alpine",
		postgres.WithDatabase("scoremvp"),
		postgres.WithUsername("scoremvp"),
		postgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("error starting container: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		defer func() {
			if err := container.Terminate(context.Background()); err != nil {
				fmt.Printf("error terminating container: %v\n", err)
			}
		}()

		// the container is not configured for TLS
		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("error getting connection string: %v\n", err)
			return 1
		}

		testDB, err = store.NewDatabase(dsn)
		if err != nil {
			fmt.Printf("error connecting to db: %v\n", err)
			return 1
		}
		defer testDB.Close()

		if err := testDB.RunMigrations(ctx); err != nil {
			fmt.Printf("error running migrations: %v\n", err)
			return 1
		}

		return m.Run()
	}()

	os.Exit(code)
}

func seedGame(t *testing.T, opponent string, date time.Time) *store.Game {
	t.Helper()
	game := &store.Game{Opponent: opponent, Date: date, Category: "sub-15"}
	require.NoError(t, NewGameRepository(testDB).Create(context.Background(), game))
	return game
}

func seedPlayer(t *testing.T, name string, number int) *store.Player {
	t.Helper()
	player := &store.Player{Name: name, Number: number, Position: "Ala"}
	require.NoError(t, NewPlayerRepository(testDB).Create(context.Background(), player))
	return player
}

func TestMigrationsAreIdempotent(t *testing.T) {
	require.NoError(t, testDB.RunMigrations(context.Background()))
}

func TestGameRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(testDB)

	game := seedGame(t, "Tigres", time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
	assert.NotZero(t, game.ID)
	assert.Equal(t, store.GameStatusPending, game.Status)

	got, err := repo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tigres", got.Opponent)
	assert.Equal(t, "sub-15", got.Category)
	assert.Empty(t, got.Location)

	got.HomeScore = 54
	got.Location = "Ginásio Municipal"
	require.NoError(t, repo.Update(ctx, got))
	require.NoError(t, repo.UpdateStatus(ctx, got.ID, store.GameStatusInProgress))

	again, err := repo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 54, again.HomeScore)
	assert.Equal(t, "Ginásio Municipal", again.Location)
	assert.Equal(t, store.GameStatusInProgress, again.Status)

	found, err := repo.FindByOpponentAndDate(ctx, "Tigres", "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, game.ID, found.ID)
}

func TestGameRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(testDB)

	_, err := repo.GetByID(ctx, 999999)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = repo.Delete(ctx, 999999)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestGameRepository_ListFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(testDB)

	seedGame(t, "Filtro A", time.Date(2031, 1, 5, 0, 0, 0, 0, time.UTC))
	seedGame(t, "Filtro B", time.Date(2031, 1, 20, 0, 0, 0, 0, time.UTC))

	games, err := repo.List(ctx, store.GameFilter{
		From: time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2031, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Filtro B", games[0].Opponent)

	limited, err := repo.List(ctx, store.GameFilter{From: time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStatsRepository_InsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewStatsRepository(testDB)

	game := seedGame(t, "Leoas", time.Now())
	player := seedPlayer(t, "Ana", 7)

	entry := &store.StatEntry{GameID: game.ID, Entry: stats.Entry{
		PlayerID: player.ID, Quarter: 2, Points: 10, Assists: 5, Rebounds: 8, Steals: 2, Fouls: 3,
		TwoAttempts: 5, TwoMakes: 3, ThreeAttempts: 2, ThreeMakes: 1, FreeThrowAttempts: 3, FreeThrowMakes: 2,
		Interference: 1,
	}}
	require.NoError(t, repo.Insert(ctx, entry))
	assert.NotZero(t, entry.ID)

	entries, err := repo.ListByGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.Entry, entries[0])

	lines, err := repo.ListByGameWithPlayer(ctx, game.ID, store.StatFilter{})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Ana", lines[0].Player.Name)
	assert.Equal(t, 7, lines[0].Player.Number)

	none, err := repo.ListByGameWithPlayer(ctx, game.ID, store.StatFilter{Quarter: 1})
	require.NoError(t, err)
	assert.Empty(t, none)

	exists, err := repo.ExistsForPlayerGame(ctx, player.ID, game.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStatsRepository_InsertUnknownGame(t *testing.T) {
	player := seedPlayer(t, "Bia", 4)

	err := NewStatsRepository(testDB).Insert(context.Background(), &store.StatEntry{
		GameID: 999999,
		Entry:  stats.Entry{PlayerID: player.ID, Quarter: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrInvalidReference))
}

func TestStatsRepository_TeamTotalsAndTopScorer(t *testing.T) {
	ctx := context.Background()
	repo := NewStatsRepository(testDB)

	day := time.Date(2035, 6, 1, 0, 0, 0, 0, time.UTC)
	game := seedGame(t, "Totais", day)
	ana := seedPlayer(t, "Ana Totais", 1)
	bia := seedPlayer(t, "Bia Totais", 2)

	for _, e := range []stats.Entry{
		{PlayerID: ana.ID, Quarter: 1, Points: 10, Assists: 2},
		{PlayerID: bia.ID, Quarter: 1, Points: 4, Rebounds: 6},
		{PlayerID: ana.ID, Quarter: 2, Points: 3, Fouls: 1},
	} {
		require.NoError(t, repo.Insert(ctx, &store.StatEntry{GameID: game.ID, Entry: e}))
	}

	window := store.GameFilter{From: day, To: day.Add(24 * time.Hour)}

	totals, err := repo.TeamTotals(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, 3, totals.Entries)
	assert.Equal(t, 17, totals.Points)
	assert.Equal(t, 6, totals.Rebounds)

	top, err := repo.TopScorer(ctx, window)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, ana.ID, top.PlayerID)
	assert.Equal(t, 13, top.Points)

	empty := store.GameFilter{From: day.Add(48 * time.Hour), To: day.Add(72 * time.Hour)}
	top, err = repo.TopScorer(ctx, empty)
	require.NoError(t, err)
	assert.Nil(t, top)
}

func TestStatsRepository_PlayerTotalsAndWindowEntries(t *testing.T) {
	ctx := context.Background()
	repo := NewStatsRepository(testDB)

	day := time.Date(2036, 2, 1, 0, 0, 0, 0, time.UTC)
	first := seedGame(t, "Ranking A", day)
	second := seedGame(t, "Ranking B", day.Add(2*time.Hour))
	ana := seedPlayer(t, "Ana Ranking", 5)
	bia := seedPlayer(t, "Bia Ranking", 6)

	for _, e := range []*store.StatEntry{
		{GameID: first.ID, Entry: stats.Entry{PlayerID: ana.ID, Quarter: 1, Points: 8, Assists: 1}},
		{GameID: first.ID, Entry: stats.Entry{PlayerID: ana.ID, Quarter: 3, Points: 4}},
		{GameID: second.ID, Entry: stats.Entry{PlayerID: ana.ID, Quarter: 1, Points: 2}},
		{GameID: second.ID, Entry: stats.Entry{PlayerID: bia.ID, Quarter: 2, Points: 5, Rebounds: 7}},
	} {
		require.NoError(t, repo.Insert(ctx, e))
	}

	window := store.GameFilter{From: day, To: day.Add(24 * time.Hour)}

	ranking, err := repo.PlayerTotals(ctx, window)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, ana.ID, ranking[0].ID)
	assert.Equal(t, "Ana Ranking", ranking[0].Name)
	assert.Equal(t, 2, ranking[0].Games)
	assert.Equal(t, 3, ranking[0].Entries)
	assert.Equal(t, 14, ranking[0].Points)
	assert.Equal(t, 7, ranking[1].Rebounds)

	entries, err := repo.ListInWindow(ctx, window)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, first.ID, entries[0].GameID)
	assert.Equal(t, second.ID, entries[3].GameID)

	empty, err := repo.PlayerTotals(ctx, store.GameFilter{From: day.Add(48 * time.Hour), To: day.Add(72 * time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
