package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

// RecentGamesLimit is how many games the overview lists
const RecentGamesLimit = 5

// DashboardService builds the team overview
type DashboardService struct {
	statsRepo DashboardStore
	gameRepo  GameLister
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(statsRepo DashboardStore, gameRepo GameLister) *DashboardService {
	return &DashboardService{
		statsRepo: statsRepo,
		gameRepo:  gameRepo,
	}
}

// Overview is the team dashboard for a date window
type Overview struct {
	TotalGames  int               `json:"total_jogos"`
	General     GeneralStats      `json:"estatisticas_gerais"`
	Shooting    ShootingBreakdown `json:"arremessos"`
	TopScorer   *store.TopScorer  `json:"jogadora_mais_pontos"`
	RecentGames []*store.Game     `json:"ultimos_jogos"`
}

// GeneralStats holds team totals and per-entry averages
type GeneralStats struct {
	TotalPoints   int             `json:"total_pontos"`
	TotalAssists  int             `json:"total_assistencias"`
	TotalRebounds int             `json:"total_rebotes"`
	TotalSteals   int             `json:"total_roubos"`
	TotalFouls    int             `json:"total_faltas"`
	AvgPoints     decimal.Decimal `json:"media_pontos"`
	AvgAssists    decimal.Decimal `json:"media_assistencias"`
	AvgRebounds   decimal.Decimal `json:"media_rebotes"`
	AvgSteals     decimal.Decimal `json:"media_roubos"`
	AvgFouls      decimal.Decimal `json:"media_faltas"`
}

// ShootingBreakdown is the team's split per shot kind
type ShootingBreakdown struct {
	Two       stats.ShootingLine `json:"dois"`
	Three     stats.ShootingLine `json:"tres"`
	FreeThrow stats.ShootingLine `json:"lance"`
}

// GetOverview aggregates totals, averages, the top scorer and the latest games in filter's window.
// Limit and Offset of filter are ignored.
func (s *DashboardService) GetOverview(ctx context.Context, filter store.GameFilter) (*Overview, error) {
	window := store.GameFilter{From: filter.From, To: filter.To}

	totalGames, err := s.gameRepo.Count(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("counting games: %w", err)
	}

	overview := &Overview{
		TotalGames:  totalGames,
		General:     generalStats(&store.TeamTotals{}),
		RecentGames: []*store.Game{},
	}
	if totalGames == 0 {
		return overview, nil
	}

	totals, err := s.statsRepo.TeamTotals(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetching team totals: %w", err)
	}
	overview.General = generalStats(totals)

	lines := []stats.Entry{totals.Shooting}
	overview.Shooting = ShootingBreakdown{
		Two:       stats.Shooting(lines, stats.ShotTwo),
		Three:     stats.Shooting(lines, stats.ShotThree),
		FreeThrow: stats.Shooting(lines, stats.ShotFreeThrow),
	}

	overview.TopScorer, err = s.statsRepo.TopScorer(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetching top scorer: %w", err)
	}

	window.Limit = RecentGamesLimit
	overview.RecentGames, err = s.gameRepo.List(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetching recent games: %w", err)
	}

	return overview, nil
}

func generalStats(t *store.TeamTotals) GeneralStats {
	return GeneralStats{
		TotalPoints:   t.Points,
		TotalAssists:  t.Assists,
		TotalRebounds: t.Rebounds,
		TotalSteals:   t.Steals,
		TotalFouls:    t.Fouls,
		AvgPoints:     average(t.Points, t.Entries),
		AvgAssists:    average(t.Assists, t.Entries),
		AvgRebounds:   average(t.Rebounds, t.Entries),
		AvgSteals:     average(t.Steals, t.Entries),
		AvgFouls:      average(t.Fouls, t.Entries),
	}
}

// average divides with a zero check and rounds to two places
func average(total, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(count))).Round(2)
}

// PlayerRankingLine is one player's totals and per-entry averages over a window
type PlayerRankingLine struct {
	store.PlayerIdentity
	Games         int             `json:"total_jogos"`
	Entries       int             `json:"total_registros"`
	TotalPoints   int             `json:"total_pontos"`
	TotalAssists  int             `json:"total_assistencias"`
	TotalRebounds int             `json:"total_rebotes"`
	TotalSteals   int             `json:"total_roubos"`
	TotalFouls    int             `json:"total_faltas"`
	AvgPoints     decimal.Decimal `json:"media_pontos"`
	AvgAssists    decimal.Decimal `json:"media_assistencias"`
	AvgRebounds   decimal.Decimal `json:"media_rebotes"`
	AvgSteals     decimal.Decimal `json:"media_roubos"`
	AvgFouls      decimal.Decimal `json:"media_faltas"`
}

// PlayerRanking lists every player with entries in filter's window, top scorers first.
func (s *DashboardService) PlayerRanking(ctx context.Context, filter store.GameFilter) ([]*PlayerRankingLine, error) {
	window := store.GameFilter{From: filter.From, To: filter.To}

	totals, err := s.statsRepo.PlayerTotals(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetching player totals: %w", err)
	}

	ranking := make([]*PlayerRankingLine, 0, len(totals))
	for _, t := range totals {
		ranking = append(ranking, &PlayerRankingLine{
			PlayerIdentity: t.PlayerIdentity,
			Games:          t.Games,
			Entries:        t.Entries,
			TotalPoints:    t.Points,
			TotalAssists:   t.Assists,
			TotalRebounds:  t.Rebounds,
			TotalSteals:    t.Steals,
			TotalFouls:     t.Fouls,
			AvgPoints:      average(t.Points, t.Entries),
			AvgAssists:     average(t.Assists, t.Entries),
			AvgRebounds:    average(t.Rebounds, t.Entries),
			AvgSteals:      average(t.Steals, t.Entries),
			AvgFouls:       average(t.Fouls, t.Entries),
		})
	}
	return ranking, nil
}

// GameBreakdownLine is one game with its totals, quarter buckets and number of players used
type GameBreakdownLine struct {
	ID       int              `json:"id"`
	Opponent string           `json:"opponent"`
	Date     time.Time        `json:"date"`
	Status   store.GameStatus `json:"status"`
	Players  int              `json:"total_jogadoras"`
	stats.Summary
}

// GameBreakdown summarizes every game in filter's window, latest first.
// Games without entries are listed with zero totals.
func (s *DashboardService) GameBreakdown(ctx context.Context, filter store.GameFilter) ([]*GameBreakdownLine, error) {
	window := store.GameFilter{From: filter.From, To: filter.To}

	games, err := s.gameRepo.List(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	if len(games) == 0 {
		return []*GameBreakdownLine{}, nil
	}

	entries, err := s.statsRepo.ListInWindow(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetching stat entries: %w", err)
	}

	byGame := make(map[int][]stats.Entry)
	players := make(map[int]map[int]bool)
	for _, e := range entries {
		byGame[e.GameID] = append(byGame[e.GameID], e.Entry)
		if players[e.GameID] == nil {
			players[e.GameID] = make(map[int]bool)
		}
		players[e.GameID][e.PlayerID] = true
	}

	lines := make([]*GameBreakdownLine, 0, len(games))
	for _, g := range games {
		lines = append(lines, &GameBreakdownLine{
			ID:       g.ID,
			Opponent: g.Opponent,
			Date:     g.Date,
			Status:   g.Status,
			Players:  len(players[g.ID]),
			Summary:  *stats.Summarize(byGame[g.ID]),
		})
	}
	return lines, nil
}
