package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scoremvp/scoremvp/internal/store"
)

// GameService handles game-related business logic
type GameService struct {
	gameRepo GameStore
}

// NewGameService creates a new game service
func NewGameService(gameRepo GameStore) *GameService {
	return &GameService{gameRepo: gameRepo}
}

// GameUpdate carries a partial game update; nil fields are left unchanged
type GameUpdate struct {
	Opponent  *string           `json:"opponent"`
	Date      *time.Time        `json:"date"`
	Time      *string           `json:"time"`
	Location  *string           `json:"location"`
	Category  *string           `json:"category"`
	HomeScore *int              `json:"home_score"`
	AwayScore *int              `json:"away_score"`
	Status    *store.GameStatus `json:"status"`
}

// GetGame retrieves a game by ID
func (s *GameService) GetGame(ctx context.Context, gameID int) (*store.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching game: %w", err)
	}
	return game, nil
}

// ListGames retrieves games matching filter, newest first
func (s *GameService) ListGames(ctx context.Context, filter store.GameFilter) ([]*store.Game, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: negative pagination", ErrInvalidGame)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidGame, filter.Status)
	}

	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching games: %w", err)
	}
	return games, nil
}

// CreateGame validates and stores a new game. New games start PENDENTE unless told otherwise.
func (s *GameService) CreateGame(ctx context.Context, game *store.Game) error {
	game.Opponent = strings.TrimSpace(game.Opponent)
	if game.Status == "" {
		game.Status = store.GameStatusPending
	}
	if err := validateGame(game); err != nil {
		return err
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	return nil
}

// UpdateGame applies a partial update. A status change obeys the forward-only lifecycle.
func (s *GameService) UpdateGame(ctx context.Context, gameID int, update GameUpdate) (*store.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching game: %w", err)
	}

	if update.Opponent != nil {
		game.Opponent = strings.TrimSpace(*update.Opponent)
	}
	if update.Date != nil {
		game.Date = *update.Date
	}
	if update.Time != nil {
		game.Time = *update.Time
	}
	if update.Location != nil {
		game.Location = *update.Location
	}
	if update.Category != nil {
		game.Category = *update.Category
	}
	if update.HomeScore != nil {
		game.HomeScore = *update.HomeScore
	}
	if update.AwayScore != nil {
		game.AwayScore = *update.AwayScore
	}
	if update.Status != nil {
		if !game.Status.CanTransitionTo(*update.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, game.Status, *update.Status)
		}
		game.Status = *update.Status
	}

	if err := validateGame(game); err != nil {
		return nil, err
	}

	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("updating game: %w", err)
	}
	return game, nil
}

// ChangeStatus moves a game along PENDENTE -> EM_ANDAMENTO -> FINALIZADO
func (s *GameService) ChangeStatus(ctx context.Context, gameID int, next store.GameStatus) (*store.Game, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching game: %w", err)
	}

	if !game.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, game.Status, next)
	}
	if game.Status == next {
		return game, nil
	}

	if err := s.gameRepo.UpdateStatus(ctx, gameID, next); err != nil {
		return nil, fmt.Errorf("updating game status: %w", err)
	}
	game.Status = next
	return game, nil
}

// DeleteGame removes a game and its stat entries
func (s *GameService) DeleteGame(ctx context.Context, gameID int) error {
	if err := s.gameRepo.Delete(ctx, gameID); err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	return nil
}

func validateGame(game *store.Game) error {
	switch {
	case game.Opponent == "":
		return fmt.Errorf("%w: opponent is required", ErrInvalidGame)
	case game.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidGame)
	case !game.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidGame, game.Status)
	case game.HomeScore < 0 || game.AwayScore < 0:
		return fmt.Errorf("%w: scores must be non-negative", ErrInvalidGame)
	}
	return nil
}
