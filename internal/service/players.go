package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/roster"
	"github.com/scoremvp/scoremvp/internal/store"
)

// PlayerService handles player-related business logic
type PlayerService struct {
	playerRepo PlayerStore
}

// NewPlayerService creates a new player service
func NewPlayerService(playerRepo PlayerStore) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

// PlayerUpdate carries a partial player update; nil fields are left unchanged
type PlayerUpdate struct {
	Name     *string `json:"nome"`
	Number   *int    `json:"numero"`
	Position *string `json:"posicao"`
}

// ImportResult reports what a roster import did
type ImportResult struct {
	Created []*store.Player `json:"criadas"`
	Skipped []string        `json:"ignoradas"`
}

// GetPlayer retrieves a player by ID
func (s *PlayerService) GetPlayer(ctx context.Context, playerID int) (*store.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetching player: %w", err)
	}
	return player, nil
}

// ListPlayers returns the whole roster
func (s *PlayerService) ListPlayers(ctx context.Context) ([]*store.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	return players, nil
}

// CreatePlayer validates and stores a new player
func (s *PlayerService) CreatePlayer(ctx context.Context, player *store.Player) error {
	player.Name = strings.TrimSpace(player.Name)
	if err := validatePlayer(player); err != nil {
		return err
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	return nil
}

// UpdatePlayer applies a partial update
func (s *PlayerService) UpdatePlayer(ctx context.Context, playerID int, update PlayerUpdate) (*store.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetching player: %w", err)
	}

	if update.Name != nil {
		player.Name = strings.TrimSpace(*update.Name)
	}
	if update.Number != nil {
		player.Number = *update.Number
	}
	if update.Position != nil {
		player.Position = *update.Position
	}

	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("updating player: %w", err)
	}
	return player, nil
}

// DeletePlayer removes a player and the player's stat entries
func (s *PlayerService) DeletePlayer(ctx context.Context, playerID int) error {
	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("deleting player: %w", err)
	}
	return nil
}

// ImportRoster creates a player for every row of an HTML roster table.
// Rows whose name already exists are skipped.
func (s *PlayerService) ImportRoster(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := roster.Parse(r)
	if err != nil {
		if errors.Is(err, roster.ErrNoRoster) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlayer, err)
		}
		return nil, err
	}

	result := &ImportResult{Created: []*store.Player{}, Skipped: []string{}}
	for _, row := range rows {
		_, err := s.playerRepo.GetByName(ctx, row.Name)
		switch {
		case err == nil:
			result.Skipped = append(result.Skipped, row.Name)
			continue
		case !errors.Is(err, store.ErrNotFound):
			return result, fmt.Errorf("looking up %q: %w", row.Name, err)
		}

		player := &store.Player{Name: row.Name, Number: row.Number, Position: row.Position}
		if err := s.CreatePlayer(ctx, player); err != nil {
			return result, err
		}
		result.Created = append(result.Created, player)
	}

	log.WithFields(log.Fields{
		"created": len(result.Created),
		"skipped": len(result.Skipped),
	}).Info("roster imported")

	return result, nil
}

func validatePlayer(player *store.Player) error {
	switch {
	case player.Name == "":
		return fmt.Errorf("%w: nome is required", ErrInvalidPlayer)
	case player.Number < 0:
		return fmt.Errorf("%w: numero must be non-negative", ErrInvalidPlayer)
	}
	return nil
}
