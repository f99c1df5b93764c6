package service

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

// StatsService handles stat recording and game summaries
type StatsService struct {
	statsRepo   StatsStore
	publisher   EventPublisher
	idempotency IdempotencyStore
}

// NewStatsService creates a new stats service. publisher and idempotency may be nil.
func NewStatsService(statsRepo StatsStore, publisher EventPublisher, idempotency IdempotencyStore) *StatsService {
	return &StatsService{
		statsRepo:   statsRepo,
		publisher:   publisher,
		idempotency: idempotency,
	}
}

// ComputeGameSummary totals a game's entries overall and per quarter.
// A game without entries, known or not, yields an all-zero summary.
func (s *StatsService) ComputeGameSummary(ctx context.Context, gameID int) (*stats.Summary, error) {
	entries, err := s.statsRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching stat entries: %w", err)
	}

	return stats.Summarize(entries), nil
}

// ListPlayerStats returns the game's entries joined with player identity
func (s *StatsService) ListPlayerStats(ctx context.Context, gameID int, filter store.StatFilter) ([]*store.StatEntryWithPlayer, error) {
	lines, err := s.statsRepo.ListByGameWithPlayer(ctx, gameID, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching player stat lines: %w", err)
	}

	return lines, nil
}

// RecordPlayerStats validates and persists one stat line, then announces it.
// Announcement failures are logged and do not fail the write.
func (s *StatsService) RecordPlayerStats(ctx context.Context, gameID int, entry stats.Entry) (*store.StatEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	record := &store.StatEntry{GameID: gameID, Entry: entry}
	if err := s.statsRepo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("recording stat entry: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatRecorded(ctx, record); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"game_id":  gameID,
				"entry_id": record.ID,
			}).Warn("failed to publish stats.recorded")
		}
	}

	return record, nil
}

// RecordPlayerStatsOnce behaves like RecordPlayerStats, but a repeated non-empty key for
// the same game replays the first result instead of writing again. replayed reports a replay.
// A repeat arriving while the first request still runs gets ErrRequestInFlight.
func (s *StatsService) RecordPlayerStatsOnce(ctx context.Context, gameID int, key string, entry stats.Entry) (record *store.StatEntry, replayed bool, err error) {
	if key == "" || s.idempotency == nil {
		record, err = s.RecordPlayerStats(ctx, gameID, entry)
		return record, false, err
	}

	scoped := fmt.Sprintf("%d:%s", gameID, key)
	logger := log.WithFields(log.Fields{"game_id": gameID, "idempotency_key": key})

	reserved, payload, err := s.idempotency.Reserve(ctx, scoped)
	switch {
	case err != nil:
		logger.WithError(err).Warn("idempotency reservation failed, recording anyway")
		record, err = s.RecordPlayerStats(ctx, gameID, entry)
		return record, false, err
	case !reserved && payload == nil:
		return nil, false, ErrRequestInFlight
	case !reserved:
		var previous store.StatEntry
		if err := json.Unmarshal(payload, &previous); err != nil {
			return nil, false, fmt.Errorf("reading idempotency record: %w", err)
		}
		return &previous, true, nil
	}

	record, err = s.RecordPlayerStats(ctx, gameID, entry)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, scoped); relErr != nil {
			logger.WithError(relErr).Warn("failed to release idempotency key")
		}
		return nil, false, err
	}

	if payload, err := json.Marshal(record); err == nil {
		if err := s.idempotency.Remember(ctx, scoped, payload); err != nil {
			logger.WithError(err).Warn("failed to remember idempotency key")
		}
	}

	return record, false, nil
}
