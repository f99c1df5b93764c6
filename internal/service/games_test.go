package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scoremvp/scoremvp/internal/service/mockstore"
	"github.com/scoremvp/scoremvp/internal/store"
)

func TestCreateGame_DefaultsAndValidation(t *testing.T) {
	tests := map[string]struct {
		game    *store.Game
		wantErr error
	}{
		"valid":            {game: &store.Game{Opponent: " Tigres ", Date: time.Now()}},
		"missing opponent": {game: &store.Game{Opponent: "  ", Date: time.Now()}, wantErr: ErrInvalidGame},
		"missing date":     {game: &store.Game{Opponent: "Tigres"}, wantErr: ErrInvalidGame},
		"bad status":       {game: &store.Game{Opponent: "Tigres", Date: time.Now(), Status: "LIVE"}, wantErr: ErrInvalidGame},
		"negative score":   {game: &store.Game{Opponent: "Tigres", Date: time.Now(), HomeScore: -1}, wantErr: ErrInvalidGame},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &mockstore.Games{}
			if tc.wantErr == nil {
				repo.On("Create", mock.Anything, tc.game).Return(nil)
			}

			err := NewGameService(repo).CreateGame(context.Background(), tc.game)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Tigres", tc.game.Opponent)
			assert.Equal(t, store.GameStatusPending, tc.game.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestChangeStatus(t *testing.T) {
	tests := map[string]struct {
		from, to   store.GameStatus
		wantErr    error
		wantUpdate bool
	}{
		"start":          {from: store.GameStatusPending, to: store.GameStatusInProgress, wantUpdate: true},
		"finish":         {from: store.GameStatusInProgress, to: store.GameStatusFinished, wantUpdate: true},
		"same state":     {from: store.GameStatusInProgress, to: store.GameStatusInProgress},
		"skip ahead":     {from: store.GameStatusPending, to: store.GameStatusFinished, wantErr: ErrInvalidTransition},
		"backwards":      {from: store.GameStatusFinished, to: store.GameStatusInProgress, wantErr: ErrInvalidTransition},
		"unknown status": {from: store.GameStatusPending, to: "PAUSADO", wantErr: ErrInvalidTransition},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &mockstore.Games{}
			repo.On("GetByID", mock.Anything, 3).Return(&store.Game{ID: 3, Opponent: "Leoas", Status: tc.from}, nil).Maybe()
			if tc.wantUpdate {
				repo.On("UpdateStatus", mock.Anything, 3, tc.to).Return(nil)
			}

			game, err := NewGameService(repo).ChangeStatus(context.Background(), 3, tc.to)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.to, game.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestChangeStatus_NotFound(t *testing.T) {
	repo := &mockstore.Games{}
	repo.On("GetByID", mock.Anything, 9).Return(nil, store.ErrNotFound)

	_, err := NewGameService(repo).ChangeStatus(context.Background(), 9, store.GameStatusInProgress)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateGame_Partial(t *testing.T) {
	repo := &mockstore.Games{}
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.On("GetByID", mock.Anything, 2).Return(&store.Game{
		ID: 2, Opponent: "Leoas", Date: date, Location: "Casa", Status: store.GameStatusInProgress,
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	home := 61
	game, err := NewGameService(repo).UpdateGame(context.Background(), 2, GameUpdate{HomeScore: &home})
	require.NoError(t, err)

	assert.Equal(t, 61, game.HomeScore)
	assert.Equal(t, "Casa", game.Location)
	assert.Equal(t, date, game.Date)
}

func TestUpdateGame_RejectsBackwardsStatus(t *testing.T) {
	repo := &mockstore.Games{}
	repo.On("GetByID", mock.Anything, 2).Return(&store.Game{
		ID: 2, Opponent: "Leoas", Date: time.Now(), Status: store.GameStatusFinished,
	}, nil)

	pending := store.GameStatusPending
	_, err := NewGameService(repo).UpdateGame(context.Background(), 2, GameUpdate{Status: &pending})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestListGames(t *testing.T) {
	repo := &mockstore.Games{}
	repo.On("List", mock.Anything, store.GameFilter{Limit: 10}).Return([]*store.Game{{ID: 1}}, nil)

	svc := NewGameService(repo)
	games, err := svc.ListGames(context.Background(), store.GameFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, games, 1)

	_, err = svc.ListGames(context.Background(), store.GameFilter{Status: "X"})
	assert.ErrorIs(t, err, ErrInvalidGame)

	repo.On("List", mock.Anything, store.GameFilter{}).Return(nil, errors.New("boom"))
	_, err = svc.ListGames(context.Background(), store.GameFilter{})
	assert.Error(t, err)
}
