package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scoremvp/scoremvp/internal/service/mockstore"
	"github.com/scoremvp/scoremvp/internal/store"
)

func TestCreatePlayer_Validation(t *testing.T) {
	repo := &mockstore.Players{}
	svc := NewPlayerService(repo)

	err := svc.CreatePlayer(context.Background(), &store.Player{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	err = svc.CreatePlayer(context.Background(), &store.Player{Name: "Ana", Number: -3})
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdatePlayer_Partial(t *testing.T) {
	repo := &mockstore.Players{}
	repo.On("GetByID", mock.Anything, 4).Return(&store.Player{ID: 4, Name: "Ana", Number: 7, Position: "Ala"}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	number := 10
	player, err := NewPlayerService(repo).UpdatePlayer(context.Background(), 4, PlayerUpdate{Number: &number})
	require.NoError(t, err)

	assert.Equal(t, "Ana", player.Name)
	assert.Equal(t, 10, player.Number)
	assert.Equal(t, "Ala", player.Position)
}

func TestDeletePlayer_NotFound(t *testing.T) {
	repo := &mockstore.Players{}
	repo.On("Delete", mock.Anything, 8).Return(store.ErrNotFound)

	err := NewPlayerService(repo).DeletePlayer(context.Background(), 8)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportRoster(t *testing.T) {
	html := `<table>
		<tr><th>Nome</th><th>Número</th><th>Posição</th></tr>
		<tr><td>Ana</td><td>7</td><td>Ala</td></tr>
		<tr><td>Bia</td><td>9</td><td>Pivô</td></tr>
	</table>`

	repo := &mockstore.Players{}
	repo.On("GetByName", mock.Anything, "Ana").Return(&store.Player{ID: 1, Name: "Ana"}, nil)
	repo.On("GetByName", mock.Anything, "Bia").Return(nil, store.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *store.Player) bool {
		return p.Name == "Bia" && p.Number == 9 && p.Position == "Pivô"
	})).Run(func(args mock.Arguments) { args.Get(1).(*store.Player).ID = 2 }).Return(nil)

	result, err := NewPlayerService(repo).ImportRoster(context.Background(), strings.NewReader(html))
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	assert.Equal(t, 2, result.Created[0].ID)
	assert.Equal(t, []string{"Ana"}, result.Skipped)
	repo.AssertExpectations(t)
}

func TestImportRoster_NoTable(t *testing.T) {
	_, err := NewPlayerService(&mockstore.Players{}).ImportRoster(context.Background(), strings.NewReader("<p>oi</p>"))
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestImportRoster_LookupError(t *testing.T) {
	repo := &mockstore.Players{}
	repo.On("GetByName", mock.Anything, "Ana").Return(nil, errors.New("db down"))

	_, err := NewPlayerService(repo).ImportRoster(context.Background(),
		strings.NewReader(`<table><tr><th>Nome</th></tr><tr><td>Ana</td></tr></table>`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPlayer)
}
