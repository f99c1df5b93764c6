package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_Validate(t *testing.T) {
	valid := Entry{
		PlayerID: 1, Quarter: 1, Points: 10, Assists: 5, Rebounds: 8, Steals: 2, Fouls: 3,
		TwoAttempts: 5, TwoMakes: 3, ThreeAttempts: 2, ThreeMakes: 1,
		FreeThrowAttempts: 3, FreeThrowMakes: 2, Interference: 1,
	}

	tests := []struct {
		name    string
		mutate  func(e *Entry)
		wantErr error
	}{
		{name: "valid entry", mutate: func(e *Entry) {}},
		{name: "quarter zero", mutate: func(e *Entry) { e.Quarter = 0 }, wantErr: ErrInvalidQuarter},
		{name: "quarter five", mutate: func(e *Entry) { e.Quarter = 5 }, wantErr: ErrInvalidQuarter},
		{name: "negative points", mutate: func(e *Entry) { e.Points = -1 }, wantErr: ErrNegativeCounter},
		{name: "negative interference", mutate: func(e *Entry) { e.Interference = -2 }, wantErr: ErrNegativeCounter},
		{name: "two makes over attempts", mutate: func(e *Entry) { e.TwoMakes = 6 }, wantErr: ErrMakesExceedAttempts},
		{name: "three makes over attempts", mutate: func(e *Entry) { e.ThreeAttempts = 0 }, wantErr: ErrMakesExceedAttempts},
		{name: "free throw makes over attempts", mutate: func(e *Entry) { e.FreeThrowMakes = 4 }, wantErr: ErrMakesExceedAttempts},
		{name: "makes equal attempts", mutate: func(e *Entry) { e.TwoMakes = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)

			err := e.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEntry_DerivePoints(t *testing.T) {
	e := Entry{TwoMakes: 3, ThreeMakes: 1, FreeThrowMakes: 2}
	assert.Equal(t, 11, e.DerivePoints())
	assert.Equal(t, 0, Entry{}.DerivePoints())
}

func TestEntry_IsEmpty(t *testing.T) {
	assert.True(t, Entry{PlayerID: 3, Quarter: 2}.IsEmpty())
	assert.False(t, Entry{Quarter: 1, Fouls: 1}.IsEmpty())
}

func TestPercentage(t *testing.T) {
	assert.True(t, Percentage(0, 0).IsZero())
	assert.Equal(t, "50", Percentage(1, 2).String())
	assert.Equal(t, "33.3", Percentage(1, 3).String())

	line := Shooting([]Entry{{TwoAttempts: 4, TwoMakes: 1}, {TwoAttempts: 4, TwoMakes: 3}}, ShotTwo)
	assert.Equal(t, 8, line.Attempts)
	assert.Equal(t, 4, line.Makes)
	assert.Equal(t, "50", line.Percentage.String())
}
