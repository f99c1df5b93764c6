package stats

import (
	"errors"
	"fmt"
)

// NumQuarters is the number of regulation quarters tracked per game.
const NumQuarters = 4

var (
	ErrInvalidQuarter      = errors.New("quarter must be between 1 and 4")
	ErrNegativeCounter     = errors.New("stat counters must be non-negative")
	ErrMakesExceedAttempts = errors.New("makes cannot exceed attempts")
)

// ShotKind identifies one of the three shooting categories.
type ShotKind string

const (
	ShotTwo       ShotKind = "dois"
	ShotThree     ShotKind = "tres"
	ShotFreeThrow ShotKind = "lance"
)

// Value returns the points a make in this category is worth.
func (k ShotKind) Value() int {
	switch k {
	case ShotTwo:
		return 2
	case ShotThree:
		return 3
	case ShotFreeThrow:
		return 1
	}
	return 0
}

// Entry is one player's recorded line for one quarter of one game.
type Entry struct {
	PlayerID          int `json:"jogadora_id"`
	Quarter           int `json:"quarto"`
	Points            int `json:"pontos"`
	Assists           int `json:"assistencias"`
	Rebounds          int `json:"rebotes"`
	Steals            int `json:"roubos"`
	Fouls             int `json:"faltas"`
	TwoAttempts       int `json:"dois_tentativas"`
	TwoMakes          int `json:"dois_acertos"`
	ThreeAttempts     int `json:"tres_tentativas"`
	ThreeMakes        int `json:"tres_acertos"`
	FreeThrowAttempts int `json:"lance_tentativas"`
	FreeThrowMakes    int `json:"lance_acertos"`
	Interference      int `json:"interferencia"`
}

// Validate checks the quarter range, counter signs and makes <= attempts for every shot kind.
func (e Entry) Validate() error {
	if e.Quarter < 1 || e.Quarter > NumQuarters {
		return fmt.Errorf("%w: got %d", ErrInvalidQuarter, e.Quarter)
	}

	for name, v := range e.counters() {
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeCounter, name, v)
		}
	}

	for _, kind := range []ShotKind{ShotTwo, ShotThree, ShotFreeThrow} {
		attempts, makes := e.Shots(kind)
		if makes > attempts {
			return fmt.Errorf("%w: %s %d/%d", ErrMakesExceedAttempts, kind, makes, attempts)
		}
	}

	return nil
}

// Shots returns the attempts and makes recorded for kind.
func (e Entry) Shots(kind ShotKind) (attempts, makes int) {
	switch kind {
	case ShotTwo:
		return e.TwoAttempts, e.TwoMakes
	case ShotThree:
		return e.ThreeAttempts, e.ThreeMakes
	case ShotFreeThrow:
		return e.FreeThrowAttempts, e.FreeThrowMakes
	}
	return 0, 0
}

// DerivePoints computes points from makes: 2 per two, 3 per three, 1 per free throw.
func (e Entry) DerivePoints() int {
	return e.TwoMakes*ShotTwo.Value() + e.ThreeMakes*ShotThree.Value() + e.FreeThrowMakes*ShotFreeThrow.Value()
}

// IsEmpty reports whether every counter is zero.
func (e Entry) IsEmpty() bool {
	for _, v := range e.counters() {
		if v != 0 {
			return false
		}
	}
	return true
}

func (e Entry) counters() map[string]int {
	return map[string]int{
		"pontos":           e.Points,
		"assistencias":     e.Assists,
		"rebotes":          e.Rebounds,
		"roubos":           e.Steals,
		"faltas":           e.Fouls,
		"dois_tentativas":  e.TwoAttempts,
		"dois_acertos":     e.TwoMakes,
		"tres_tentativas":  e.ThreeAttempts,
		"tres_acertos":     e.ThreeMakes,
		"lance_tentativas": e.FreeThrowAttempts,
		"lance_acertos":    e.FreeThrowMakes,
		"interferencia":    e.Interference,
	}
}
