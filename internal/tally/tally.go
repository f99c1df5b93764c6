package tally

import "github.com/scoremvp/scoremvp/internal/stats"

// Stat is one button of the quick-entry panel
type Stat string

const (
	StatTwo       Stat = "dois"
	StatThree     Stat = "tres"
	StatFreeThrow Stat = "lance"
	StatRebound   Stat = "rebotes"
	StatAssist    Stat = "assistencias"
	StatFoul      Stat = "faltas"
	StatBlock     Stat = "tocos"
	StatTurnover  Stat = "erros"
	StatSteal     Stat = "roubos"
)

// IsShot reports whether the stat uses the attempt/make confirmation.
func (s Stat) IsShot() bool {
	return s == StatTwo || s == StatThree || s == StatFreeThrow
}

// Tally is the running count of one player in the panel. Blocks and turnovers
// are tracked for the bench only; the API has no column for them.
type Tally struct {
	TwoAttempts       int `json:"dois_tentativas"`
	TwoMakes          int `json:"dois_acertos"`
	ThreeAttempts     int `json:"tres_tentativas"`
	ThreeMakes        int `json:"tres_acertos"`
	FreeThrowAttempts int `json:"lance_tentativas"`
	FreeThrowMakes    int `json:"lance_acertos"`
	Rebounds          int `json:"rebotes"`
	Assists           int `json:"assistencias"`
	Fouls             int `json:"faltas"`
	Blocks            int `json:"tocos"`
	Turnovers         int `json:"erros"`
	Steals            int `json:"roubos"`
}

// IsEmpty reports whether nothing was tallied
func (t Tally) IsEmpty() bool {
	return t == Tally{}
}

// Entry converts the tally into a stat line with points derived from makes.
func (t Tally) Entry(playerID, quarter int) stats.Entry {
	e := stats.Entry{
		PlayerID:          playerID,
		Quarter:           quarter,
		Assists:           t.Assists,
		Rebounds:          t.Rebounds,
		Steals:            t.Steals,
		Fouls:             t.Fouls,
		TwoAttempts:       t.TwoAttempts,
		TwoMakes:          t.TwoMakes,
		ThreeAttempts:     t.ThreeAttempts,
		ThreeMakes:        t.ThreeMakes,
		FreeThrowAttempts: t.FreeThrowAttempts,
		FreeThrowMakes:    t.FreeThrowMakes,
	}
	e.Points = e.DerivePoints()
	return e
}

// Points derived from the makes so far
func (t Tally) Points() int {
	return t.Entry(0, 1).Points
}

// Known reports whether s is one of the panel's buttons
func (s Stat) Known() bool {
	switch s {
	case StatTwo, StatThree, StatFreeThrow, StatRebound, StatAssist, StatFoul, StatBlock, StatTurnover, StatSteal:
		return true
	}
	return false
}

func (t *Tally) fields() []*int {
	return []*int{
		&t.TwoAttempts, &t.TwoMakes, &t.ThreeAttempts, &t.ThreeMakes, &t.FreeThrowAttempts, &t.FreeThrowMakes,
		&t.Rebounds, &t.Assists, &t.Fouls, &t.Blocks, &t.Turnovers, &t.Steals,
	}
}

// add applies d to t
func (t *Tally) add(d Tally) {
	dst, src := t.fields(), d.fields()
	for i := range dst {
		*dst[i] += *src[i]
	}
}

// sub removes d from t; counts stop at zero.
func (t *Tally) sub(d Tally) {
	dst, src := t.fields(), d.fields()
	for i := range dst {
		*dst[i] = max(*dst[i]-*src[i], 0)
	}
}

// attempt is the increment of a first tap on stat
func attempt(stat Stat) Tally {
	switch stat {
	case StatTwo:
		return Tally{TwoAttempts: 1}
	case StatThree:
		return Tally{ThreeAttempts: 1}
	case StatFreeThrow:
		return Tally{FreeThrowAttempts: 1}
	case StatRebound:
		return Tally{Rebounds: 1}
	case StatAssist:
		return Tally{Assists: 1}
	case StatFoul:
		return Tally{Fouls: 1}
	case StatBlock:
		return Tally{Blocks: 1}
	case StatTurnover:
		return Tally{Turnovers: 1}
	case StatSteal:
		return Tally{Steals: 1}
	}
	return Tally{}
}

// makeOf is the increment of a confirming second tap on a shot stat
func makeOf(stat Stat) Tally {
	switch stat {
	case StatTwo:
		return Tally{TwoMakes: 1}
	case StatThree:
		return Tally{ThreeMakes: 1}
	case StatFreeThrow:
		return Tally{FreeThrowMakes: 1}
	}
	return Tally{}
}
