package recording

import (
	"errors"

	"github.com/scoremvp/scoremvp/internal/stats"
)

// ErrPlayerRequired is returned when a submission has no player selected.
var ErrPlayerRequired = errors.New("a player must be selected")

// ShotField holds one attempts/makes pair as typed into the form. The pair may
// be inconsistent while editing; Validate catches it before submission.
type ShotField struct {
	Attempts int
	Makes    int
}

// SetAttempts changes attempts and leaves makes untouched
func (f *ShotField) SetAttempts(n int) {
	f.Attempts = n
}

// SetMakes changes makes
func (f *ShotField) SetMakes(n int) {
	f.Makes = n
}

// MakesHint is the largest makes value the pair accepts.
func (f ShotField) MakesHint() int {
	if f.Attempts < 0 {
		return 0
	}
	return f.Attempts
}

// FormState is everything the recording form holds between submissions.
// PlayerID zero means no player is selected.
type FormState struct {
	PlayerID     int
	Quarter      int
	Points       int
	Assists      int
	Rebounds     int
	Steals       int
	Fouls        int
	Interference int
	Two          ShotField
	Three        ShotField
	FreeThrow    ShotField
}

// NewFormState returns the defaults: no player, first quarter, zero counters.
func NewFormState() FormState {
	return FormState{Quarter: 1}
}

// Entry packs the state into the payload sent to the API
func (s FormState) Entry() stats.Entry {
	return stats.Entry{
		PlayerID:          s.PlayerID,
		Quarter:           s.Quarter,
		Points:            s.Points,
		Assists:           s.Assists,
		Rebounds:          s.Rebounds,
		Steals:            s.Steals,
		Fouls:             s.Fouls,
		TwoAttempts:       s.Two.Attempts,
		TwoMakes:          s.Two.Makes,
		ThreeAttempts:     s.Three.Attempts,
		ThreeMakes:        s.Three.Makes,
		FreeThrowAttempts: s.FreeThrow.Attempts,
		FreeThrowMakes:    s.FreeThrow.Makes,
		Interference:      s.Interference,
	}
}

// Validate applies the same rules as the server, plus the player requirement.
func (s FormState) Validate() error {
	if s.PlayerID <= 0 {
		return ErrPlayerRequired
	}
	return s.Entry().Validate()
}
