package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned when a payload field is not an integer or a numeric string.
var ErrInvalidNumber = errors.New("stat fields must be integers")

// IsValidationError reports whether err was caused by a malformed or inconsistent stat line.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidQuarter) ||
		errors.Is(err, ErrNegativeCounter) ||
		errors.Is(err, ErrMakesExceedAttempts) ||
		errors.Is(err, ErrInvalidNumber)
}

// Payload is the wire form of a stat line. Fields may be JSON numbers or numeric
// strings; fractional values are truncated and missing fields are zero.
type Payload struct {
	Entry
	// PointsSet records whether pontos was present in the body.
	PointsSet bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Payload{}
	fields := p.Entry.fields()
	for name, value := range raw {
		dst, ok := fields[name]
		if !ok {
			continue
		}
		n, err := coerceInt(value)
		if err != nil {
			return fmt.Errorf("%w: %s", err, name)
		}
		*dst = n
		if name == "pontos" && !isNull(value) {
			p.PointsSet = true
		}
	}

	return nil
}

// ToEntry returns the decoded line, deriving points from makes when pontos was omitted.
func (p Payload) ToEntry() Entry {
	e := p.Entry
	if !p.PointsSet {
		e.Points = e.DerivePoints()
	}
	return e
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func coerceInt(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, ErrInvalidNumber
	}

	switch t := v.(type) {
	case float64:
		return int(math.Trunc(t)), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, ErrInvalidNumber
		}
		return int(math.Trunc(f)), nil
	}

	return 0, ErrInvalidNumber
}

// fields maps wire names to the Entry fields they decode into.
func (e *Entry) fields() map[string]*int {
	return map[string]*int{
		"jogadora_id":      &e.PlayerID,
		"quarto":           &e.Quarter,
		"pontos":           &e.Points,
		"assistencias":     &e.Assists,
		"rebotes":          &e.Rebounds,
		"roubos":           &e.Steals,
		"faltas":           &e.Fouls,
		"dois_tentativas":  &e.TwoAttempts,
		"dois_acertos":     &e.TwoMakes,
		"tres_tentativas":  &e.ThreeAttempts,
		"tres_acertos":     &e.ThreeMakes,
		"lance_tentativas": &e.FreeThrowAttempts,
		"lance_acertos":    &e.FreeThrowMakes,
		"interferencia":    &e.Interference,
	}
}
