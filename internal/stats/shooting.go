package stats

import "github.com/shopspring/decimal"

// ShootingLine is the make/attempt split for one shot kind with its percentage.
type ShootingLine struct {
	Attempts   int             `json:"tentativas"`
	Makes      int             `json:"acertos"`
	Percentage decimal.Decimal `json:"percentual"`
}

// Shooting sums attempts and makes of kind across entries.
func Shooting(entries []Entry, kind ShotKind) ShootingLine {
	var line ShootingLine
	for _, e := range entries {
		a, m := e.Shots(kind)
		line.Attempts += a
		line.Makes += m
	}
	line.Percentage = Percentage(line.Makes, line.Attempts)
	return line
}

// Percentage returns makes/attempts*100 rounded to one decimal, zero when there were no attempts.
func Percentage(makes, attempts int) decimal.Decimal {
	if attempts == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(makes)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(attempts))).
		Round(1)
}
