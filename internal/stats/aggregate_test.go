package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_noEntries(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, Totals{}, s.Totals)
	require.Len(t, s.ByQuarter, NumQuarters)
	for i, q := range s.ByQuarter {
		assert.Equal(t, i+1, q.Quarter)
		assert.Equal(t, Totals{}, q.Totals)
	}
}

func TestSummarize_twoQuarters(t *testing.T) {
	entries := []Entry{
		{PlayerID: 1, Quarter: 1, Points: 10, Assists: 5, Rebounds: 8, Steals: 2, Fouls: 3},
		{PlayerID: 1, Quarter: 2, Points: 8, Assists: 3, Rebounds: 6, Steals: 1, Fouls: 2},
	}

	s := Summarize(entries)

	assert.Equal(t, Totals{Points: 18, Assists: 8, Rebounds: 14, Steals: 3, Fouls: 5}, s.Totals)
	assert.Equal(t, Totals{Points: 10, Assists: 5, Rebounds: 8, Steals: 2, Fouls: 3}, s.ByQuarter[0].Totals)
	assert.Equal(t, Totals{Points: 8, Assists: 3, Rebounds: 6, Steals: 1, Fouls: 2}, s.ByQuarter[1].Totals)
	assert.Equal(t, Totals{}, s.ByQuarter[2].Totals)
	assert.Equal(t, Totals{}, s.ByQuarter[3].Totals)
}

func TestSummarize_bucketsAscendingRegardlessOfOrder(t *testing.T) {
	entries := []Entry{
		{Quarter: 4, Points: 1},
		{Quarter: 2, Points: 2},
		{Quarter: 4, Points: 3},
		{Quarter: 1, Points: 4},
	}

	s := Summarize(entries)

	got := make([]int, 0, NumQuarters)
	for _, q := range s.ByQuarter {
		got = append(got, q.Quarter)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Equal(t, 4, s.ByQuarter[0].Points)
	assert.Equal(t, 2, s.ByQuarter[1].Points)
	assert.Equal(t, 0, s.ByQuarter[2].Points)
	assert.Equal(t, 4, s.ByQuarter[3].Points)
}

func TestSummarize_bucketsAddUpToTotals(t *testing.T) {
	var entries []Entry
	for i := 0; i < 40; i++ {
		entries = append(entries, Entry{
			Quarter:  i%NumQuarters + 1,
			Points:   i * 3 % 11,
			Assists:  i % 5,
			Rebounds: i * 7 % 13,
			Steals:   i % 3,
			Fouls:    i % 2,
		})
	}

	s := Summarize(entries)

	var sum Totals
	for _, q := range s.ByQuarter {
		sum.Points += q.Points
		sum.Assists += q.Assists
		sum.Rebounds += q.Rebounds
		sum.Steals += q.Steals
		sum.Fouls += q.Fouls
	}
	assert.Equal(t, s.Totals, sum)
}

func TestSummarize_outOfRangeQuarterOnlyInTotals(t *testing.T) {
	s := Summarize([]Entry{{Quarter: 5, Points: 7}, {Quarter: 3, Points: 2}})

	assert.Equal(t, 9, s.Points)
	assert.Equal(t, 2, s.ByQuarter[2].Points)
}
