package stats

// Totals holds the five summed counters shown on the summary cards.
type Totals struct {
	Points   int `json:"total_pontos"`
	Assists  int `json:"total_assistencias"`
	Rebounds int `json:"total_rebotes"`
	Steals   int `json:"total_roubos"`
	Fouls    int `json:"total_faltas"`
}

func (t *Totals) add(e Entry) {
	t.Points += e.Points
	t.Assists += e.Assists
	t.Rebounds += e.Rebounds
	t.Steals += e.Steals
	t.Fouls += e.Fouls
}

// QuarterTotals is the Totals restricted to one quarter.
type QuarterTotals struct {
	Quarter int `json:"quarto"`
	Totals
}

// Summary is the derived, never persisted view of a game's entries.
type Summary struct {
	Totals
	ByQuarter []QuarterTotals `json:"por_quarto"`
}

// Summarize sums entries overall and into one bucket per quarter.
// The result always carries NumQuarters buckets in ascending order, empty buckets included.
// Entries whose quarter falls outside 1..4 count toward the overall totals only.
func Summarize(entries []Entry) *Summary {
	s := &Summary{ByQuarter: make([]QuarterTotals, NumQuarters)}
	for i := range s.ByQuarter {
		s.ByQuarter[i].Quarter = i + 1
	}

	for _, e := range entries {
		s.Totals.add(e)
		if e.Quarter >= 1 && e.Quarter <= NumQuarters {
			s.ByQuarter[e.Quarter-1].add(e)
		}
	}

	return s
}
