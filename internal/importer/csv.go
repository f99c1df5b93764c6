package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/scoremvp/scoremvp/internal/stats"
)

// Column names after normalization (lowercase, no accents)
const (
	colPlayer   = "nome jogador"
	colOpponent = "adversario"
	colDate     = "data"
	colHour     = "horario"
	colLocation = "local"
	colCategory = "categoria"
	colTime     = "time"
	colQuarter  = "quarto"
	colPoints   = "pontos totais"
	colAssists  = "assistencias"
	colRebounds = "rebotes"
	colSteals   = "roubadas"
	colFouls    = "faltas"
)

var requiredColumns = []string{colPlayer, colOpponent, colDate}

// header maps normalized column names to their index
type header map[string]int

func (h header) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// readRows reads a ';' separated sheet. The first record is the header.
// Rows that fail to parse come back in rowErrs and do not stop the read.
func readRows(r io.Reader) (rows []Row, rowErrs []RowError, err error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: empty file", ErrInvalidCSV)
	}
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(header, len(first))
	for i, name := range first {
		cols[normalizeColumn(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := cols[col]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrInvalidCSV, col)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, RowError{Line: line, Message: parseErr.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		row, err := parseRow(cols, record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: err.Error()})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func parseRow(cols header, record []string) (Row, error) {
	row := Row{
		PlayerName: cols.get(record, colPlayer),
		Opponent:   cols.get(record, colOpponent),
		Time:       cols.get(record, colTime),
		Location:   cols.get(record, colLocation),
		Category:   cols.get(record, colCategory),
	}
	if row.PlayerName == "" {
		return row, errors.New("nome jogador is empty")
	}
	if row.Opponent == "" {
		return row, errors.New("adversario is empty")
	}

	date, err := parseDate(cols.get(record, colDate), cols.get(record, colHour))
	if err != nil {
		return row, err
	}
	row.Date = date

	counters := []struct {
		col string
		dst *int
	}{
		{colQuarter, &row.Entry.Quarter},
		{colPoints, &row.Entry.Points},
		{colAssists, &row.Entry.Assists},
		{colRebounds, &row.Entry.Rebounds},
		{colSteals, &row.Entry.Steals},
		{colFouls, &row.Entry.Fouls},
	}
	for _, c := range counters {
		n, err := parseCount(cols.get(record, c.col))
		if err != nil {
			return row, fmt.Errorf("%s: %w", c.col, err)
		}
		*c.dst = n
	}
	if row.Entry.Quarter == 0 {
		row.Entry.Quarter = 1
	}

	if err := row.Entry.Validate(); err != nil {
		return row, err
	}
	return row, nil
}

// parseDate reads dd/mm/yyyy and an optional HH:MM
func parseDate(day, hour string) (time.Time, error) {
	if day == "" {
		return time.Time{}, errors.New("data is empty")
	}
	if hour == "" {
		t, err := time.Parse("02/01/2006", day)
		if err != nil {
			return t, fmt.Errorf("data %q is not dd/mm/aaaa", day)
		}
		return t, nil
	}
	t, err := time.Parse("02/01/2006 15:04", day+" "+hour)
	if err != nil {
		return t, fmt.Errorf("data/horario %q %q is not dd/mm/aaaa HH:MM", day, hour)
	}
	return t, nil
}

// parseCount reads an integer cell; blank is zero and decimals are truncated
func parseCount(cell string) (int, error) {
	if cell == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(cell, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", stats.ErrInvalidNumber, cell)
	}
	return int(math.Trunc(f)), nil
}

// normalizeColumn lowercases and strips accents and a UTF-8 BOM
func normalizeColumn(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimPrefix(name, "\ufeff"))
	if err != nil {
		out = name
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
