package roster

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// ErrNoRoster is returned when the document holds no recognisable roster table.
var ErrNoRoster = errors.New("no roster table found")

// Row is one player parsed from a roster table
type Row struct {
	Name     string `json:"nome"`
	Number   int    `json:"numero"`
	Position string `json:"posicao,omitempty"`
}

var digits = regexp.MustCompile(`\d+`)

// column header aliases, compared after folding case and accents
var (
	nameHeaders     = []string{"nome", "name", "jogadora", "atleta", "player"}
	numberHeaders   = []string{"numero", "n", "no", "#", "number", "camisa"}
	positionHeaders = []string{"posicao", "position", "pos"}
)

type columns struct {
	name, number, position int
}

// Parse extracts roster rows from an HTML document
func Parse(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var rows []Row

	// Strategy 1: a table whose header names its columns
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		cols, ok := headerColumns(table)
		if !ok {
			return true
		}
		rows = parseTable(table, cols)
		return len(rows) == 0
	})

	// Strategy 2: first headerless table laid out as number, name, position
	if len(rows) == 0 {
		doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
			rows = parseTable(table, columns{number: 0, name: 1, position: 2})
			return len(rows) == 0
		})
	}

	if len(rows) == 0 {
		return nil, ErrNoRoster
	}

	log.Debugf("Parsed %d roster rows", len(rows))
	return rows, nil
}

// headerColumns locates the name, number and position columns from th cells
func headerColumns(table *goquery.Selection) (columns, bool) {
	cols := columns{name: -1, number: -1, position: -1}

	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		h := fold(th.Text())
		switch {
		case cols.name < 0 && matches(h, nameHeaders):
			cols.name = i
		case cols.number < 0 && matches(h, numberHeaders):
			cols.number = i
		case cols.position < 0 && matches(h, positionHeaders):
			cols.position = i
		}
	})

	return cols, cols.name >= 0
}

func parseTable(table *goquery.Selection, cols columns) []Row {
	var rows []Row
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		row := Row{Name: cellText(cells, cols.name)}
		if row.Name == "" {
			return
		}
		if n := digits.FindString(cellText(cells, cols.number)); n != "" {
			row.Number, _ = strconv.Atoi(n)
		}
		row.Position = cellText(cells, cols.position)

		rows = append(rows, row)
	})
	return rows
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return strings.Join(strings.Fields(cells.Eq(idx).Text()), " ")
}

func matches(header string, aliases []string) bool {
	for _, a := range aliases {
		if header == a {
			return true
		}
	}
	return false
}

// fold lowercases s, strips accents and trailing punctuation such as "Nº" or "No."
func fold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(s))) {
		switch {
		case r >= 0x0300 && r <= 0x036f:
			// combining diacritic
		case r == 'º' || r == '°' || r == '.' || r == ':':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
