// Package demography cross-tabulates genotypes against patient
// characteristics such as sex, age group and year of testing.
package demography

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/genotype"
)

// Unknown labels records whose grouping value is missing or unparsable.
const Unknown = "unknown"

// Row is the genotype tally of one group.
type Row struct {
	Group  string
	Counts genotype.Counts
}

// Table is a genotype-by-group cross tabulation. Totals only include
// recognized genotype labels.
type Table struct {
	By     string
	Locus  string
	Rows   []Row
	Totals genotype.Counts
}

// grouper maps a raw field to its group label and a sort key.
type grouper func(raw string) (group string, key float64)

func crossTab(ds *dataset.Dataset, byColumn, genotypeColumn string, group grouper) (Table, error) {
	by, err := ds.Column(byColumn)
	if err != nil {
		return Table{}, err
	}

	calls, err := ds.Column(genotypeColumn)
	if err != nil {
		return Table{}, err
	}

	out := Table{By: byColumn, Locus: genotypeColumn}
	counts := make(map[string]*genotype.Counts)
	keys := make(map[string]float64)

	for i, raw := range by {
		g, key := group(raw)

		c, exists := counts[g]
		if !exists {
			c = &genotype.Counts{}
			counts[g] = c
			keys[g] = key
		}

		c.Add(calls[i])
		out.Totals.Add(calls[i])
	}

	for g, c := range counts {
		out.Rows = append(out.Rows, Row{Group: g, Counts: *c})
	}

	// Unknown always sorts last
	sort.Slice(out.Rows, func(i, j int) bool {
		gi, gj := out.Rows[i].Group, out.Rows[j].Group
		if (gi == Unknown) != (gj == Unknown) {
			return gj == Unknown
		}
		if keys[gi] != keys[gj] {
			return keys[gi] < keys[gj]
		}
		return gi < gj
	})

	return out, nil
}

// CrossTab tallies genotypes for each distinct value of byColumn.
func CrossTab(ds *dataset.Dataset, byColumn, genotypeColumn string) (Table, error) {
	return crossTab(ds, byColumn, genotypeColumn, func(raw string) (string, float64) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return Unknown, 0
		}
		return raw, 0
	})
}

// ParseAge reads an age in whole years. Decimal commas and fractions are
// accepted and truncated; anything else, including negative ages, is
// invalid.
func ParseAge(raw string) null.Int {
	raw = strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	if raw == "" {
		return null.Int{}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f > 150 {
		return null.Int{}
	}

	return null.IntFrom(int64(f))
}

// AgeGroups tallies genotypes by age bands of width years ("40-49").
func AgeGroups(ds *dataset.Dataset, ageColumn, genotypeColumn string, width int) (Table, error) {
	if width <= 0 {
		return Table{}, fmt.Errorf("age group width must be positive, got %d", width)
	}

	return crossTab(ds, ageColumn, genotypeColumn, func(raw string) (string, float64) {
		age := ParseAge(raw)
		if !age.Valid {
			return Unknown, 0
		}

		lower := int(age.Int64) / width * width
		return fmt.Sprintf("%d-%d", lower, lower+width-1), float64(lower)
	})
}

// YearTable tallies genotypes by the year of the test date. Ambiguous
// numeric dates are read day first.
func YearTable(ds *dataset.Dataset, dateColumn, genotypeColumn string) (Table, error) {
	return crossTab(ds, dateColumn, genotypeColumn, func(raw string) (string, float64) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return Unknown, 0
		}

		t, err := ParseDate(raw)
		if err != nil {
			return Unknown, 0
		}

		return strconv.Itoa(t.Year()), float64(t.Year())
	})
}

// dottedDate matches a leading day-first date such as 25.06.2021 or 5.6.21.
var dottedDate = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`)

// ParseDate reads a test date, taking ambiguous numeric dates as day first.
// dateparse always reads dotted dates month first, so they are rewritten
// with slashes, for which the day-first preference is honored.
func ParseDate(raw string) (time.Time, error) {
	raw = dottedDate.ReplaceAllString(strings.TrimSpace(raw), "$1/$2/$3")
	return dateparse.ParseAny(raw, dateparse.PreferMonthFirst(false))
}
