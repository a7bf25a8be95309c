// Package genotype tallies the per-locus genotype labels of a dataset.
package genotype

import (
	"github.com/carbocation/hfedash/dataset"
)

// Label is the genotype call at one locus for one patient.
type Label string

const (
	Normal      Label = "normal"      // wild-type homozygote
	Heterozygot Label = "heterozygot" // heterozygote
	Mutant      Label = "mutant"      // mutant homozygote
)

// Labels lists the recognized labels in display order.
var Labels = []Label{Normal, Heterozygot, Mutant}

// Valid reports whether l is one of the three recognized labels. Matching is
// exact and case-sensitive.
func (l Label) Valid() bool {
	switch l {
	case Normal, Heterozygot, Mutant:
		return true
	}
	return false
}

// Counts holds the tallies of one mutation column. Total only includes
// recognized labels.
type Counts struct {
	Normal      int
	Heterozygot int
	Mutant      int
	Total       int
}

// Of returns the count for a label, or zero for an unrecognized one.
func (c Counts) Of(l Label) int {
	switch l {
	case Normal:
		return c.Normal
	case Heterozygot:
		return c.Heterozygot
	case Mutant:
		return c.Mutant
	}
	return 0
}

// Nonzero returns how many of the three categories were observed.
func (c Counts) Nonzero() int {
	n := 0
	for _, v := range []int{c.Normal, c.Heterozygot, c.Mutant} {
		if v > 0 {
			n++
		}
	}
	return n
}

// Add tallies one value. Unrecognized values are ignored.
func (c *Counts) Add(value string) {
	switch Label(value) {
	case Normal:
		c.Normal++
	case Heterozygot:
		c.Heterozygot++
	case Mutant:
		c.Mutant++
	default:
		return
	}
	c.Total++
}

// Count tallies the genotype labels in the named column. A column that does
// not exist yields an error matching dataset.ErrFieldNotFound.
func Count(ds *dataset.Dataset, column string) (Counts, error) {
	values, err := ds.Column(column)
	if err != nil {
		return Counts{}, err
	}

	return CountValues(values), nil
}

// CountValues tallies a slice of raw labels.
func CountValues(values []string) Counts {
	var c Counts
	for _, v := range values {
		c.Add(v)
	}
	return c
}
