package distribution

import (
	"fmt"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/genotype"
)

// Locus is a monitored HFE variant and the dataset column holding its calls.
type Locus struct {
	Name   string
	Column string
}

// Loci is the fixed set of three monitored variants, in report order.
type Loci [3]Locus

// DefaultLoci maps C282Y, H63D and S65C onto the configured columns.
func DefaultLoci(cols dataset.Columns) Loci {
	return Loci{
		{Name: "C282Y", Column: cols.C282Y},
		{Name: "H63D", Column: cols.H63D},
		{Name: "S65C", Column: cols.S65C},
	}
}

// pairs enumerates the compound heterozygote combinations, as indexes into
// Loci.
var pairs = [3][2]int{{0, 1}, {0, 2}, {1, 2}}

// Status is the single predisposition group a patient is placed in.
type Status int

const (
	Unaffected Status = iota
	Carrier
	AtRisk
)

func (s Status) String() string {
	switch s {
	case Carrier:
		return "carrier"
	case AtRisk:
		return "at risk"
	}
	return "unaffected"
}

// Classification records every risk category one patient falls into.
// Carrier and Compound are -1 when they do not apply. Homozygous is not
// mutually exclusive with the others.
type Classification struct {
	Carrier    int     // locus index; heterozygous there and nowhere else
	Compound   int     // pair index; heterozygous at exactly that pair
	Homozygous [3]bool // mutant/mutant at the locus
}

// Classify places one patient's three genotype calls into risk categories.
func Classify(calls [3]genotype.Label) Classification {
	out := Classification{Carrier: -1, Compound: -1}

	hets := 0
	for i, call := range calls {
		if call == genotype.Heterozygot {
			hets++
		}
		out.Homozygous[i] = call == genotype.Mutant
	}

	switch hets {
	case 1:
		for i, call := range calls {
			if call == genotype.Heterozygot {
				out.Carrier = i
			}
		}
	case 2:
		for i, pair := range pairs {
			if calls[pair[0]] == genotype.Heterozygot && calls[pair[1]] == genotype.Heterozygot {
				out.Compound = i
			}
		}
	}

	return out
}

// Memberships is the number of risk categories the patient is counted in by
// the category tables.
func (c Classification) Memberships() int {
	n := 0
	if c.Carrier >= 0 {
		n++
	}
	if c.Compound >= 0 {
		n++
	}
	for _, hom := range c.Homozygous {
		if hom {
			n++
		}
	}
	return n
}

// AtRisk is true for a homozygous mutant at any locus or a compound
// heterozygote.
func (c Classification) AtRisk() bool {
	return c.Compound >= 0 || c.Homozygous[0] || c.Homozygous[1] || c.Homozygous[2]
}

// Status resolves the patient to one group, with at-risk taking precedence
// over carrier.
func (c Classification) Status() Status {
	if c.AtRisk() {
		return AtRisk
	}
	if c.Carrier >= 0 {
		return Carrier
	}
	return Unaffected
}

// ClassifyDataset classifies every record of ds.
func ClassifyDataset(ds *dataset.Dataset, loci Loci) ([]Classification, error) {
	var columns [3][]string
	for i, locus := range loci {
		values, err := ds.Column(locus.Column)
		if err != nil {
			return nil, fmt.Errorf("locus %s: %w", locus.Name, err)
		}
		columns[i] = values
	}

	out := make([]Classification, ds.Len())
	for row := range out {
		out[row] = Classify([3]genotype.Label{
			genotype.Label(columns[0][row]),
			genotype.Label(columns[1][row]),
			genotype.Label(columns[2][row]),
		})
	}

	return out, nil
}
