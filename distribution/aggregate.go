// Package distribution summarizes genotype frequencies and HFE risk
// categories across the three monitored loci.
package distribution

import (
	"fmt"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/genotype"
	"github.com/montanaflynn/stats"
)

// Percentage is a count with its share of all patients. Value is the
// unrounded percentage; Rounded is the two-decimal figure shown in reports.
type Percentage struct {
	Count   int
	Value   float64
	Rounded float64
}

// NewPercentage expresses count as a share of total. A non-positive total
// yields zero rather than a division fault.
func NewPercentage(count, total int) Percentage {
	out := Percentage{Count: count}
	if total <= 0 {
		return out
	}

	out.Value = float64(count) / float64(total) * 100
	out.Rounded = out.Value
	if r, err := stats.Round(out.Value, 2); err == nil {
		out.Rounded = r
	}

	return out
}

// GenotypeRow is one locus of the genotype percentage table.
type GenotypeRow struct {
	Locus       string
	Counts      genotype.Counts
	Normal      Percentage
	Heterozygot Percentage
	Mutant      Percentage
}

// Of returns the percentage for a label.
func (g GenotypeRow) Of(l genotype.Label) Percentage {
	switch l {
	case genotype.Normal:
		return g.Normal
	case genotype.Heterozygot:
		return g.Heterozygot
	case genotype.Mutant:
		return g.Mutant
	}
	return Percentage{}
}

// Kind groups the risk categories.
type Kind string

const (
	KindHomozygous Kind = "homozygous mutant"
	KindCompound   Kind = "compound heterozygote"
	KindCarrier    Kind = "carrier"
)

// RiskRow is one category of the risk percentage table.
type RiskRow struct {
	Category string
	Kind     Kind
	Percentage
}

// SummaryRow is one group of the predisposition summary.
type SummaryRow struct {
	Group string
	Percentage
}

// Report holds the three result tables and their totals.
//
// TotalCarriers sums the per-locus exclusive carriers and TotalAtRisk sums the
// homozygous and compound heterozygote categories. A patient can sit in more
// than one of those categories (for example homozygous at one locus and a
// carrier at another), so Unaffected, computed by subtraction, can undercount
// and even go negative. DoubleCounted is the number of surplus category
// memberships, and Unaffected+DoubleCounted is the number of patients in no
// category at all.
type Report struct {
	TotalPatients int

	Genotypes []GenotypeRow
	Risk      []RiskRow
	Summary   []SummaryRow

	TotalCarriers int
	TotalAtRisk   int
	Unaffected    int
	DoubleCounted int
}

// Aggregate computes the genotype and risk tables over every record of ds.
// All percentages use the number of records as the denominator.
func Aggregate(ds *dataset.Dataset, loci Loci) (Report, error) {
	classified, err := ClassifyDataset(ds, loci)
	if err != nil {
		return Report{}, err
	}

	total := ds.Len()
	out := Report{TotalPatients: total}

	for _, locus := range loci {
		c, err := genotype.Count(ds, locus.Column)
		if err != nil {
			return Report{}, fmt.Errorf("locus %s: %w", locus.Name, err)
		}

		out.Genotypes = append(out.Genotypes, GenotypeRow{
			Locus:       locus.Name,
			Counts:      c,
			Normal:      NewPercentage(c.Normal, total),
			Heterozygot: NewPercentage(c.Heterozygot, total),
			Mutant:      NewPercentage(c.Mutant, total),
		})
	}

	var homozygous, compound, carriers [3]int
	classifiedPatients := 0
	memberships := 0
	for _, c := range classified {
		for i, hom := range c.Homozygous {
			if hom {
				homozygous[i]++
			}
		}
		if c.Compound >= 0 {
			compound[c.Compound]++
		}
		if c.Carrier >= 0 {
			carriers[c.Carrier]++
		}

		if m := c.Memberships(); m > 0 {
			classifiedPatients++
			memberships += m
		}
	}

	for i, locus := range loci {
		out.Risk = append(out.Risk, RiskRow{
			Category:   locus.Name + " " + string(KindHomozygous),
			Kind:       KindHomozygous,
			Percentage: NewPercentage(homozygous[i], total),
		})
		out.TotalAtRisk += homozygous[i]
	}

	for i, pair := range pairs {
		out.Risk = append(out.Risk, RiskRow{
			Category:   loci[pair[0]].Name + "/" + loci[pair[1]].Name + " " + string(KindCompound),
			Kind:       KindCompound,
			Percentage: NewPercentage(compound[i], total),
		})
		out.TotalAtRisk += compound[i]
	}

	for i, locus := range loci {
		out.Risk = append(out.Risk, RiskRow{
			Category:   locus.Name + " " + string(KindCarrier),
			Kind:       KindCarrier,
			Percentage: NewPercentage(carriers[i], total),
		})
		out.TotalCarriers += carriers[i]
	}

	out.Unaffected = total - out.TotalCarriers - out.TotalAtRisk
	out.DoubleCounted = memberships - classifiedPatients

	out.Summary = []SummaryRow{
		{Group: "Carriers", Percentage: NewPercentage(out.TotalCarriers, total)},
		{Group: "At risk", Percentage: NewPercentage(out.TotalAtRisk, total)},
		{Group: "Unaffected", Percentage: NewPercentage(out.Unaffected, total)},
		{Group: "Total", Percentage: NewPercentage(total, total)},
	}

	return out, nil
}
