package hwe

import (
	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/genotype"
)

const (
	ReasonTooFewSamples    = "too few samples"
	ReasonTooFewCategories = "too few observed genotype categories"
)

// Result is either Insufficient or Computed. Callers are expected to switch on
// the concrete type before formatting.
type Result interface {
	Counts() genotype.Counts
	isResult()
}

// Insufficient is returned when the sample is too small or too uniform for a
// meaningful test. Only the raw counts are available.
type Insufficient struct {
	Reason   string
	Observed genotype.Counts
}

func (r Insufficient) Counts() genotype.Counts { return r.Observed }
func (Insufficient) isResult()                 {}

// AlleleFrequencies are the estimated frequencies of the normal (P) and mutant
// (Q) alleles. Q is derived as 1-P, so P+Q == 1 exactly.
type AlleleFrequencies struct {
	NormalAlleles int
	MutantAlleles int
	TotalAlleles  int

	P float64
	Q float64
}

// Expected genotype counts under Hardy-Weinberg equilibrium.
type Expected struct {
	Normal      float64
	Heterozygot float64
	Mutant      float64
}

// Of returns the expected count for a label.
func (e Expected) Of(l genotype.Label) float64 {
	switch l {
	case genotype.Normal:
		return e.Normal
	case genotype.Heterozygot:
		return e.Heterozygot
	case genotype.Mutant:
		return e.Mutant
	}
	return 0
}

func (e Expected) Sum() float64 {
	return e.Normal + e.Heterozygot + e.Mutant
}

// Computed holds a complete chi-square test. ExactP is the exact test P value,
// reported alongside for small samples; the conclusion uses PValue only.
type Computed struct {
	Alleles  AlleleFrequencies
	Observed genotype.Counts
	Expected Expected

	Chi2   float64
	PValue float64
	DF     int

	ExactP float64
}

func (r Computed) Counts() genotype.Counts { return r.Observed }
func (Computed) isResult()                 {}

// InEquilibrium reports whether the test fails to reject equilibrium.
func (r Computed) InEquilibrium() bool {
	return r.PValue > Alpha
}

// Conclusion is the human readable verdict.
func (r Computed) Conclusion() string {
	if r.InEquilibrium() {
		return "in equilibrium"
	}
	return "not in equilibrium"
}

// LowConfidence is true when fewer than two categories had a nonzero
// expected count and the chi2=0, p=1 fallback was used instead of a test.
func (r Computed) LowConfidence() bool {
	return r.DF == 0
}

// SmallExpectedCounts is true when any expected count is below SmallExpected,
// where the chi-square approximation becomes unreliable and ExactP should be
// preferred by the reader.
func (r Computed) SmallExpectedCounts() bool {
	for _, l := range genotype.Labels {
		if r.Expected.Of(l) < SmallExpected {
			return true
		}
	}
	return false
}

// Analyze tests the named genotype column for Hardy-Weinberg equilibrium. The
// only error is the dataset.ErrFieldNotFound condition for a missing column.
func Analyze(ds *dataset.Dataset, column string) (Result, error) {
	c, err := genotype.Count(ds, column)
	if err != nil {
		return nil, err
	}

	return AnalyzeCounts(c), nil
}

// AnalyzeCounts tests pre-tallied genotype counts. It never panics.
func AnalyzeCounts(c genotype.Counts) Result {
	if c.Total < 2 {
		return Insufficient{Reason: ReasonTooFewSamples, Observed: c}
	}

	if c.Nonzero() < 2 {
		return Insufficient{Reason: ReasonTooFewCategories, Observed: c}
	}

	alleles := AlleleFrequencies{
		NormalAlleles: 2*c.Normal + c.Heterozygot,
		MutantAlleles: 2*c.Mutant + c.Heterozygot,
		TotalAlleles:  2 * c.Total,
	}
	alleles.P = float64(alleles.NormalAlleles) / float64(alleles.TotalAlleles)
	alleles.Q = 1 - alleles.P

	N := float64(c.Total)
	p, q := alleles.P, alleles.Q
	expected := Expected{
		Normal:      p * p * N,
		Heterozygot: 2 * p * q * N,
		Mutant:      q * q * N,
	}

	chi2, pValue, df := chiSquare(
		[3]float64{float64(c.Normal), float64(c.Heterozygot), float64(c.Mutant)},
		[3]float64{expected.Normal, expected.Heterozygot, expected.Mutant},
	)

	return Computed{
		Alleles:  alleles,
		Observed: c,
		Expected: expected,
		Chi2:     chi2,
		PValue:   pValue,
		DF:       df,
		ExactP:   Exact(int64(c.Normal), int64(c.Heterozygot), int64(c.Mutant)),
	}
}
