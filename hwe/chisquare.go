package hwe

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DF is the degrees of freedom of the biallelic Hardy-Weinberg goodness of fit
// test: 3 genotype categories, minus 1, minus 1 estimated allele frequency. It
// belongs to this test only and is not recomputed from the number of usable
// categories.
const DF = 1

// Alpha is the significance level below which equilibrium is rejected.
const Alpha = 0.05

// SmallExpected is the expected count below which the chi-square
// approximation is considered unreliable.
const SmallExpected = 5.0

// chiSquare compares observed and expected genotype counts. Categories with
// no expected count are skipped; with fewer than two usable categories there
// is nothing to test and the result is chi2=0, p=1, df=0.
func chiSquare(observed, expected [3]float64) (chi2, p float64, df int) {
	obs := make([]float64, 0, len(observed))
	exp := make([]float64, 0, len(expected))
	for i := range expected {
		if expected[i] > 0 {
			obs = append(obs, observed[i])
			exp = append(exp, expected[i])
		}
	}

	if len(exp) < 2 {
		return 0, 1, 0
	}

	chi2 = stat.ChiSquare(obs, exp)

	return chi2, survival(chi2), DF
}

// survival returns P(X > chi2) for X ~ chi-square with 1 degree of freedom.
func survival(chi2 float64) float64 {
	if chi2 <= 0 || math.IsNaN(chi2) {
		return 1.0
	}

	return distuv.ChiSquared{K: DF}.Survival(chi2)
}
