package hwe

import (
	"math"
	"math/big"

	"github.com/BenLubar/memoize"
)

var memoizedProbability = memoize.Memoize(probability).(func(int64, int64, int64) float64)
var memoizedFactorial = memoize.Memoize(factorial).(func(int64, int64) *big.Int)

// Exact computes an exact Hardy-Weinberg equilibrium P-value, based on the
// Abecasis paper, itself based on RA Fisher's method. Exact is safe to call
// from concurrent goroutines. The resources used to create this were
// http://courses.washington.edu/b516/lectures_2009/HWE_Lecture.pdf slides 21-22
// and https://www.cog-genomics.org/software/stats for sanity checks.
//
// AA, Aa and aa are the normal homozygote, heterozygote and mutant homozygote
// counts.
func Exact(AA, Aa, aa int64) float64 {
	// Enforce AA common, aa rare
	if aa > AA {
		AA, aa = aa, AA
	}

	// The P value is the sum of the probabilities of all configurations with
	// the same allele counts that are at most as likely as the observed one.
	observed := memoizedProbability(AA, Aa, aa)

	return observed +
		tail(AA, Aa, aa, 1, observed) +
		tail(AA, Aa, aa, -1, observed)
}

// tail walks away from the observed configuration, trading one homozygote of
// each kind for two heterozygotes (dir = 1) or the reverse (dir = -1), and sums
// the probabilities that do not exceed observed.
func tail(AA, Aa, aa, dir int64, observed float64) float64 {
	sum := 0.0

	for {
		AA, Aa, aa = AA-dir, Aa+2*dir, aa-dir
		if aa < 0 || Aa < 0 {
			break
		}

		p := memoizedProbability(AA, Aa, aa)
		if p > observed {
			continue
		}

		if p <= math.SmallestNonzeroFloat64 {
			break
		}

		sum += p
	}

	return sum
}

// probability yields the probability of observing exactly Aa heterozygotes in a
// sample of AA+Aa+aa individuals with Aa+2*aa minor alleles.
func probability(AA, Aa, aa int64) float64 {
	A := AA*2 + Aa
	a := aa*2 + Aa
	N := AA + Aa + aa

	// 2^Aa * A! * a!
	var num big.Int
	num.Exp(big.NewInt(2), big.NewInt(Aa), nil)
	num.Mul(&num, memoizedFactorial(1, A))
	num.Mul(&num, memoizedFactorial(1, a))

	// (2N)!/N! * AA! * Aa! * aa!
	var denom big.Int
	denom.Set(memoizedFactorial(N+1, 2*N))
	denom.Mul(&denom, memoizedFactorial(1, AA))
	denom.Mul(&denom, memoizedFactorial(1, Aa))
	denom.Mul(&denom, memoizedFactorial(1, aa))

	final, _ := new(big.Rat).SetFrac(&num, &denom).Float64()

	return final
}

// factorial returns the product a*(a+1)*...*b. Callers must not modify the
// result, which is shared through the memoizer.
func factorial(a, b int64) *big.Int {
	return big.NewInt(1).MulRange(a, b)
}
