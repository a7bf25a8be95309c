package hwe

import (
	"errors"
	"math"
	"testing"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/genotype"
)

type expectations struct {
	AA int64
	Aa int64
	aa int64

	P float64
}

// Truth values calculated by https://www.cog-genomics.org/software/stats
func TestExact(t *testing.T) {
	for _, v := range []expectations{
		{5000, 0, 5000, 0},
		{500, 0, 500, 1.319669097657e-301},
		{83, 13, 4, 0.010293},
		{50, 57, 14, 0.8422797565708},
		{2, 1, 3, 0.15151515151515},
		{500, 2, 0, 1},
		{500, 0, 4, 1.033376916931e-10},
		{500, 0, 2, 0.000002988038880362},
		{500, 1, 2, 0.0000148807309415},
		{500, 4, 2, 0.0002050449518921},
		{500, 2, 2, 0.00004443531076574},
	} {
		if p, expected := Exact(v.AA, v.Aa, v.aa), v.P; math.Abs(p-expected) > 1e-6 {
			t.Fatalf("\nError with input: %+v\nP: %.12f\nExpected: %.12f\nDiff: %.12f\n", v, p, expected, p-expected)
		}
	}
}

func TestInsufficient(t *testing.T) {
	for _, v := range []struct {
		Counts genotype.Counts
		Reason string
	}{
		{genotype.Counts{}, ReasonTooFewSamples},
		{genotype.Counts{Normal: 1, Total: 1}, ReasonTooFewSamples},
		{genotype.Counts{Mutant: 1, Total: 1}, ReasonTooFewSamples},
		{genotype.Counts{Normal: 100, Total: 100}, ReasonTooFewCategories},
		{genotype.Counts{Mutant: 100, Total: 100}, ReasonTooFewCategories},
		{genotype.Counts{Heterozygot: 2, Total: 2}, ReasonTooFewCategories},
	} {
		res, ok := AnalyzeCounts(v.Counts).(Insufficient)
		if !ok {
			t.Fatalf("%+v: expected an Insufficient result", v.Counts)
		}
		if res.Reason != v.Reason {
			t.Errorf("%+v: expected reason %q, got %q", v.Counts, v.Reason, res.Reason)
		}
		if res.Counts() != v.Counts {
			t.Errorf("%+v: observed counts were not carried through: %+v", v.Counts, res.Counts())
		}
	}
}

func TestComputedScenarios(t *testing.T) {
	for _, v := range []struct {
		Counts        genotype.Counts
		P             float64
		Expected      Expected
		Chi2          float64
		InEquilibrium bool
	}{
		// Exactly in equilibrium
		{
			Counts:        genotype.Counts{Normal: 81, Heterozygot: 18, Mutant: 1, Total: 100},
			P:             0.9,
			Expected:      Expected{81, 18, 1},
			Chi2:          0,
			InEquilibrium: true,
		},
		// No heterozygotes at all
		{
			Counts:        genotype.Counts{Normal: 50, Heterozygot: 0, Mutant: 50, Total: 100},
			P:             0.5,
			Expected:      Expected{25, 50, 25},
			Chi2:          100,
			InEquilibrium: false,
		},
	} {
		res, ok := AnalyzeCounts(v.Counts).(Computed)
		if !ok {
			t.Fatalf("%+v: expected a Computed result", v.Counts)
		}

		if math.Abs(res.Alleles.P-v.P) > 1e-9 {
			t.Errorf("%+v: expected p=%f, got %f", v.Counts, v.P, res.Alleles.P)
		}
		if math.Abs(res.Alleles.Q-(1-v.P)) > 1e-9 {
			t.Errorf("%+v: expected q=%f, got %f", v.Counts, 1-v.P, res.Alleles.Q)
		}

		for _, l := range genotype.Labels {
			if math.Abs(res.Expected.Of(l)-v.Expected.Of(l)) > 1e-9 {
				t.Errorf("%+v: expected %s=%f, got %f", v.Counts, l, v.Expected.Of(l), res.Expected.Of(l))
			}
		}

		if math.Abs(res.Chi2-v.Chi2) > 1e-9 {
			t.Errorf("%+v: expected chi2=%f, got %f", v.Counts, v.Chi2, res.Chi2)
		}
		if res.DF != DF {
			t.Errorf("%+v: expected df=%d, got %d", v.Counts, DF, res.DF)
		}
		if res.InEquilibrium() != v.InEquilibrium {
			t.Errorf("%+v: expected InEquilibrium=%v (p=%g)", v.Counts, v.InEquilibrium, res.PValue)
		}
		if res.ExactP < 0 || res.ExactP > 1+1e-9 {
			t.Errorf("%+v: exact P out of range: %g", v.Counts, res.ExactP)
		}
	}
}

func TestEquilibriumPValue(t *testing.T) {
	res := AnalyzeCounts(genotype.Counts{Normal: 81, Heterozygot: 18, Mutant: 1, Total: 100}).(Computed)
	if math.Abs(res.PValue-1) > 1e-6 {
		t.Fatalf("Expected p≈1, got %g", res.PValue)
	}
	if res.Conclusion() != "in equilibrium" {
		t.Fatalf("Unexpected conclusion %q", res.Conclusion())
	}
	if !res.SmallExpectedCounts() {
		t.Fatalf("An expected mutant count of 1 should be flagged as small")
	}

	res = AnalyzeCounts(genotype.Counts{Normal: 50, Heterozygot: 0, Mutant: 50, Total: 100}).(Computed)
	if res.PValue >= Alpha {
		t.Fatalf("Expected p<%v, got %g", Alpha, res.PValue)
	}
	if res.Conclusion() != "not in equilibrium" {
		t.Fatalf("Unexpected conclusion %q", res.Conclusion())
	}
}

// Properties that must hold for any computed result.
func TestComputedInvariants(t *testing.T) {
	for N := 0; N <= 12; N++ {
		for H := 0; H <= 12; H++ {
			for M := 0; M <= 12; M++ {
				c := genotype.Counts{Normal: N, Heterozygot: H, Mutant: M, Total: N + H + M}

				res := AnalyzeCounts(c)
				if res.Counts() != c {
					t.Fatalf("%+v: counts changed to %+v", c, res.Counts())
				}

				computed, ok := res.(Computed)
				if !ok {
					if c.Total >= 2 && c.Nonzero() >= 2 {
						t.Fatalf("%+v: expected a Computed result", c)
					}
					continue
				}

				if d := computed.Alleles.P + computed.Alleles.Q - 1; math.Abs(d) > 1e-9 {
					t.Fatalf("%+v: p+q deviates from 1 by %g", c, d)
				}
				if d := computed.Expected.Sum() - float64(c.Total); math.Abs(d) > 1e-9 {
					t.Fatalf("%+v: expected counts deviate from the total by %g", c, d)
				}
				if computed.PValue < 0 || computed.PValue > 1 || math.IsNaN(computed.Chi2) {
					t.Fatalf("%+v: invalid test statistic chi2=%g p=%g", c, computed.Chi2, computed.PValue)
				}

				// Pure: a second call is identical
				if again := AnalyzeCounts(c).(Computed); again != computed {
					t.Fatalf("%+v: repeated analysis differs", c)
				}
			}
		}
	}
}

func TestChiSquareFallback(t *testing.T) {
	chi2, p, df := chiSquare([3]float64{10, 0, 0}, [3]float64{10, 0, 0})
	if chi2 != 0 || p != 1 || df != 0 {
		t.Fatalf("Expected chi2=0 p=1 df=0, got chi2=%g p=%g df=%d", chi2, p, df)
	}

	// A single empty expected category is skipped, df stays fixed
	chi2, p, df = chiSquare([3]float64{8, 2, 0}, [3]float64{5, 5, 0})
	if math.Abs(chi2-3.6) > 1e-9 || df != DF {
		t.Fatalf("Expected chi2=3.6 df=%d, got chi2=%g df=%d", DF, chi2, df)
	}
	if math.Abs(p-math.Erfc(math.Sqrt(3.6/2))) > 1e-6 {
		t.Fatalf("Unexpected p-value %g for chi2=3.6", p)
	}
}

func TestSurvival(t *testing.T) {
	for _, v := range []struct {
		Chi2 float64
		P    float64
	}{
		{0, 1},
		{-1, 1},
		{3.841458820694124, 0.05},
		{6.634896601021214, 0.01},
		{10.827566170662733, 0.001},
	} {
		if p := survival(v.Chi2); math.Abs(p-v.P) > 1e-6 {
			t.Errorf("chi2=%g: expected p=%g, got %g", v.Chi2, v.P, p)
		}
	}

	// Far in the tail the p-value must stay positive rather than round to 0
	for _, chi2 := range []float64{50, 100, 200} {
		p := survival(chi2)
		closedForm := math.Erfc(math.Sqrt(chi2 / 2))
		if p <= 0 || math.Abs(p-closedForm) > 1e-9*closedForm {
			t.Errorf("chi2=%g: expected p=%g, got %g", chi2, closedForm, p)
		}
	}

	if p := survival(math.NaN()); p != 1 {
		t.Errorf("chi2=NaN: expected p=1, got %g", p)
	}
}

func TestAnalyze(t *testing.T) {
	rows := make([][]string, 0, 100)
	for i := 0; i < 100; i++ {
		label := "normal"
		if i >= 81 {
			label = "heterozygot"
		}
		if i == 99 {
			label = "mutant"
		}
		rows = append(rows, []string{label})
	}
	// Unrecognized values are ignored
	rows = append(rows, []string{""}, []string{"NA"})

	ds := dataset.New([]string{"C282Y"}, rows)

	res, err := Analyze(ds, "C282Y")
	if err != nil {
		t.Fatal(err)
	}
	computed, ok := res.(Computed)
	if !ok {
		t.Fatalf("Expected a Computed result, got %+v", res)
	}
	if computed.Observed.Total != 100 {
		t.Fatalf("Expected a total of 100, got %d", computed.Observed.Total)
	}

	if _, err := Analyze(ds, "H63D"); !errors.Is(err, dataset.ErrFieldNotFound) {
		t.Fatalf("Expected ErrFieldNotFound, got %v", err)
	}
}
