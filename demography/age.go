package demography

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/carbocation/hfedash/dataset"
)

// AgeSummary describes the age column. The statistics are zero when no age
// could be parsed.
type AgeSummary struct {
	N       int
	Missing int

	Mean   float64
	Median float64
	P5     float64
	P95    float64
	Min    float64
	Max    float64
}

// Ages returns every parsable age in the column, in row order, and the
// number of records without one.
func Ages(ds *dataset.Dataset, ageColumn string) ([]float64, int, error) {
	raw, err := ds.Column(ageColumn)
	if err != nil {
		return nil, 0, err
	}

	ages := make([]float64, 0, len(raw))
	missing := 0
	for _, v := range raw {
		age := ParseAge(v)
		if !age.Valid {
			missing++
			continue
		}
		ages = append(ages, float64(age.Int64))
	}

	return ages, missing, nil
}

// SummarizeAge computes descriptive statistics of the age column.
func SummarizeAge(ds *dataset.Dataset, ageColumn string) (AgeSummary, error) {
	ages, missing, err := Ages(ds, ageColumn)
	if err != nil {
		return AgeSummary{}, err
	}

	out := AgeSummary{N: len(ages), Missing: missing}
	if len(ages) == 0 {
		return out, nil
	}

	data := stats.Float64Data(ages)

	out.Mean = orZero(data.Mean())
	out.Median = orZero(data.Median())
	out.Min = orZero(data.Min())
	out.Max = orZero(data.Max())

	// Percentiles are undefined for very small samples
	out.P5 = orZero(data.Percentile(5))
	out.P95 = orZero(data.Percentile(95))

	return out, nil
}

func orZero(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
