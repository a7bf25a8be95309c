package main

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/demography"
	"github.com/carbocation/hfedash/distribution"
	"github.com/carbocation/hfedash/hwe"
)

const na = "NA"

// WriteHWE prints one line per locus. Loci without enough data for a test
// keep their observed counts and carry NA everywhere else.
func WriteHWE(w io.Writer, ds *dataset.Dataset, loci distribution.Loci) error {
	fmt.Fprintf(w, "LOCUS\tN\tNORMAL\tHETEROZYGOT\tMUTANT\tP\tQ\tE_NORMAL\tE_HETEROZYGOT\tE_MUTANT\tCHI2\tDF\tP_CHISQ\tP_EXACT\tCONCLUSION\n")

	for _, locus := range loci {
		result, err := hwe.Analyze(ds, locus.Column)
		if err != nil {
			return fmt.Errorf("locus %s: %w", locus.Name, err)
		}

		c := result.Counts()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t", locus.Name, c.Total, c.Normal, c.Heterozygot, c.Mutant)

		switch v := result.(type) {
		case hwe.Computed:
			fmt.Fprintf(w, "%.5g\t%.5g\t%.5g\t%.5g\t%.5g\t%.5g\t%d\t%.5g\t%.5g\t%s\n",
				v.Alleles.P,
				v.Alleles.Q,
				v.Expected.Normal,
				v.Expected.Heterozygot,
				v.Expected.Mutant,
				v.Chi2,
				v.DF,
				v.PValue,
				v.ExactP,
				v.Conclusion())
		case hwe.Insufficient:
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s (%s)\n", na, na, na, na, na, na, na, na, na, na, v.Reason)
		}
	}

	return nil
}

// WriteDistribution prints one of the genotype, risk or summary tables.
func WriteDistribution(w io.Writer, ds *dataset.Dataset, loci distribution.Loci, table string) error {
	report, err := distribution.Aggregate(ds, loci)
	if err != nil {
		return err
	}

	switch table {
	case "genotypes":
		fmt.Fprintf(w, "LOCUS\tNORMAL\tNORMAL_PCT\tHETEROZYGOT\tHETEROZYGOT_PCT\tMUTANT\tMUTANT_PCT\n")
		for _, row := range report.Genotypes {
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\t%.2f\t%d\t%.2f\n", row.Locus,
				row.Normal.Count, row.Normal.Rounded,
				row.Heterozygot.Count, row.Heterozygot.Rounded,
				row.Mutant.Count, row.Mutant.Rounded)
		}
	case "risk":
		fmt.Fprintf(w, "CATEGORY\tKIND\tCOUNT\tPCT\n")
		for _, row := range report.Risk {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\n", row.Category, row.Kind, row.Count, row.Rounded)
		}
	case "summary":
		fmt.Fprintf(w, "GROUP\tCOUNT\tPCT\n")
		for _, row := range report.Summary {
			fmt.Fprintf(w, "%s\t%d\t%.2f\n", row.Group, row.Count, row.Rounded)
		}
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	return nil
}

// WriteAgeHistogram draws a terminal histogram of the parsable ages.
func WriteAgeHistogram(w io.Writer, ds *dataset.Dataset, ageColumn string) error {
	ages, missing, err := demography.Ages(ds, ageColumn)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Ages of %d patients (%d missing)\n", len(ages), missing)
	if len(ages) == 0 {
		return nil
	}

	hist := histogram.Hist(15, ages)

	return histogram.Fprint(w, hist, histogram.Linear(40))
}
