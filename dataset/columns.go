package dataset

import "fmt"

// Columns maps the roles the analyses need onto the dataset's real column
// names.
type Columns struct {
	C282Y string
	H63D  string
	S65C  string

	Sex       string
	Age       string
	Diagnosis string
	TestDate  string
}

// DefaultColumns returns the column names used by the cleaned SSBU export.
func DefaultColumns() Columns {
	return Columns{
		C282Y:     "HFE G845A (C282Y) [HFE]",
		H63D:      "HFE C187G (H63D) [HFE]",
		S65C:      "HFE A193T (S65C) [HFE]",
		Sex:       "pohlavie",
		Age:       "vek",
		Diagnosis: "diagnoza MKCH-10",
		TestDate:  "validovany vysledok",
	}
}

// Validate returns a FieldError for the first genotype column that ds does
// not have. Demographic columns are optional and are not checked.
func (c Columns) Validate(ds *Dataset) error {
	for _, name := range []string{c.C282Y, c.H63D, c.S65C} {
		if !ds.HasColumn(name) {
			return fmt.Errorf("genotype column: %w", &FieldError{Column: name})
		}
	}

	return nil
}
