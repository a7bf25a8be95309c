package diagnosis

import (
	"sort"
	"strings"

	fet "github.com/glycerine/golang-fisher-exact"
	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/distribution"
)

// CodeCount is how many patients carry one diagnosis code, split by their
// predisposition status (indexed by distribution.Status).
type CodeCount struct {
	Code string
	Name string
	distribution.Percentage
	ByStatus [3]int
}

// ChapterCount groups codes by their leading letter.
type ChapterCount struct {
	Chapter string
	distribution.Percentage
}

// Analysis is the diagnosis breakdown of a dataset.
type Analysis struct {
	TotalPatients int
	WithDiagnosis int
	Codes         []CodeCount
	Chapters      []ChapterCount
}

// Analyze counts diagnosis codes over every record of ds, sorted by count
// descending and then by code. book may be nil, in which case names are
// empty.
func Analyze(ds *dataset.Dataset, diagnosisColumn string, loci distribution.Loci, book *CodeBook) (Analysis, error) {
	diagnoses, err := ds.Column(diagnosisColumn)
	if err != nil {
		return Analysis{}, err
	}

	classified, err := distribution.ClassifyDataset(ds, loci)
	if err != nil {
		return Analysis{}, err
	}

	total := ds.Len()
	out := Analysis{TotalPatients: total}

	byCode := make(map[string]*CodeCount)
	byChapter := make(map[string]int)
	for i, raw := range diagnoses {
		code := Normalize(raw)
		if code == "" {
			continue
		}
		out.WithDiagnosis++

		cc, exists := byCode[code]
		if !exists {
			cc = &CodeCount{Code: code, Name: book.Name(code)}
			byCode[code] = cc
		}
		cc.Count++
		cc.ByStatus[classified[i].Status()]++

		byChapter[Chapter(code)]++
	}

	for _, cc := range byCode {
		cc.Percentage = distribution.NewPercentage(cc.Count, total)
		out.Codes = append(out.Codes, *cc)
	}
	sort.Slice(out.Codes, func(i, j int) bool {
		if out.Codes[i].Count != out.Codes[j].Count {
			return out.Codes[i].Count > out.Codes[j].Count
		}
		return out.Codes[i].Code < out.Codes[j].Code
	})

	for chapter, n := range byChapter {
		out.Chapters = append(out.Chapters, ChapterCount{Chapter: chapter, Percentage: distribution.NewPercentage(n, total)})
	}
	sort.Slice(out.Chapters, func(i, j int) bool { return out.Chapters[i].Chapter < out.Chapters[j].Chapter })

	return out, nil
}

// Association is a 2x2 table of at-risk status against having a diagnosis
// code, with a two-sided Fisher exact test.
//
//	              has code   lacks code
//	at risk       Table[0][0] Table[0][1]
//	not at risk   Table[1][0] Table[1][1]
type Association struct {
	Code      string
	Table     [2][2]int
	PValue    float64
	OddsRatio null.Float
}

// Associate tests whether patients at risk (homozygous mutant or compound
// heterozygote) carry a diagnosis code more often than the rest. A patient
// has the code when their diagnosis starts with it, so "E83" matches
// "E83.1".
func Associate(ds *dataset.Dataset, diagnosisColumn string, loci distribution.Loci, code string) (Association, error) {
	diagnoses, err := ds.Column(diagnosisColumn)
	if err != nil {
		return Association{}, err
	}

	classified, err := distribution.ClassifyDataset(ds, loci)
	if err != nil {
		return Association{}, err
	}

	code = Normalize(code)
	out := Association{Code: code}

	for i, raw := range diagnoses {
		row := 1
		if classified[i].AtRisk() {
			row = 0
		}

		col := 1
		if code != "" && strings.HasPrefix(Normalize(raw), code) {
			col = 0
		}

		out.Table[row][col]++
	}

	_, _, _, out.PValue = fet.FisherExactTest(out.Table[0][0], out.Table[0][1], out.Table[1][0], out.Table[1][1])

	if denom := out.Table[0][1] * out.Table[1][0]; denom > 0 {
		out.OddsRatio = null.FloatFrom(float64(out.Table[0][0]*out.Table[1][1]) / float64(denom))
	}

	return out, nil
}
