package demography

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/genotype"
)

func testDataset() *dataset.Dataset {
	return dataset.New([]string{"sex", "age", "date", "c282y"}, [][]string{
		{"M", "45", "2019-03-01", "normal"},
		{"F", "47,5", "2019-11-20", "heterozygot"},
		{"F", "62", "25.06.2021", "mutant"},
		{"M", "", "not a date", "normal"},
		{"", "abc", "", "heterozygot"},
		{"F", "8", "2021-01-01", ""},
	})
}

func TestCrossTab(t *testing.T) {
	tab, err := CrossTab(testDataset(), "sex", "c282y")
	if err != nil {
		t.Fatal(err)
	}

	groups := []string{"F", "M", Unknown}
	if len(tab.Rows) != len(groups) {
		t.Fatalf("Expected %d groups, got %+v", len(groups), tab.Rows)
	}
	for i, g := range groups {
		if tab.Rows[i].Group != g {
			t.Fatalf("Expected group %d to be %q, got %q", i, g, tab.Rows[i].Group)
		}
	}

	if want := (genotype.Counts{Normal: 0, Heterozygot: 1, Mutant: 1, Total: 2}); tab.Rows[0].Counts != want {
		t.Fatalf("F: expected %+v, got %+v", want, tab.Rows[0].Counts)
	}
	if tab.Totals.Total != 5 {
		t.Fatalf("Expected 5 recognized calls, got %d", tab.Totals.Total)
	}

	if _, err := CrossTab(testDataset(), "missing", "c282y"); !errors.Is(err, dataset.ErrFieldNotFound) {
		t.Fatalf("Expected ErrFieldNotFound, got %v", err)
	}
}

func TestParseAge(t *testing.T) {
	for _, v := range []struct {
		Raw   string
		Age   int64
		Valid bool
	}{
		{"45", 45, true},
		{" 47,5 ", 47, true},
		{"0", 0, true},
		{"", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"200", 0, false},
	} {
		got := ParseAge(v.Raw)
		if got.Valid != v.Valid || got.Int64 != v.Age {
			t.Errorf("ParseAge(%q): expected %d/%v, got %d/%v", v.Raw, v.Age, v.Valid, got.Int64, got.Valid)
		}
	}
}

func TestAgeGroups(t *testing.T) {
	tab, err := AgeGroups(testDataset(), "age", "c282y", 10)
	if err != nil {
		t.Fatal(err)
	}

	groups := []string{"0-9", "40-49", "60-69", Unknown}
	if len(tab.Rows) != len(groups) {
		t.Fatalf("Expected %d groups, got %+v", len(groups), tab.Rows)
	}
	for i, g := range groups {
		if tab.Rows[i].Group != g {
			t.Fatalf("Expected group %d to be %q, got %q", i, g, tab.Rows[i].Group)
		}
	}
	if tab.Rows[1].Counts.Total != 2 {
		t.Fatalf("Expected 2 calls in 40-49, got %+v", tab.Rows[1].Counts)
	}

	if _, err := AgeGroups(testDataset(), "age", "c282y", 0); err == nil {
		t.Fatalf("Expected an error for a zero width")
	}
}

func TestYearTable(t *testing.T) {
	tab, err := YearTable(testDataset(), "date", "c282y")
	if err != nil {
		t.Fatal(err)
	}

	groups := []string{"2019", "2021", Unknown}
	if len(tab.Rows) != len(groups) {
		t.Fatalf("Expected %d groups, got %+v", len(groups), tab.Rows)
	}
	for i, g := range groups {
		if tab.Rows[i].Group != g {
			t.Fatalf("Expected group %d to be %q, got %q", i, g, tab.Rows[i].Group)
		}
	}
}

func TestYearTableDayFirst(t *testing.T) {
	ds := dataset.New([]string{"date", "c282y"}, [][]string{
		{"25.06.2021", "normal"},
		{"25.06.2021 10:15", "heterozygot"},
		{"05.06.2021", "normal"},
		{"31.12.2020", "mutant"},
		{"2019-03-01", "normal"},
	})

	tab, err := YearTable(ds, "date", "c282y")
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"2019": 1, "2020": 1, "2021": 3}
	if len(tab.Rows) != len(want) {
		t.Fatalf("Expected groups %v, got %+v", want, tab.Rows)
	}
	for _, row := range tab.Rows {
		if row.Counts.Total != want[row.Group] {
			t.Errorf("Group %q: expected %d calls, got %d", row.Group, want[row.Group], row.Counts.Total)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, v := range []struct {
		Raw   string
		Year  int
		Month time.Month
		Day   int
	}{
		{"25.06.2021", 2021, time.June, 25},
		{"25.06.2021 10:15", 2021, time.June, 25},
		{"05.06.2021", 2021, time.June, 5},
		{"5.6.2021", 2021, time.June, 5},
		{"31.12.2020", 2020, time.December, 31},
		{"25/06/2021", 2021, time.June, 25},
		{"2019-03-01", 2019, time.March, 1},
		{"2018.09.30", 2018, time.September, 30},
	} {
		got, err := ParseDate(v.Raw)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", v.Raw, err)
			continue
		}
		if got.Year() != v.Year || got.Month() != v.Month || got.Day() != v.Day {
			t.Errorf("ParseDate(%q): expected %d-%02d-%02d, got %s", v.Raw, v.Year, v.Month, v.Day, got.Format("2006-01-02"))
		}
	}

	for _, raw := range []string{"", "not a date", "35.13.2021"} {
		if _, err := ParseDate(raw); err == nil {
			t.Errorf("ParseDate(%q): expected an error", raw)
		}
	}
}

func TestSummarizeAge(t *testing.T) {
	s, err := SummarizeAge(testDataset(), "age")
	if err != nil {
		t.Fatal(err)
	}

	if s.N != 4 || s.Missing != 2 {
		t.Fatalf("Expected 4 ages and 2 missing, got %d and %d", s.N, s.Missing)
	}
	if math.Abs(s.Mean-(45+47+62+8)/4.0) > 1e-9 {
		t.Fatalf("Unexpected mean %f", s.Mean)
	}
	if s.Median != 46 || s.Min != 8 || s.Max != 62 {
		t.Fatalf("Unexpected summary %+v", s)
	}

	empty, err := SummarizeAge(dataset.New([]string{"age"}, nil), "age")
	if err != nil {
		t.Fatal(err)
	}
	if empty.N != 0 || empty.Mean != 0 {
		t.Fatalf("Expected an empty summary, got %+v", empty)
	}
}

var pngSignature = []byte{0x89, 'P', 'N', 'G'}

func TestRenderCharts(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderGenotypeChart(&buf, genotype.Counts{Normal: 5, Heterozygot: 3, Mutant: 1, Total: 9}, "C282Y"); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Fatalf("Genotype chart is not a PNG")
	}

	tab, err := CrossTab(testDataset(), "sex", "c282y")
	if err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	if err := RenderTableChart(&buf, tab, "C282Y by sex"); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Fatalf("Cross tabulation chart is not a PNG")
	}

	if err := RenderGenotypeChart(&buf, genotype.Counts{}, "empty"); !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("Expected ErrNothingToPlot, got %v", err)
	}
	if err := RenderTableChart(&buf, Table{}, "empty"); !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("Expected ErrNothingToPlot, got %v", err)
	}
}
