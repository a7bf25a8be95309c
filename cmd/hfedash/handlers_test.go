package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/diagnosis"
	"github.com/carbocation/hfedash/distribution"
)

var testColumns = dataset.Columns{
	C282Y:     "c282y",
	H63D:      "h63d",
	S65C:      "s65c",
	Sex:       "sex",
	Age:       "age",
	Diagnosis: "dg",
	TestDate:  "date",
}

func testGlobal(cols dataset.Columns) *Global {
	ds := dataset.New([]string{"c282y", "h63d", "s65c", "sex", "age", "dg", "date"}, [][]string{
		{"normal", "normal", "normal", "M", "45", "K76.0", "2019-03-01"},
		{"heterozygot", "normal", "normal", "F", "51", "E83.1", "2019-06-12"},
		{"heterozygot", "heterozygot", "normal", "F", "38", "E83.1", "2020-01-05"},
		{"mutant", "normal", "normal", "M", "62", "E83.1", "2020-02-17"},
		{"normal", "heterozygot", "normal", "M", "", "", "2021-09-30"},
		{"normal", "normal", "normal", "F", "29", "Z00.0", "2021-10-01"},
	})

	return &Global{
		log:      log.New(io.Discard, "", 0),
		Site:     "Test",
		Source:   "memory",
		PageSize: 4,
		AgeWidth: 10,
		Columns:  cols,
		Loci:     distribution.DefaultLoci(cols),
		dataset:  ds,
		codes: diagnosis.NewCodeBook([]diagnosis.Code{
			{Code: "E83.1", Name: "Disorders of iron metabolism"},
			{Code: "K76.0", Name: "Fatty liver"},
		}),
	}
}

func serve(t *testing.T, g *Global, target string) *httptest.ResponseRecorder {
	t.Helper()

	h, err := router(g)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	return w
}

func TestPagesRender(t *testing.T) {
	g := testGlobal(testColumns)

	for _, v := range []struct {
		Target string
		Want   string
	}{
		{"/", "Monitored loci"},
		{"/data", "Page 1 of 2"},
		{"/data?q=e83", "3 of 6 records match"},
		{"/data?page=2305843009213693953", "Page 2305843009213693953 of 2"},
		{"/hwe", "Exact P value"},
		{"/distribution", "Predisposition summary"},
		{"/diagnosis", "Disorders of iron metabolism"},
		{"/diagnosis?code=e83", "Fisher exact test"},
		{"/codes?q=liver", "Fatty liver"},
		{"/demography?by=age&locus=h63d", "30-39"},
		{"/demography?by=year", "2021"},
	} {
		w := serve(t, g, v.Target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", v.Target, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), v.Want) {
			t.Errorf("%s: expected body to contain %q", v.Target, v.Want)
		}
	}
}

func TestErrorStatus(t *testing.T) {
	missingDiagnosis := testColumns
	missingDiagnosis.Diagnosis = "no such column"

	for _, v := range []struct {
		Global *Global
		Target string
		Code   int
	}{
		{testGlobal(testColumns), "/nowhere", http.StatusNotFound},
		{testGlobal(testColumns), "/data?page=0", http.StatusBadRequest},
		{testGlobal(testColumns), "/demography?by=height", http.StatusBadRequest},
		{testGlobal(testColumns), "/demography?locus=E168D", http.StatusNotFound},
		{testGlobal(testColumns), "/chart/genotype/E168D.png", http.StatusNotFound},
		{testGlobal(missingDiagnosis), "/diagnosis", http.StatusNotFound},
		{testGlobal(missingDiagnosis), "/diagnosis?format=json", http.StatusNotFound},
	} {
		w := serve(t, v.Global, v.Target)
		if w.Code != v.Code {
			t.Errorf("%s: expected %d, got %d", v.Target, v.Code, w.Code)
		}
	}
}

func TestHardyWeinbergJSON(t *testing.T) {
	w := serve(t, testGlobal(testColumns), "/hwe?format=json")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Expected JSON, got %q", ct)
	}

	var out struct {
		Alpha float64
		Loci  []hweView
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}

	if len(out.Loci) != 3 {
		t.Fatalf("Expected 3 loci, got %d", len(out.Loci))
	}

	c282y := out.Loci[0]
	if c282y.Computed == nil || c282y.Insufficient != nil {
		t.Fatalf("Expected a computed C282Y result, got %+v", c282y)
	}
	if c282y.Counts.Total != 6 {
		t.Fatalf("Expected 6 C282Y calls, got %d", c282y.Counts.Total)
	}

	// Every S65C call is normal
	s65c := out.Loci[2]
	if s65c.Insufficient == nil || s65c.Computed != nil || s65c.Conclusion != "N/A" {
		t.Fatalf("Expected an insufficient S65C result, got %+v", s65c)
	}
}

func TestDistributionJSON(t *testing.T) {
	w := serve(t, testGlobal(testColumns), "/distribution?format=json")

	var report distribution.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}

	// Carriers: row 2 (C282Y) and row 5 (H63D). At risk: row 3 (compound)
	// and row 4 (homozygous).
	if report.TotalCarriers != 2 || report.TotalAtRisk != 2 || report.Unaffected != 2 {
		t.Fatalf("Unexpected totals %+v", report)
	}
}

func TestCharts(t *testing.T) {
	g := testGlobal(testColumns)

	for _, target := range []string{"/chart/genotype/C282Y.png", "/chart/demography.png?by=sex&locus=H63D"} {
		w := serve(t, g, target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Fatalf("%s: expected image/png, got %q", target, ct)
		}
		if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
			t.Fatalf("%s: body is not a PNG", target)
		}
	}

	// A column without a single recognized call has nothing to plot
	empty := testColumns
	empty.C282Y = "sex"
	if w := serve(t, testGlobal(empty), "/chart/genotype/C282Y.png"); w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for an empty chart, got %d", w.Code)
	}
}
