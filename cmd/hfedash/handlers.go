package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/gorilla/mux"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/demography"
	"github.com/carbocation/hfedash/diagnosis"
	"github.com/carbocation/hfedash/distribution"
	"github.com/carbocation/hfedash/genotype"
	"github.com/carbocation/hfedash/hwe"
)

func (h *handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Error(h, w, r, fmt.Errorf("%w: %s", errNotFound, r.URL.Path))
}

func (h *handler) Goroutines(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "There are %d goroutines running\n", runtime.NumGoroutine())
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	ds := h.Dataset()

	output := struct {
		Records int
		Header  []string
		Columns dataset.Columns
		Loci    distribution.Loci
		Codes   int
		Age     *demography.AgeSummary `json:",omitempty"`
	}{
		Records: ds.Len(),
		Header:  ds.Header(),
		Columns: h.Columns,
		Loci:    h.Loci,
		Codes:   h.CodeBook().Len(),
	}

	// Age is optional
	if ds.HasColumn(h.Columns.Age) {
		age, err := demography.SummarizeAge(ds, h.Columns.Age)
		if err != nil {
			Error(h, w, r, err)
			return
		}
		output.Age = &age
	}

	Render(h, w, r, h.Global.Site, "index.html", output, renderOptsFromRequest(r))
}

func (h *handler) Data(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		Error(h, w, r, err)
		return
	}

	query := r.URL.Query().Get("q")
	matches := h.Dataset().Filter(query)

	output := struct {
		Query    string
		Header   []string
		Rows     [][]string
		Total    int
		Matches  int
		Page     int
		Pages    int
		PageSize int
	}{
		Query:    query,
		Header:   matches.Header(),
		Rows:     matches.Page(page-1, h.PageSize).Rows(),
		Total:    h.Dataset().Len(),
		Matches:  matches.Len(),
		Page:     page,
		Pages:    matches.Pages(h.PageSize),
		PageSize: h.PageSize,
	}

	Render(h, w, r, "Dataset", "data.html", output, renderOptsFromRequest(r))
}

// hweView flattens the tagged HWE result for templates and JSON. Exactly
// one of Computed and Insufficient is set.
type hweView struct {
	Locus  string
	Column string
	Counts genotype.Counts

	Computed     *hwe.Computed     `json:",omitempty"`
	Insufficient *hwe.Insufficient `json:",omitempty"`

	Conclusion string
}

func newHWEView(locus distribution.Locus, result hwe.Result) hweView {
	out := hweView{
		Locus:  locus.Name,
		Column: locus.Column,
		Counts: result.Counts(),
	}

	switch v := result.(type) {
	case hwe.Computed:
		out.Computed = &v
		out.Conclusion = v.Conclusion()
	case hwe.Insufficient:
		out.Insufficient = &v
		out.Conclusion = "N/A"
	}

	return out
}

func (h *handler) HardyWeinberg(w http.ResponseWriter, r *http.Request) {
	output := struct {
		Alpha float64
		Loci  []hweView
	}{
		Alpha: hwe.Alpha,
	}

	for _, locus := range h.Loci {
		result, err := hwe.Analyze(h.Dataset(), locus.Column)
		if err != nil {
			Error(h, w, r, err)
			return
		}
		output.Loci = append(output.Loci, newHWEView(locus, result))
	}

	Render(h, w, r, "Hardy-Weinberg equilibrium", "hwe.html", output, renderOptsFromRequest(r))
}

func (h *handler) Distribution(w http.ResponseWriter, r *http.Request) {
	report, err := distribution.Aggregate(h.Dataset(), h.Loci)
	if err != nil {
		Error(h, w, r, err)
		return
	}

	Render(h, w, r, "Genotype distribution", "distribution.html", report, renderOptsFromRequest(r))
}

func (h *handler) Diagnosis(w http.ResponseWriter, r *http.Request) {
	analysis, err := diagnosis.Analyze(h.Dataset(), h.Columns.Diagnosis, h.Loci, h.CodeBook())
	if err != nil {
		Error(h, w, r, err)
		return
	}

	output := struct {
		Column string
		diagnosis.Analysis
		Code        string
		CodeName    string
		Association *diagnosis.Association `json:",omitempty"`
	}{
		Column:   h.Columns.Diagnosis,
		Analysis: analysis,
	}

	if code := diagnosis.Normalize(r.URL.Query().Get("code")); code != "" {
		assoc, err := diagnosis.Associate(h.Dataset(), h.Columns.Diagnosis, h.Loci, code)
		if err != nil {
			Error(h, w, r, err)
			return
		}
		output.Code = code
		output.CodeName = h.CodeBook().Name(code)
		output.Association = &assoc
	}

	Render(h, w, r, "Diagnoses", "diagnosis.html", output, renderOptsFromRequest(r))
}

func (h *handler) Codes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	output := struct {
		Query  string
		Loaded int
		Codes  []diagnosis.Code
	}{
		Query:  query,
		Loaded: h.CodeBook().Len(),
		Codes:  h.CodeBook().Search(query),
	}

	Render(h, w, r, "Disease codes", "codes.html", output, renderOptsFromRequest(r))
}

// crossTab builds the demographic table selected by the by, locus and width
// query parameters.
func (h *handler) crossTab(r *http.Request) (demography.Table, error) {
	q := r.URL.Query()

	name := q.Get("locus")
	if name == "" {
		name = h.Loci[0].Name
	}
	locus, err := h.Locus(name)
	if err != nil {
		return demography.Table{}, err
	}

	var tab demography.Table
	switch by := strings.ToLower(q.Get("by")); by {
	case "", "sex":
		tab, err = demography.CrossTab(h.Dataset(), h.Columns.Sex, locus.Column)
	case "age":
		var width int
		if width, err = intParam(r, "width", h.AgeWidth); err != nil {
			return demography.Table{}, err
		}
		tab, err = demography.AgeGroups(h.Dataset(), h.Columns.Age, locus.Column, width)
	case "year":
		tab, err = demography.YearTable(h.Dataset(), h.Columns.TestDate, locus.Column)
	default:
		return demography.Table{}, fmt.Errorf("%w: cannot group by %q", errBadRequest, by)
	}
	if err != nil {
		return demography.Table{}, err
	}

	// Report the locus by its display name rather than its column
	tab.Locus = locus.Name

	return tab, nil
}

func (h *handler) Demography(w http.ResponseWriter, r *http.Request) {
	tab, err := h.crossTab(r)
	if err != nil {
		Error(h, w, r, err)
		return
	}

	chart := url.Values{}
	for _, key := range []string{"by", "locus", "width"} {
		if v := r.URL.Query().Get(key); v != "" {
			chart.Set(key, v)
		}
	}

	output := struct {
		demography.Table
		Loci     distribution.Loci
		ChartURL string
	}{
		Table:    tab,
		Loci:     h.Loci,
		ChartURL: "/chart/demography.png?" + chart.Encode(),
	}

	Render(h, w, r, "Demography", "demography.html", output, renderOptsFromRequest(r))
}

func (h *handler) GenotypeChart(w http.ResponseWriter, r *http.Request) {
	locus, err := h.Locus(mux.Vars(r)["locus"])
	if err != nil {
		Error(h, w, r, err)
		return
	}

	counts, err := genotype.Count(h.Dataset(), locus.Column)
	if err != nil {
		Error(h, w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := demography.RenderGenotypeChart(&buf, counts, locus.Name+" genotypes"); err != nil {
		Error(h, w, r, err)
		return
	}

	writePNG(w, &buf)
}

func (h *handler) DemographyChart(w http.ResponseWriter, r *http.Request) {
	tab, err := h.crossTab(r)
	if err != nil {
		Error(h, w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := demography.RenderTableChart(&buf, tab, fmt.Sprintf("%s by %s", tab.Locus, tab.By)); err != nil {
		Error(h, w, r, err)
		return
	}

	writePNG(w, &buf)
}

func writePNG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
