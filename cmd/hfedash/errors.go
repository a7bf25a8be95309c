package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/demography"
)

var (
	errNotFound     = errors.New("page not found")
	errUnknownLocus = errors.New("unknown locus")
	errBadRequest   = errors.New("bad request")
)

// statusCode maps an error to the HTTP status it should be reported with.
func statusCode(err error) int {
	switch {
	case errors.Is(err, dataset.ErrFieldNotFound),
		errors.Is(err, errUnknownLocus),
		errors.Is(err, errNotFound),
		errors.Is(err, demography.ErrNothingToPlot):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Error reports err in the format the request asked for.
func Error(h *handler, w http.ResponseWriter, r *http.Request, err error) {
	if renderOptsFromRequest(r).OutputFormat == JSON {
		JSONError(h, w, r, err, statusCode(err))
		return
	}

	HTTPError(h, w, r, err, statusCode(err))
}

func JSONError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	w.Header().Set("Content-Type", "application/json")
	unifiedError(h, w, r, err, code...)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(struct {
		Success bool
		Message string
	}{
		false,
		err.Error(),
	})
}

func HTTPError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	output := struct {
		StatusCode     int
		StatusCodeText string
		Error          string
	}{
		StatusCode:     http.StatusInternalServerError,
		StatusCodeText: http.StatusText(http.StatusInternalServerError),
		Error:          err.Error(),
	}

	for _, c := range code {
		output.StatusCode = c
		output.StatusCodeText = http.StatusText(c)
		break // Take the first, if any is given
	}

	/*
		Built from the Render() function, but not calling Render()
		to avoid possibility of infinite loop
	*/
	page := Page{
		Title:     "Error",
		Site:      h.Global.Site,
		Source:    h.Global.Source,
		BuildInfo: h.Global.BuildInfo,
		Assets:    h.Assets(),
		Data:      output,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	unifiedError(h, w, r, err, output.StatusCode)

	tpl, tplErr := h.Template("error.html")
	if tplErr != nil {
		fmt.Fprintf(w, "Error (%d) (%v) with %+v", output.StatusCode, tplErr, page)
		return
	}

	var buf bytes.Buffer
	if tplErr := tpl.Execute(&buf, page); tplErr != nil {
		fmt.Fprintf(w, "Error (%d) (%v) with %+v", output.StatusCode, tplErr, page)
		return
	}
	buf.WriteTo(w)
}

func unifiedError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	usedCode := http.StatusInternalServerError
	if len(code) > 0 {
		usedCode = code[0]
	}
	w.WriteHeader(usedCode)
	h.log.Println(r.Host, r.URL.Path, ":", usedCode, err)
}
