package main

import (
	"bytes"
	"encoding/json"
	"net/http"
)

const (
	JSON = "json"
	HTML = "html"
)

type Page struct {
	Title     string
	Site      string
	Source    string
	BuildInfo string
	Assets    string
	Data      interface{}
}

type renderOpts struct {
	OutputFormat string
}

func NewRenderOpts() *renderOpts {
	return &renderOpts{
		OutputFormat: HTML,
	}
}

// renderOptsFromRequest honors ?format=json on every page.
func renderOptsFromRequest(r *http.Request) *renderOpts {
	opts := NewRenderOpts()
	if r.URL.Query().Get("format") == JSON {
		opts.OutputFormat = JSON
	}

	return opts
}

func Render(h *handler, w http.ResponseWriter, r *http.Request, title string, tpl string, data interface{}, opts *renderOpts) {
	if opts == nil {
		opts = NewRenderOpts()
	}

	if opts.OutputFormat == JSON {
		renderJSON(h, w, r, data, *opts)
		return
	}

	page := Page{
		Title:     title,
		Site:      h.Global.Site,
		Source:    h.Global.Source,
		BuildInfo: h.Global.BuildInfo,
		Assets:    h.Assets(),
		Data:      data,
	}

	renderHTML(h, w, r, tpl, page, *opts)
}

func renderJSON(h *handler, w http.ResponseWriter, r *http.Request, data interface{}, opts renderOpts) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Println(r.URL.Path, err)
	}
}

func renderHTML(h *handler, w http.ResponseWriter, r *http.Request, tpl string, page Page, opts renderOpts) {
	if tpl == "" {
		tpl = BaseFilename
	}

	t, err := h.Template(tpl)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	// Execute into a buffer so a failing template still yields a clean error
	// page instead of a half-written one.
	var buf bytes.Buffer
	if err := t.Execute(&buf, page); err != nil {
		HTTPError(h, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
