package main

import (
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/gorilla/mux"
)

const (
	BaseFilename = "_base.html"
)

//go:embed templates/*.html templates/static
var embeddedTemplates embed.FS

// handler provides global values that must be
// safe for concurrent use from multiple goroutines
// to each handler method.
type handler struct {
	*Global

	router *mux.Router

	// Cached value / do not use directly.
	assets *string

	// Mutex protected values
	mu       sync.RWMutex
	template map[string]*template.Template
}

func (h *handler) Assets() string {
	if h.assets == nil {
		h.Global.log.Println("Initializing Assets")

		glyphs := fmt.Sprintf("/%s", RandHeteroglyphs(10))
		h.assets = &glyphs
	}

	return *h.assets
}

// Template returns the named page parsed on top of a private copy of the
// base layout. Parsed templates are cached for the life of the process.
func (h *handler) Template(templateFilename string) (*template.Template, error) {
	h.mu.RLock()
	tpl, ok := h.template[cloneName(templateFilename)]
	h.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Another goroutine may have won the race
	if tpl, ok := h.template[cloneName(templateFilename)]; ok {
		return tpl, nil
	}

	if h.template == nil {
		h.Global.log.Println("Initializing HTML templates")
		h.template = make(map[string]*template.Template)
	}

	base, ok := h.template[BaseFilename]
	if !ok {
		var err error
		base, err = template.New(BaseFilename).Funcs(templateFuncs).ParseFS(embeddedTemplates, "templates/_*.html")
		if err != nil {
			return nil, fmt.Errorf("handler.go:Template: %w", err)
		}
		h.template[BaseFilename] = base
	}

	// Generate a clone of the base template so you don't contaminate it with the
	// derivative template's `define` statements. The base itself is never
	// executed, since an executed template can no longer be cloned.
	h.Global.log.Println("Initializing HTML template for", templateFilename)
	tpl, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("handler.go:Template: %w", err)
	}

	if templateFilename != BaseFilename {
		tpl, err = tpl.ParseFS(embeddedTemplates, "templates/"+templateFilename)
		if err != nil {
			return nil, fmt.Errorf("handler.go:Template: %w", err)
		}
	}
	h.template[cloneName(templateFilename)] = tpl

	return tpl, nil
}

// cloneName keeps the pristine base layout and its executable copy under
// different cache keys.
func cloneName(templateFilename string) string {
	if templateFilename == BaseFilename {
		return "CLONE" + BaseFilename
	}
	return templateFilename
}
