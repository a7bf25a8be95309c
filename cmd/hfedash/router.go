package main

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interpose/middleware"
	"github.com/justinas/alice"
)

func router(config *Global) (http.Handler, error) {
	router := mux.NewRouter()
	GET := router.Methods("GET", "HEAD").Subrouter()

	h := &handler{Global: config, router: router}

	GET.HandleFunc("/", h.Index).Name("index")
	GET.HandleFunc("/goroutines", h.Goroutines)
	GET.HandleFunc("/data", h.Data).Name("data")
	GET.HandleFunc("/hwe", h.HardyWeinberg).Name("hwe")
	GET.HandleFunc("/distribution", h.Distribution).Name("distribution")
	GET.HandleFunc("/diagnosis", h.Diagnosis).Name("diagnosis")
	GET.HandleFunc("/codes", h.Codes).Name("codes")
	GET.HandleFunc("/demography", h.Demography).Name("demography")
	GET.HandleFunc("/chart/genotype/{locus}.png", h.GenotypeChart).Name("genotypechart")
	GET.HandleFunc("/chart/demography.png", h.DemographyChart).Name("demographychart")

	// Static assets
	assetFilesystem, err := fs.Sub(embeddedTemplates, "templates/static")
	if err != nil {
		return nil, err
	}

	GET.PathPrefix(h.Assets()).Handler(
		middleware.MaxAgeHandler(60*60*24*364,
			http.StripPrefix(h.Assets(), http.FileServer(http.FS(assetFilesystem)))))

	router.NotFoundHandler = http.HandlerFunc(h.NotFound)

	standard := alice.New(
		// Log all requests to STDOUT
		middleware.GorillaLog(),
	)

	return standard.Then(router), nil
}
