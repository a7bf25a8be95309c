package main

import (
	"fmt"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/diagnosis"
	"github.com/carbocation/hfedash/distribution"
)

type Global struct {
	log           logger
	storageClient *storage.Client

	Site      string
	BuildInfo string

	// Source describes where the dataset was read from.
	Source   string
	PageSize int
	AgeWidth int

	Columns dataset.Columns
	Loci    distribution.Loci

	// The dataset and code book are loaded once at startup and never
	// modified, so they are safe to share between requests without locks.
	dataset *dataset.Dataset
	codes   *diagnosis.CodeBook
}

func (g *Global) Dataset() *dataset.Dataset {
	return g.dataset
}

func (g *Global) CodeBook() *diagnosis.CodeBook {
	return g.codes
}

// Locus finds a configured locus by its display name, case-insensitively.
func (g *Global) Locus(name string) (distribution.Locus, error) {
	for _, l := range g.Loci {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}

	return distribution.Locus{}, fmt.Errorf("%w: %q", errUnknownLocus, name)
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
