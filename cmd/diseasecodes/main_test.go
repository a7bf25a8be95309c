package main

import (
	"bytes"
	"testing"

	"github.com/carbocation/hfedash/diagnosis"
)

func TestWriteCodes(t *testing.T) {
	book := diagnosis.NewCodeBook([]diagnosis.Code{
		{Code: "K76.0", Name: "Fatty liver"},
		{Code: "e83.1", Name: "Disorders of iron metabolism"},
	})

	var buf bytes.Buffer
	if err := WriteCodes(&buf, book); err != nil {
		t.Fatal(err)
	}

	expected := "code\tname\nE83.1\tDisorders of iron metabolism\nK76.0\tFatty liver\n"
	if buf.String() != expected {
		t.Fatalf("Expected %q, got %q", expected, buf.String())
	}

	// The output must round trip through the dashboard's loader
	reloaded, err := diagnosis.LoadCodeBookCSV(&buf, '\t')
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 2 || reloaded.Name("K76.0") != "Fatty liver" {
		t.Fatalf("Round trip lost codes: %d", reloaded.Len())
	}
}
