package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"github.com/gocarina/gocsv"

	_ "github.com/carbocation/hfedash/compileinfoprint"
	"github.com/carbocation/hfedash/diagnosis"
)

// Converts a legacy Excel disease code book into the tab-delimited code/name
// file that the dashboard reads with --codes.
func main() {
	var filename string

	flag.StringVar(&filename, "filename", "", "Name of XLS file. Every sheet is read; the first two columns must be the code and its name.")
	flag.Parse()

	if filename == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	book, err := diagnosis.LoadCodeBookXLS(filename)
	if err != nil {
		log.Fatalln(err)
	}

	log.Println(book.Len(), "Codes")

	if err := WriteCodes(os.Stdout, book); err != nil {
		log.Fatalln(err)
	}
}

// WriteCodes prints the code book, sorted by code, with a code/name header.
func WriteCodes(w io.Writer, book *diagnosis.CodeBook) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	codes := book.Search("")
	if codes == nil {
		codes = []diagnosis.Code{}
	}

	return gocsv.MarshalCSV(&codes, gocsv.NewSafeCSVWriter(cw))
}
