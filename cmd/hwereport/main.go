package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/carbocation/hfedash"
	_ "github.com/carbocation/hfedash/compileinfoprint"
	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/distribution"
)

// Prints Hardy-Weinberg and genotype distribution tables for the three HFE
// loci of a patient dataset as tab-delimited text.
func main() {
	cols := dataset.DefaultColumns()

	var dataPath, delimiter, table string
	var ageHistogram bool
	flag.StringVar(&dataPath, "data", "", "Path to the delimited patient dataset. May be compressed, start with ~/, or be a Google Storage URL (gs://).")
	flag.StringVar(&delimiter, "delimiter", "", "(Optional) Field delimiter of the dataset. Use 'tab' for tabs. If empty, it is detected from the file.")
	flag.StringVar(&table, "table", "hwe", "Which table to print: hwe, genotypes, risk or summary")
	flag.BoolVar(&ageHistogram, "age-histogram", false, "(Optional) Also draw a histogram of patient ages on STDERR.")
	flag.StringVar(&cols.C282Y, "c282y", cols.C282Y, "Column holding the C282Y genotype")
	flag.StringVar(&cols.H63D, "h63d", cols.H63D, "Column holding the H63D genotype")
	flag.StringVar(&cols.S65C, "s65c", cols.S65C, "Column holding the S65C genotype")
	flag.StringVar(&cols.Age, "age", cols.Age, "Column holding the patient's age")
	flag.Parse()

	if dataPath == "" {
		flag.PrintDefaults()
		log.Fatalln()
	}

	ctx := context.Background()

	var sclient *storage.Client
	var err error
	if strings.HasPrefix(dataPath, "gs://") {
		sclient, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
	}

	ds, err := dataset.LoadFile(ctx, dataPath, sclient, hfedash.ParseDelimiter(delimiter))
	if err != nil {
		log.Fatalln(err)
	}

	loci := distribution.DefaultLoci(cols)

	switch table {
	case "hwe":
		err = WriteHWE(os.Stdout, ds, loci)
	case "genotypes", "risk", "summary":
		err = WriteDistribution(os.Stdout, ds, loci, table)
	default:
		flag.PrintDefaults()
		log.Fatalf("Unknown table %q\n", table)
	}
	if err != nil {
		log.Fatalln(err)
	}

	if ageHistogram {
		if err := WriteAgeHistogram(os.Stderr, ds, cols.Age); err != nil {
			log.Fatalln(err)
		}
	}
}
