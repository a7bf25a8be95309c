package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/carbocation/hfedash"
	"github.com/carbocation/hfedash/compileinfo"
	_ "github.com/carbocation/hfedash/compileinfoprint"
	"github.com/carbocation/hfedash/dataset"
	"github.com/carbocation/hfedash/diagnosis"
	"github.com/carbocation/hfedash/distribution"
)

var global *Global

func init() {
	// Prevent seed re-use
	rand.Seed(int64(time.Now().Nanosecond()))
}

func main() {
	errors := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig,
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGUSR1,
	)

	cols := dataset.DefaultColumns()

	var dataPath, delimiter, codesPath, bqProject, bqQuery string
	var port, pageSize, ageWidth int
	flag.StringVar(&dataPath, "data", "", "Path to the delimited patient dataset. May be gzip/bzip2/xz/zip compressed, start with ~/, or be a Google Storage URL (gs://).")
	flag.StringVar(&delimiter, "delimiter", "", "(Optional) Field delimiter of the dataset. Use 'tab' for tabs. If empty, it is detected from the file.")
	flag.StringVar(&bqProject, "bigquery-project", "", "(Optional) Google Cloud project used to run --bigquery-query instead of reading --data.")
	flag.StringVar(&bqQuery, "bigquery-query", "", "(Optional) Standard SQL query whose result is used as the dataset.")
	flag.StringVar(&codesPath, "codes", "", "(Optional) Disease code book: a .xls spreadsheet, or a delimited file with code and name columns.")
	flag.StringVar(&cols.C282Y, "c282y", cols.C282Y, "Column holding the C282Y genotype")
	flag.StringVar(&cols.H63D, "h63d", cols.H63D, "Column holding the H63D genotype")
	flag.StringVar(&cols.S65C, "s65c", cols.S65C, "Column holding the S65C genotype")
	flag.StringVar(&cols.Sex, "sex", cols.Sex, "Column holding the patient's sex")
	flag.StringVar(&cols.Age, "age", cols.Age, "Column holding the patient's age")
	flag.StringVar(&cols.Diagnosis, "diagnosis", cols.Diagnosis, "Column holding the diagnosis code")
	flag.StringVar(&cols.TestDate, "date", cols.TestDate, "Column holding the date of the test")
	flag.IntVar(&pageSize, "page-size", 50, "Number of records per page in the dataset view")
	flag.IntVar(&ageWidth, "age-width", 10, "Width, in years, of the age groups")
	flag.IntVar(&port, "port", 9019, "Port for HTTP server")
	flag.Parse()

	if dataPath == "" && bqQuery == "" {
		flag.PrintDefaults()
		return
	}

	ctx := context.Background()

	var sclient *storage.Client
	var err error
	if strings.HasPrefix(dataPath, "gs://") || strings.HasPrefix(codesPath, "gs://") {
		sclient, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
	}

	var ds *dataset.Dataset
	source := dataPath
	if bqQuery != "" {
		bq, err := bigquery.NewClient(ctx, bqProject)
		if err != nil {
			log.Fatalln(err)
		}
		ds, err = dataset.LoadBigQuery(ctx, bq, bqQuery)
		if err != nil {
			log.Fatalln(err)
		}
		bq.Close()
		source = fmt.Sprintf("BigQuery project %s", bqProject)
	} else {
		ds, err = dataset.LoadFile(ctx, dataPath, sclient, hfedash.ParseDelimiter(delimiter))
		if err != nil {
			log.Fatalln(err)
		}
	}

	if err := cols.Validate(ds); err != nil {
		log.Fatalln(err)
	}

	codes, err := loadCodeBook(ctx, codesPath, sclient)
	if err != nil {
		log.Fatalln(err)
	}

	global = &Global{
		Site:          "HFE Dashboard",
		BuildInfo:     compileinfo.Get().String(),
		log:           log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime),
		storageClient: sclient,

		Source:   source,
		PageSize: pageSize,
		AgeWidth: ageWidth,
		Columns:  cols,
		Loci:     distribution.DefaultLoci(cols),

		dataset: ds,
		codes:   codes,
	}

	global.log.Println("Launching", global.Site)

	handler, err := router(global)
	if err != nil {
		log.Fatalln(err)
	}

	go func() {
		global.log.Println("Starting HTTP server on port", port)
		if err := http.ListenAndServe(fmt.Sprintf(`:%d`, port), handler); err != nil {
			errors <- err
			global.log.Println(err)
			sig <- syscall.SIGTERM
			return
		}
	}()

Outer:
	for {
		select {
		case sigl := <-sig:

			if sigl == syscall.SIGUSR1 {
				SigStatus()
				continue
			}

			// By default, exit
			global.log.Printf("\nExit: %s\n", sigl.String())

			break Outer

		case err := <-errors:
			if err == nil {
				global.log.Println("Finished")
				break Outer
			}

			// Return a status code indicating failure
			global.log.Println("Exiting due to error", err)
			os.Exit(1)
		}
	}
}

func SigStatus() {
	global.log.Println("There are", runtime.NumGoroutine(), "goroutines running")
}

func loadCodeBook(ctx context.Context, path string, client *storage.Client) (*diagnosis.CodeBook, error) {
	if path == "" {
		return nil, nil
	}

	var book *diagnosis.CodeBook
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		local, err := hfedash.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		book, err = diagnosis.LoadCodeBookXLS(local)
		if err != nil {
			return nil, err
		}
	} else {
		rc, err := hfedash.OpenDataFile(ctx, path, client)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		raw, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}

		book, err = diagnosis.LoadCodeBookCSV(bytes.NewReader(raw), hfedash.DetermineDelimiter(bytes.NewReader(raw)))
		if err != nil {
			return nil, err
		}
	}

	log.Printf("Loaded %d disease codes from %s\n", book.Len(), path)

	return book, nil
}
