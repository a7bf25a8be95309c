package dataset

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
)

// LoadBigQuery builds a Dataset from the result of a standard SQL query.
// Every value is rendered as a string; NULL becomes the empty string, which
// the genotype counter then excludes like any other unrecognized label.
func LoadBigQuery(ctx context.Context, client *bigquery.Client, query string) (*Dataset, error) {
	log.Printf("Loading dataset from BigQuery\n")

	q := client.Query(query)
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rows := make([][]string, 0)

	for {
		var values []bigquery.Value
		err := itr.Next(&values)
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}

	// The schema is only populated once Next has been called
	header := make([]string, 0, len(itr.Schema))
	for _, field := range itr.Schema {
		header = append(header, field.Name)
	}

	log.Printf("Loaded %d records with %d columns from BigQuery\n", len(rows), len(header))

	return New(header, rows), nil
}
