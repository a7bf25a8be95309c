package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/hfedash"
	"github.com/carbocation/pfx"
)

// Load parses a delimited table whose first row is the header. Backslash
// escaped quotes are accepted alongside the standard doubled quotes.
func Load(r io.Reader, delim rune) (*Dataset, error) {
	cr := csv.NewReader(newQuoteFixReader(r))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset has no header row")
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("Header parsing error: %v", err))
	}

	// Excel exports start with a UTF-8 byte order mark
	if len(header) > 0 {
		header[0] = string(bytes.TrimPrefix([]byte(header[0]), []byte("\xef\xbb\xbf")))
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	return New(header, rows), nil
}

// LoadFile reads the dataset at path, which may be local, ~-prefixed,
// compressed or (with a non-nil client) a gs:// URL. If delim is zero, the
// delimiter is detected from the content.
func LoadFile(ctx context.Context, path string, client *storage.Client, delim rune) (*Dataset, error) {
	log.Printf("Loading dataset from %s\n", path)

	rc, err := hfedash.OpenDataFile(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// The dataset is small enough to hold twice: once raw for delimiter
	// detection, once parsed.
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if delim == 0 {
		delim = hfedash.DetermineDelimiter(bytes.NewReader(raw))
		log.Printf("Determined dataset delimiter to be \"%s\"\n", string(delim))
	}

	ds, err := Load(bytes.NewReader(raw), delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("Loaded %d records with %d columns\n", ds.Len(), len(ds.header))

	return ds, nil
}
