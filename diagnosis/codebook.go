// Package diagnosis looks up disease classification codes and relates the
// patients' diagnoses to their HFE risk status.
package diagnosis

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
	"github.com/gocarina/gocsv"
)

// Code is one entry of the disease classification.
type Code struct {
	Code string `csv:"code"`
	Name string `csv:"name"`
}

// CodeBook maps normalized codes to their entries. It is read-only after
// construction.
type CodeBook struct {
	codes  map[string]Code
	sorted []Code
}

// NewCodeBook indexes codes. Later duplicates replace earlier ones.
func NewCodeBook(codes []Code) *CodeBook {
	book := &CodeBook{codes: make(map[string]Code, len(codes))}

	for _, c := range codes {
		c.Code = Normalize(c.Code)
		c.Name = strings.TrimSpace(c.Name)
		if c.Code == "" {
			continue
		}
		book.codes[c.Code] = c
	}

	book.sorted = make([]Code, 0, len(book.codes))
	for _, c := range book.codes {
		book.sorted = append(book.sorted, c)
	}
	sort.Slice(book.sorted, func(i, j int) bool { return book.sorted[i].Code < book.sorted[j].Code })

	return book
}

// Normalize upper-cases and trims a code so that "e83.1 " matches "E83.1".
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Category returns the three-character category of a code ("E83.1" -> "E83").
// Characters are runes, not bytes.
func Category(code string) string {
	r := []rune(Normalize(code))
	if len(r) > 3 {
		return string(r[:3])
	}
	return string(r)
}

// Chapter returns the leading letter of a code ("E83.1" -> "E").
func Chapter(code string) string {
	code = Normalize(code)
	if code == "" {
		return ""
	}
	_, n := utf8.DecodeRuneInString(code)
	return code[:n]
}

// Len returns the number of codes in the book.
func (b *CodeBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.sorted)
}

// Lookup finds a code, falling back to its three-character category.
func (b *CodeBook) Lookup(code string) (Code, bool) {
	if b == nil {
		return Code{}, false
	}

	if c, ok := b.codes[Normalize(code)]; ok {
		return c, true
	}

	c, ok := b.codes[Category(code)]
	return c, ok
}

// Name returns the name of a code, or "" if it is unknown.
func (b *CodeBook) Name(code string) string {
	c, _ := b.Lookup(code)
	return c.Name
}

// Search returns the entries whose code or name contains query,
// case-insensitively, sorted by code. An empty query returns every entry.
func (b *CodeBook) Search(query string) []Code {
	if b == nil {
		return nil
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Code, 0)
	for _, c := range b.sorted {
		if query == "" ||
			strings.Contains(strings.ToLower(c.Code), query) ||
			strings.Contains(strings.ToLower(c.Name), query) {
			out = append(out, c)
		}
	}

	return out
}

// LoadCodeBookCSV reads a delimited file with "code" and "name" header
// columns.
func LoadCodeBookCSV(r io.Reader, delim rune) (*CodeBook, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true

	records := []*Code{}
	if err := gocsv.UnmarshalCSV(cr, &records); err != nil {
		return nil, pfx.Err(err)
	}

	codes := make([]Code, 0, len(records))
	for _, record := range records {
		codes = append(codes, *record)
	}

	return NewCodeBook(codes), nil
}

// LoadCodeBookXLS reads every sheet of a legacy Excel workbook whose first two
// columns are the code and its name. Rows whose first cell is empty, and a
// leading header row, are skipped.
func LoadCodeBookXLS(path string) (*CodeBook, error) {
	spreadsheet, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	codes := make([]Code, 0)
	for sheetID := 0; sheetID < spreadsheet.NumSheets(); sheetID++ {
		sheet := spreadsheet.GetSheet(sheetID)
		if sheet == nil {
			return nil, fmt.Errorf("%s: sheet %d was nil", path, sheetID)
		}

		log.Printf("Parsing disease code sheet %q\n", sheet.Name)

		for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
			row := sheet.Row(rowID)
			if row == nil || row.LastCol() < 1 {
				continue
			}

			code, name := row.Col(0), row.Col(1)
			if rowID == 0 && isHeader(code) {
				continue
			}
			if strings.TrimSpace(code) == "" {
				continue
			}

			codes = append(codes, Code{Code: code, Name: name})
		}
	}

	return NewCodeBook(codes), nil
}

func isHeader(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "code", "kod", "kód":
		return true
	}
	return false
}
