package dataset

import (
	"bufio"
	"io"
	"strings"
)

// quoteFixReader transparently replaces the invalid \" quote escape, which
// some laboratory exports emit, with the "" that encoding/csv understands.
type quoteFixReader struct {
	r        *bufio.Reader
	leftover *strings.Reader
	err      error
}

func newQuoteFixReader(r io.Reader) *quoteFixReader {
	return &quoteFixReader{r: bufio.NewReader(r), leftover: &strings.Reader{}}
}

func (m *quoteFixReader) Read(p []byte) (int, error) {
	for m.leftover.Len() == 0 {
		if m.err != nil {
			return 0, m.err
		}

		line, err := m.r.ReadString('\n')
		m.err = err
		m.leftover = strings.NewReader(strings.ReplaceAll(line, "\\\"", "\"\""))
	}

	return m.leftover.Read(p)
}
