package hfedash

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/csimplestring/go-csv/detector"
)

// DefaultDelimiter is used when no delimiter can be detected. The cleaned
// registry exports are semicolon-delimited.
const DefaultDelimiter = ';'

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return DefaultDelimiter
}

// ParseDelimiter interprets a user-supplied delimiter such as a --delimiter
// flag. "tab" and `\t` mean a tab; otherwise the first rune is used. The empty
// string yields 0, meaning the delimiter should be detected.
func ParseDelimiter(value string) rune {
	switch strings.ToLower(value) {
	case "":
		return 0
	case "tab", `\t`:
		return '\t'
	}

	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return DefaultDelimiter
	}

	return r
}
