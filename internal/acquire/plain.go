package acquire

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readPlain loads a CSV or TXT document as UTF-8. CSV is not parsed into cells;
// the labels the rules look for survive as plain text.
func (e *Extractor) readPlain(path string, kind constants.SourceKind) (Result, error) {
	label := "TXT"
	if kind == constants.CSV {
		label = "CSV"
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{}, newError(ReasonUnreadable, path, fmt.Sprintf("Error reading %s file: %v", label, err), err)
	}
	b = bytes.TrimPrefix(b, utf8BOM)

	var warns []string
	if !utf8.Valid(b) {
		warns = append(warns, "invalid UTF-8 sequences replaced")
		b = []byte(strings.ToValidUTF8(string(b), "�"))
	}
	return Result{Text: string(b), Pages: 1, Method: MethodPlain, Warnings: warns}, nil
}
