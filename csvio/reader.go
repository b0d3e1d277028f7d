package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vortex-fintech/crmclean/foundation/errx"
)

// Table is a CSV held in memory: header plus data rows in input order.
// Rows are never mutated after Load; every pipeline stage works on copies.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex finds a column by header name, case-insensitive, ignoring
// surrounding whitespace. Returns -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == name {
			return i
		}
	}
	return -1
}

var (
	ErrNoHeader   = errors.New("csv has no header row")
	ErrRowTooWide = errors.New("row has more fields than the header")
)

// Load reads path into a Table. Any failure here — missing file, unreadable
// file, malformed CSV, empty file — is fatal for the run.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errx.Input(err, "open input")
	}
	defer f.Close()

	// Ragged CRM exports happen. Short rows are padded below; rows wider than
	// the header are fatal, since the extra cells have no column to live in
	// and would be silently lost.
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, errx.Input(ErrNoHeader, path)
	}
	if err != nil {
		return nil, errx.Input(err, "read header")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff") // Excel UTF-8 BOM

	t := &Table{Header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errx.Input(err, "read row")
		}
		if len(rec) > len(header) {
			return nil, errx.Input(ErrRowTooWide, fmt.Sprintf("line %d", len(t.Rows)+2))
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
