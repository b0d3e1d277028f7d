package csvio

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/vortex-fintech/crmclean/foundation/errx"
)

// WriteAtomic serializes header+rows to path through a temp file in the same
// directory, renamed into place on success. A failed run never leaves a
// half-written output behind.
func WriteAtomic(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return errx.Output(err, "write header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return errx.Output(err, "write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errx.Output(err, "flush csv")
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// WriteFileAtomic writes data to path with temp-file-plus-rename semantics.
// The temp file lives in path's directory so the rename stays on one
// filesystem.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".crmclean-*")
	if err != nil {
		return errx.Output(err, "create temp file")
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return errx.Output(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		return errx.Output(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errx.Output(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errx.Output(err, "rename into place")
	}
	return nil
}
