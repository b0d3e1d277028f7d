package csvio

import (
	"errors"
	"strings"

	"github.com/vortex-fintech/crmclean/foundation/errx"
)

// Headers CRM exports commonly use for the address column.
// "normalized_email" comes first so re-running the tool on its own output
// reads back the column it wrote.
var emailHeaders = []string{
	"normalized_email",
	"email",
	"e-mail",
	"email address",
	"e-mail address",
	"work email",
	"primary email",
}

// Content-scan threshold: at least half of a column's non-empty cells must
// look like addresses before the column qualifies.
const minEmailShare = 0.5

var (
	ErrNoEmailColumn  = errors.New("no email column detected")
	ErrAmbiguousEmail = errors.New("ambiguous email column")
)

// DetectEmailColumn picks the column holding email addresses: a known header
// name wins; otherwise a content scan picks the column with the highest share
// of '@'-bearing non-empty cells. A tie between qualifying columns is an
// input error rather than a guess.
func DetectEmailColumn(t *Table) (int, error) {
	for _, name := range emailHeaders {
		if i := t.ColumnIndex(name); i >= 0 {
			return i, nil
		}
	}

	best, bestShare, tied := -1, 0.0, false
	for col := range t.Header {
		share := emailShare(t, col)
		switch {
		case share > bestShare:
			best, bestShare, tied = col, share, false
		case share == bestShare && share > 0:
			tied = true
		}
	}
	if best < 0 || bestShare < minEmailShare {
		return -1, errx.Input(ErrNoEmailColumn, "")
	}
	if tied {
		return -1, errx.Input(ErrAmbiguousEmail, "")
	}
	return best, nil
}

func emailShare(t *Table, col int) float64 {
	nonEmpty, hits := 0, 0
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		nonEmpty++
		if strings.Contains(cell, "@") {
			hits++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(hits) / float64(nonEmpty)
}
