package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vortex-fintech/crmclean/csvio"
)

const reportRule = "--------------------------------------------------"

// writeReport renders the text run report and writes it atomically next to
// the cleaned CSV. The format follows the report reviewers already know:
// summary counts first, then the names flagged for manual review.
func writeReport(path string, opts Options, stats *Stats, now time.Time) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Report for %s\n", filepath.Base(opts.Input))
	if !opts.RunID.IsZero() {
		fmt.Fprintf(&b, "Run ID: %s\n", opts.RunID)
	}
	fmt.Fprintf(&b, "Generated on: %s\n\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "- Total rows processed: %d\n", stats.RowsRead)
	fmt.Fprintf(&b, "- Valid emails: %d\n", stats.Valid)
	fmt.Fprintf(&b, "- Invalid emails: %d\n", stats.Invalid)
	fmt.Fprintf(&b, "- Duplicates dropped: %d\n", stats.Duplicates)
	if opts.Verifier != nil {
		fmt.Fprintf(&b, "- Verified deliverable: %d\n", stats.Verified)
		fmt.Fprintf(&b, "- Not verified: %d\n", stats.Unverified)
	}
	fmt.Fprintf(&b, "- Names flagged for review: %d\n", len(stats.FlaggedNames))

	if len(stats.FlaggedNames) > 0 {
		b.WriteString("\nFlagged Names:\n")
		b.WriteString(reportRule + "\n")
		for _, fn := range stats.FlaggedNames {
			fmt.Fprintf(&b, "Line: %d\n", fn.Row)
			fmt.Fprintf(&b, "Original Name: %s\n", fn.Name)
			fmt.Fprintf(&b, "Email: %s\n", fn.Email)
			b.WriteString(reportRule + "\n")
		}
	}

	return csvio.WriteFileAtomic(path, []byte(b.String()))
}
