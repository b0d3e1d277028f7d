// Package pipeline runs the cleaning passes over a contact CSV. A pass is
// strictly sequential: load, normalize, validate, deduplicate, write. The
// seen-set lives inside one pass and dies with it; there is no cross-run
// state anywhere.
package pipeline

import (
	"context"
	"fmt"

	"github.com/vortex-fintech/crmclean/contact/emailaddr"
	"github.com/vortex-fintech/crmclean/contact/nameclean"
	"github.com/vortex-fintech/crmclean/csvio"
	"github.com/vortex-fintech/crmclean/dedupe"
	"github.com/vortex-fintech/crmclean/foundation/errx"
	"github.com/vortex-fintech/crmclean/foundation/idutil"
	"github.com/vortex-fintech/crmclean/foundation/logger"
	"github.com/vortex-fintech/crmclean/foundation/logutil"
	"github.com/vortex-fintech/crmclean/foundation/timeutil"
	"github.com/vortex-fintech/crmclean/metrics"
)

// Metadata column names appended to (or reused in) the output.
const (
	colNormalizedEmail = "normalized_email"
	colIsValid         = "is_valid"
	colDomain          = "domain"
	colVerified        = "verified"
)

// Verifier confirms deliverability of a syntactically valid address.
type Verifier interface {
	Verify(ctx context.Context, email string) (bool, error)
}

// Options configure one clean pass. Zero values of Log, Metrics and Clock get
// working defaults; everything else is taken as-is.
type Options struct {
	Input  string
	Output string

	// EmailColumn overrides detection by header name; empty means detect.
	EmailColumn string
	// NameColumn overrides the first-name column by header name; empty means
	// the usual CRM headers, and a missing column simply skips name cleanup.
	NameColumn  string
	DropInvalid bool
	ReportPath  string

	// Verifier enables the deliverability stage when non-nil. The default
	// pipeline performs no network I/O at all.
	Verifier Verifier

	Log     logger.LoggerInterface
	Metrics *metrics.Metrics
	Clock   timeutil.Clock
	RunID   idutil.RunID
}

// Stats are the outcome counts of one pass.
type Stats struct {
	RowsRead   int
	Valid      int
	Invalid    int
	Duplicates int
	Verified   int
	Unverified int

	FlaggedNames []FlaggedName
}

// FlaggedName is a first-name cell left for human review.
type FlaggedName struct {
	Row   int // 1-based CSV line number, header included
	Name  string
	Email string
}

// Clean runs the full pass and writes the cleaned CSV atomically. Fatal
// problems come back as errx input/output errors and leave no output behind;
// per-row problems are tagged in the data and counted in Stats.
func Clean(ctx context.Context, opts Options) (*Stats, error) {
	log, m, clock := defaults(opts.Log, opts.Metrics, opts.Clock)
	if !opts.RunID.IsZero() {
		log = log.With("run_id", opts.RunID.String())
	}
	log = log.With("input", opts.Input)

	t, err := csvio.Load(opts.Input)
	if err != nil {
		return nil, err
	}

	emailCol, err := resolveEmailColumn(t, opts.EmailColumn)
	if err != nil {
		return nil, err
	}
	nameCol, err := resolveNameColumn(t, opts.NameColumn)
	if err != nil {
		return nil, err
	}
	log.Debugw("columns resolved", "email_col", t.Header[emailCol], "name_cleanup", nameCol >= 0)

	layout := buildLayout(t.Header, opts.Verifier != nil)
	seen := dedupe.NewSeenSet()
	stats := &Stats{}
	out := make([][]string, 0, len(t.Rows))

	for i, fields := range t.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := i + 2 // 1-based, after the header line
		stats.RowsRead++
		m.RowsRead.Inc()

		email := emailaddr.Normalize(cell(fields, emailCol))
		res := emailaddr.Validate(email)

		if res.Valid {
			stats.Valid++
			m.RowsValid.Inc()
			if !seen.Observe(email) {
				stats.Duplicates++
				m.DupesDropped.Inc()
				log.Debugw("duplicate dropped", "line", line, "email", logutil.MaskEmail(email))
				continue
			}
		} else {
			stats.Invalid++
			m.RowsInvalid.Inc()
			log.Debugw("invalid email", "line", line, "reason", string(res.Reason))
			if opts.DropInvalid {
				continue
			}
		}

		verified := ""
		if res.Valid && opts.Verifier != nil {
			ok, verr := opts.Verifier.Verify(ctx, email)
			if verr != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Warnw("verification failed",
					"line", line, "email", logutil.MaskEmail(email), "error", verr.Error())
				ok = false
			}
			if ok {
				verified = "true"
				stats.Verified++
				m.Verified.Inc()
			} else {
				verified = "false"
				stats.Unverified++
				m.Unverified.Inc()
			}
		}

		var row []string
		if res.Valid {
			row = layout.apply(fields, email, "true", emailaddr.Domain(email), verified)
		} else {
			row = layout.apply(fields, email, "false", "", "")
		}

		if nameCol >= 0 {
			raw := row[nameCol]
			cleaned, ok := nameclean.Clean(raw)
			if ok {
				row[nameCol] = cleaned
			} else {
				stats.FlaggedNames = append(stats.FlaggedNames, FlaggedName{
					Row:   line,
					Name:  raw,
					Email: email,
				})
			}
		}

		out = append(out, row)
	}

	if err := csvio.WriteAtomic(opts.Output, layout.header, out); err != nil {
		return nil, err
	}

	if opts.ReportPath != "" {
		if err := writeReport(opts.ReportPath, opts, stats, clock.Now()); err != nil {
			return nil, err
		}
	}

	log.Infow("clean finished",
		"rows", stats.RowsRead,
		"valid", stats.Valid,
		"invalid", stats.Invalid,
		"duplicates", stats.Duplicates,
		"flagged_names", len(stats.FlaggedNames),
		"output", opts.Output,
	)
	return stats, nil
}

func defaults(log logger.LoggerInterface, m *metrics.Metrics, clock timeutil.Clock) (logger.LoggerInterface, *metrics.Metrics, timeutil.Clock) {
	if log == nil {
		log = logger.Nop()
	}
	if m == nil {
		m = metrics.New()
	}
	if clock == nil {
		clock = timeutil.DefaultClock()
	}
	return log, m, clock
}

func resolveEmailColumn(t *csvio.Table, override string) (int, error) {
	if override != "" {
		if i := t.ColumnIndex(override); i >= 0 {
			return i, nil
		}
		return -1, errx.Input(csvio.ErrNoEmailColumn, fmt.Sprintf("column %q not found", override))
	}
	return csvio.DetectEmailColumn(t)
}

// Headers CRM exports commonly use for the first-name column.
var nameHeaders = []string{"first name", "first_name", "firstname", "given name"}

func resolveNameColumn(t *csvio.Table, override string) (int, error) {
	if override != "" {
		if i := t.ColumnIndex(override); i >= 0 {
			return i, nil
		}
		return -1, errx.Input(nil, fmt.Sprintf("name column %q not found", override))
	}
	for _, name := range nameHeaders {
		if i := t.ColumnIndex(name); i >= 0 {
			return i, nil
		}
	}
	return -1, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
