package pipeline

import (
	"context"

	"github.com/vortex-fintech/crmclean/csvio"
	"github.com/vortex-fintech/crmclean/dedupe"
	"github.com/vortex-fintech/crmclean/foundation/idutil"
	"github.com/vortex-fintech/crmclean/foundation/logger"
	"github.com/vortex-fintech/crmclean/metrics"
)

// SuppressOptions configure a suppression pass: drop input rows whose key
// appears in the master list.
type SuppressOptions struct {
	Master string
	Input  string
	Output string

	// KeyColumn / MasterKeyColumn override key column detection per file;
	// empty means the usual email headers.
	KeyColumn       string
	MasterKeyColumn string

	Log     logger.LoggerInterface
	Metrics *metrics.Metrics
	RunID   idutil.RunID
}

// SuppressStats are the outcome counts of one suppression pass.
type SuppressStats struct {
	MasterKeys int
	RowsRead   int
	Suppressed int
	Kept       int
}

// Suppress keeps only input rows whose normalized key is absent from the
// master list. Rows with empty keys are dropped too: they cannot be safely
// distinguished from already-contacted people. Columns pass through
// unchanged; no metadata is added.
func Suppress(ctx context.Context, opts SuppressOptions) (*SuppressStats, error) {
	log, m, _ := defaults(opts.Log, opts.Metrics, nil)
	if !opts.RunID.IsZero() {
		log = log.With("run_id", opts.RunID.String())
	}
	log = log.With("input", opts.Input, "master", opts.Master)

	master, err := csvio.Load(opts.Master)
	if err != nil {
		return nil, err
	}
	masterCol, err := resolveEmailColumn(master, opts.MasterKeyColumn)
	if err != nil {
		return nil, err
	}

	input, err := csvio.Load(opts.Input)
	if err != nil {
		return nil, err
	}
	inputCol, err := resolveEmailColumn(input, opts.KeyColumn)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(master.Rows))
	for _, row := range master.Rows {
		keys = append(keys, cell(row, masterCol))
	}
	sup := dedupe.NewSuppressor(keys)

	stats := &SuppressStats{MasterKeys: sup.Len()}
	out := make([][]string, 0, len(input.Rows))
	for _, row := range input.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats.RowsRead++
		m.RowsRead.Inc()

		if sup.Suppressed(cell(row, inputCol)) {
			stats.Suppressed++
			m.Suppressed.Inc()
			continue
		}
		stats.Kept++
		out = append(out, row)
	}

	if err := csvio.WriteAtomic(opts.Output, input.Header, out); err != nil {
		return nil, err
	}

	log.Infow("suppress finished",
		"master_keys", stats.MasterKeys,
		"rows", stats.RowsRead,
		"suppressed", stats.Suppressed,
		"kept", stats.Kept,
		"output", opts.Output,
	)
	return stats, nil
}
