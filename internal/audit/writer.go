package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/flip"
)

// DB is the subset of *pgxpool.Pool the writer needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Writer records every processed row into the onboarding.t_brand_submission
// table. Best-effort: failures are logged and never fail the row.
type Writer struct {
	db     DB
	logger *zap.Logger
	source string
}

// NewWriter constructs an audit writer. source identifies the service
// instance writing the record (e.g. "brand-onboarder").
func NewWriter(db DB, logger *zap.Logger, source string) *Writer {
	return &Writer{
		db:     db,
		logger: logger,
		source: source,
	}
}

// RecordSubmission inserts one audit row for a processed CSV row.
func (w *Writer) RecordSubmission(ctx context.Context, batchID string, row int, res flip.RowResult) error {
	const query = `
		INSERT INTO onboarding.t_brand_submission (
			s_id_batch,
			n_row,
			s_brand,
			s_outcome,
			s_error,
			s_source,
			dt_created
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	outcome := "success"
	if res.Error != "" {
		outcome = "error"
	}

	_, err := w.db.Exec(ctx, query,
		batchID,    // s_id_batch
		row,        // n_row
		res.Brand,  // s_brand
		outcome,    // s_outcome
		res.Error,  // s_error (empty on success)
		w.source,   // s_source
		time.Now(), // dt_created
	)
	if err != nil {
		w.logger.Error("audit.insert_failed",
			zap.String("batch_id", batchID),
			zap.Int("row", row),
			zap.Error(err))
		return err
	}
	return nil
}
