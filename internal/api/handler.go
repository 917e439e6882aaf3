package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/csvio"
	"github.com/flipmagic/brand-onboarder/internal/events"
	"github.com/flipmagic/brand-onboarder/internal/flip"
	"github.com/flipmagic/brand-onboarder/internal/store"
)

// RowSubmitter runs the per-row onboarding pipeline.
type RowSubmitter interface {
	Submit(ctx context.Context, rec flip.BrandRecord) flip.RowResult
}

// RowPublisher emits a row-outcome event.
type RowPublisher interface {
	PublishRow(ctx context.Context, ev events.RowEvent) error
}

// AuditLog persists a per-row audit record.
type AuditLog interface {
	RecordSubmission(ctx context.Context, batchID string, row int, res flip.RowResult) error
}

// Handler serves the upload and batch-replay endpoints. Store, Events and
// Audit are optional; a nil collaborator is skipped.
type Handler struct {
	Logger    *zap.Logger
	Submitter RowSubmitter
	Store     store.BatchStore
	Events    RowPublisher
	Audit     AuditLog
	BatchTTL  time.Duration
}

// Upload accepts a multipart CSV, processes every row sequentially in file
// order, and returns one result per row. Mixed success/error batches still
// return 200; only a malformed upload is a 400.
func (h *Handler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Logger.Warn("upload.no_file", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file part in the request"})
	}
	if fileHeader.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file selected"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	defer f.Close() //nolint:errcheck

	records, err := csvio.ParseBrands(f)
	if err != nil {
		var missing *csvio.MissingColumnsError
		switch {
		case errors.Is(err, csvio.ErrEmptyCSV), errors.As(err, &missing):
			h.Logger.Warn("upload.rejected",
				zap.String("filename", fileHeader.Filename),
				zap.Error(err))
		default:
			h.Logger.Error("upload.parse_failed",
				zap.String("filename", fileHeader.Filename),
				zap.Error(err))
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	batchID := uuid.NewString()
	h.Logger.Info("upload.started",
		zap.String("batch_id", batchID),
		zap.String("filename", fileHeader.Filename),
		zap.Int("rows", len(records)))

	// Rows are processed one at a time, in file order.
	results := make([]flip.RowResult, 0, len(records))
	for _, rec := range records {
		res := h.Submitter.Submit(c.Context(), rec)
		results = append(results, res)
		h.afterRow(c.Context(), batchID, rec.Row, res)
	}

	if h.Store != nil {
		batch := store.Batch{
			ID:        batchID,
			Filename:  fileHeader.Filename,
			CreatedAt: time.Now().UTC(),
			Results:   results,
		}
		if err := h.Store.SaveBatch(c.Context(), batch, h.BatchTTL); err != nil {
			h.Logger.Error("upload.batch_save_failed",
				zap.String("batch_id", batchID),
				zap.Error(err))
		}
	}

	h.Logger.Info("upload.finished",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(results)))

	c.Set("X-Batch-Id", batchID)
	return c.Status(fiber.StatusOK).JSON(results)
}

// afterRow fans a processed row out to the optional collaborators. Neither
// may fail the row.
func (h *Handler) afterRow(ctx context.Context, batchID string, row int, res flip.RowResult) {
	if h.Events != nil {
		outcome := "success"
		if res.Error != "" {
			outcome = "error"
		}
		_ = h.Events.PublishRow(ctx, events.RowEvent{
			BatchID:    batchID,
			Row:        row,
			Brand:      res.Brand,
			Outcome:    outcome,
			Error:      res.Error,
			OccurredAt: time.Now().UTC(),
		})
	}

	if h.Audit != nil {
		_ = h.Audit.RecordSubmission(ctx, batchID, row, res)
	}
}

// GetBatch replays a stored batch result.
func (h *Handler) GetBatch(c *fiber.Ctx) error {
	if h.Store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "batch store is not configured"})
	}

	id := c.Params("batch_id")
	batch, err := h.Store.GetBatch(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown batch"})
	}
	if err != nil {
		h.Logger.Error("batch.load_failed", zap.String("batch_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(batch)
}
