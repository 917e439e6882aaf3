package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/events"
	"github.com/flipmagic/brand-onboarder/internal/flip"
	"github.com/flipmagic/brand-onboarder/internal/store"
)

// ─── Mocks ───────────────────────────────────────────────────────────────────

// stubSubmitter mirrors the real pipeline's validation gate but skips the
// network: valid rows "succeed", invalid ones get the validation error.
type stubSubmitter struct {
	seen []flip.BrandRecord
}

func (s *stubSubmitter) Submit(_ context.Context, rec flip.BrandRecord) flip.RowResult {
	s.seen = append(s.seen, rec)
	if missing := rec.MissingRequired(); len(missing) > 0 {
		return flip.RowResult{
			Brand: rec.Label(),
			Error: "Missing required values: " + strings.Join(missing, ", "),
		}
	}
	return flip.RowResult{Brand: rec.Label(), Result: map[string]any{"brandId": "b-" + rec.BrandName}}
}

type mockBatchStore struct {
	saved   []store.Batch
	batches map[string]*store.Batch
	saveErr error
}

func (m *mockBatchStore) SaveBatch(_ context.Context, batch store.Batch, _ time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, batch)
	return nil
}

func (m *mockBatchStore) GetBatch(_ context.Context, id string) (*store.Batch, error) {
	if b, ok := m.batches[id]; ok {
		return b, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockBatchStore) HealthCheck(context.Context) error { return nil }
func (m *mockBatchStore) Close() error                      { return nil }

type mockRowPublisher struct {
	events []events.RowEvent
}

func (m *mockRowPublisher) PublishRow(_ context.Context, ev events.RowEvent) error {
	m.events = append(m.events, ev)
	return nil
}

// ─── Test app helpers ────────────────────────────────────────────────────────

func newTestApp(h *Handler) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, h)
	return app
}

func newUploadRequest(t *testing.T, filename, contents string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeResults(t *testing.T, resp *http.Response) []flip.RowResult {
	t.Helper()
	raw, _ := io.ReadAll(resp.Body)
	var results []flip.RowResult
	require.NoError(t, json.Unmarshal(raw, &results))
	return results
}

const validCSV = "brand_name,companyName,mainContactName,vendorMainContactEmail\n" +
	"Acme,Acme Inc,Jordan Li,jordan@acme.test\n"

// ─── Upload: happy path ──────────────────────────────────────────────────────

func TestUpload_SingleValidRow(t *testing.T) {
	sub := &stubSubmitter{}
	h := &Handler{Logger: zap.NewNop(), Submitter: sub}
	app := newTestApp(h)

	resp, err := app.Test(newUploadRequest(t, "brands.csv", validCSV), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Batch-Id"))

	results := decodeResults(t, resp)
	require.Len(t, results, 1)
	assert.Equal(t, "Acme", results[0].Brand)
	assert.Empty(t, results[0].Error)
}

func TestUpload_MixedBatchKeepsOrderAndReturns200(t *testing.T) {
	sub := &stubSubmitter{}
	h := &Handler{Logger: zap.NewNop(), Submitter: sub}
	app := newTestApp(h)

	csv := "brand_name,companyName,mainContactName,vendorMainContactEmail\n" +
		"First,C1,N1,e1@x.test\n" +
		",,,\n" +
		"Third,C3,N3,e3@x.test\n"

	resp, err := app.Test(newUploadRequest(t, "brands.csv", csv), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "mixed outcomes still return 200")

	results := decodeResults(t, resp)
	require.Len(t, results, 3)
	assert.Equal(t, "First", results[0].Brand)
	assert.Equal(t, "Row 2", results[1].Brand, "empty brand_name uses the positional placeholder")
	assert.Contains(t, results[1].Error, "Missing required values")
	assert.Equal(t, "Third", results[2].Brand)
}

// ─── Upload: 400 cases ───────────────────────────────────────────────────────

func TestUpload_NoFilePart(t *testing.T) {
	h := &Handler{Logger: zap.NewNop(), Submitter: &stubSubmitter{}}
	app := newTestApp(h)

	req, _ := http.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "No file part in the request")
}

func TestUpload_EmptyCSV(t *testing.T) {
	h := &Handler{Logger: zap.NewNop(), Submitter: &stubSubmitter{}}
	app := newTestApp(h)

	resp, err := app.Test(newUploadRequest(t, "brands.csv",
		"brand_name,companyName,mainContactName,vendorMainContactEmail\n"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "appears to be empty")
}

func TestUpload_MissingRequiredColumns(t *testing.T) {
	h := &Handler{Logger: zap.NewNop(), Submitter: &stubSubmitter{}}
	app := newTestApp(h)

	resp, err := app.Test(newUploadRequest(t, "brands.csv", "brand_name,companyName\nAcme,Acme Inc\n"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "missing required columns")
	assert.Contains(t, string(raw), "vendorMainContactEmail")
}

// ─── Upload: collaborators ───────────────────────────────────────────────────

func TestUpload_SavesBatchAndPublishesEvents(t *testing.T) {
	sub := &stubSubmitter{}
	st := &mockBatchStore{}
	pub := &mockRowPublisher{}
	h := &Handler{
		Logger:    zap.NewNop(),
		Submitter: sub,
		Store:     st,
		Events:    pub,
		BatchTTL:  time.Hour,
	}
	app := newTestApp(h)

	csv := "brand_name,companyName,mainContactName,vendorMainContactEmail\n" +
		"Acme,Acme Inc,Jordan Li,jordan@acme.test\n" +
		",,,\n"

	resp, err := app.Test(newUploadRequest(t, "brands.csv", csv), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	batchID := resp.Header.Get("X-Batch-Id")
	require.Len(t, st.saved, 1)
	assert.Equal(t, batchID, st.saved[0].ID)
	assert.Equal(t, "brands.csv", st.saved[0].Filename)
	require.Len(t, st.saved[0].Results, 2)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "success", pub.events[0].Outcome)
	assert.Equal(t, 1, pub.events[0].Row)
	assert.Equal(t, "error", pub.events[1].Outcome)
	assert.Equal(t, batchID, pub.events[1].BatchID)
}

func TestUpload_StoreFailureDoesNotFailRequest(t *testing.T) {
	st := &mockBatchStore{saveErr: assert.AnError}
	h := &Handler{Logger: zap.NewNop(), Submitter: &stubSubmitter{}, Store: st}
	app := newTestApp(h)

	resp, err := app.Test(newUploadRequest(t, "brands.csv", validCSV), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// ─── GetBatch ────────────────────────────────────────────────────────────────

func TestGetBatch_Found(t *testing.T) {
	batch := &store.Batch{
		ID:      "batch-42",
		Results: []flip.RowResult{{Brand: "Acme", Result: map[string]any{"brandId": "b-1"}}},
	}
	st := &mockBatchStore{batches: map[string]*store.Batch{"batch-42": batch}}
	h := &Handler{Logger: zap.NewNop(), Submitter: &stubSubmitter{}, Store: st}
	app := newTestApp(h)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/batches/batch-42", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got store.Batch
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "batch-42", got.ID)
	require.Len(t, got.Results, 1)
}

func TestGetBatch_Unknown(t *testing.T) {
	st := &mockBatchStore{}
	h := &Handler{Logger: zap.NewNop(), Submitter: &stubSubmitter{}, Store: st}
	app := newTestApp(h)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/batches/nope", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetBatch_StoreDisabled(t *testing.T) {
	h := &Handler{Logger: zap.NewNop(), Submitter: &stubSubmitter{}}
	app := newTestApp(h)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/batches/any", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
