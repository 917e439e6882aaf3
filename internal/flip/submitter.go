package flip

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/metrics"
)

// TokenSource hands out a valid bearer token for the onboarding call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// BrandCreator issues the authenticated onboarding call.
type BrandCreator interface {
	CreateBrand(ctx context.Context, token string, payload BrandPayload) (map[string]any, error)
}

// Submitter runs the per-row pipeline: validation, normalization, token
// acquisition, and the authenticated API call. Every failure is converted
// into the row's result; a bad row never aborts the batch.
type Submitter struct {
	logger *zap.Logger
	client BrandCreator
	tokens TokenSource
}

// NewSubmitter creates a Submitter.
func NewSubmitter(logger *zap.Logger, client BrandCreator, tokens TokenSource) *Submitter {
	return &Submitter{
		logger: logger,
		client: client,
		tokens: tokens,
	}
}

// Submit processes a single record and returns its RowResult.
func (s *Submitter) Submit(ctx context.Context, rec BrandRecord) RowResult {
	label := rec.Label()

	if missing := rec.MissingRequired(); len(missing) > 0 {
		s.logger.Warn("upload.row_rejected",
			zap.Int("row", rec.Row),
			zap.Strings("missing", missing))
		metrics.IncRow("validation_error")
		return RowResult{
			Brand: label,
			Error: "Missing required values: " + strings.Join(missing, ", "),
		}
	}

	payload := s.buildPayload(rec)

	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		s.logger.Error("upload.token_unavailable",
			zap.Int("row", rec.Row),
			zap.Error(err))
		metrics.IncRow("auth_error")
		return RowResult{Brand: label, Error: err.Error()}
	}

	result, err := s.client.CreateBrand(ctx, token, payload)
	if err != nil {
		metrics.IncRow("api_error")
		return RowResult{Brand: label, Error: err.Error()}
	}

	metrics.IncRow("success")
	return RowResult{Brand: label, Result: result}
}

// buildPayload maps a record onto the outbound payload, substituting the
// documented defaults for absent optional fields.
func (s *Submitter) buildPayload(rec BrandRecord) BrandPayload {
	payload := BrandPayload{
		Name:                   rec.BrandName,
		CompanyName:            rec.CompanyName,
		Description:            rec.Description,
		CategoryList:           []string{"other"},
		FoundedInYear:          s.foundedYear(rec),
		CountryOfOrigin:        rec.Country,
		InstagramURL:           rec.Instagram,
		WebsiteURL:             rec.Website,
		VendorMainContactEmail: rec.VendorEmail,
		MainContactName:        rec.MainContactName,
		Sales:                  DefaultSales,
		MainContactPhone:       FormatPhone(rec.Phone),
		Genders:                []string{"unisex"},
		BrandGoalsOnFlip:       []string{"increaseSales"},
	}

	if payload.Description == "" {
		payload.Description = DefaultDescription
	}
	if payload.CountryOfOrigin == "" {
		payload.CountryOfOrigin = DefaultCountry
	}
	if payload.InstagramURL == "" {
		payload.InstagramURL = DefaultInstagram
	}
	if payload.WebsiteURL == "" {
		payload.WebsiteURL = DefaultWebsite
	}

	return payload
}

// foundedYear coerces the CSV value to an integer, falling back to the
// default on absent or non-numeric input.
func (s *Submitter) foundedYear(rec BrandRecord) int {
	raw := strings.TrimSpace(rec.FoundedYear)
	if raw == "" {
		return DefaultFoundedYear
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.Warn("upload.invalid_founded_year",
			zap.Int("row", rec.Row),
			zap.String("value", raw))
		return DefaultFoundedYear
	}
	return year
}
