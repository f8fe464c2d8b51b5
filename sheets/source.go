// Package sheets reads tabular rows from Google Sheets for title sync.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ErrNotConfigured is returned when neither a credentials file nor an API key
// was supplied.
var ErrNotConfigured = errors.New("google sheets source is not configured")

// Source fetches a rectangular range of cells. The first row is the header.
type Source interface {
	ReadRange(ctx context.Context, sheetID, rng string) ([][]string, error)
}

// Config selects how the Sheets client authenticates.
type Config struct {
	CredentialsFile string
	APIKey          string
}

// GoogleSource reads values through the Sheets v4 API.
type GoogleSource struct {
	values *gsheets.SpreadsheetsValuesService
	logger *zap.Logger
}

// NewGoogleSource builds a Sheets client. A service-account credentials file
// takes precedence over an API key.
func NewGoogleSource(ctx context.Context, cfg Config, logger *zap.Logger) (*GoogleSource, error) {
	var opt option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	case cfg.APIKey != "":
		opt = option.WithAPIKey(cfg.APIKey)
	default:
		return nil, ErrNotConfigured
	}

	svc, err := gsheets.NewService(ctx, opt, option.WithScopes(gsheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleSource{values: svc.Spreadsheets.Values, logger: logger}, nil
}

// ReadRange returns the formatted cell values of rng. Trailing empty cells are
// omitted by the API, so rows may be shorter than the header.
func (s *GoogleSource) ReadRange(ctx context.Context, sheetID, rng string) ([][]string, error) {
	resp, err := s.values.Get(sheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %q: %w", rng, err)
	}

	rows := ToStrings(resp.Values)
	s.logger.Debug("sheet range read",
		zap.String("sheet_id", sheetID),
		zap.String("range", rng),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// ToStrings converts API cell values to strings. nil cells become "".
func ToStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		out := make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			if s, ok := cell.(string); ok {
				out[j] = s
				continue
			}
			out[j] = fmt.Sprint(cell)
		}
		rows[i] = out
	}
	return rows
}
