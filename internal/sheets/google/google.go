// Package google mirrors record events into a Google Sheets worksheet, one
// row per record, so the history can be browsed outside the app.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financie/internal/events"
)

// Config selects the spreadsheet and how to authenticate against it.
type Config struct {
	SpreadsheetID string
	SheetName     string
	// Inline service account JSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

// Client appends and clears rows through the Sheets values API.
type Client struct {
	values        valuesAPI
	spreadsheetID string
	sheet         string
}

// valuesAPI is the slice of the Sheets service the client calls.
type valuesAPI interface {
	append(ctx context.Context, spreadsheetID, rng string, row []any) error
	column(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	clear(ctx context.Context, spreadsheetID, rng string) error
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Transações"
	}

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets export enabled", "sheet", cfg.SheetName)
	return newClient(serviceValues{svc: svc}, cfg.SpreadsheetID, cfg.SheetName), nil
}

func newClient(values valuesAPI, spreadsheetID, sheet string) *Client {
	return &Client{values: values, spreadsheetID: spreadsheetID, sheet: sheet}
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// RecordCreated appends a row for the record described by e.
func (c *Client) RecordCreated(ctx context.Context, e events.RecordEvent) error {
	rng := a1Range(c.sheet, "A:F")
	if err := c.values.append(ctx, c.spreadsheetID, rng, rowFor(e)); err != nil {
		return fmt.Errorf("append row to %s: %w", c.sheet, err)
	}
	return nil
}

// RecordDeleted clears the row holding id. A missing row is not an error:
// the record may predate the export.
func (c *Client) RecordDeleted(ctx context.Context, id string) error {
	ids, err := c.values.column(ctx, c.spreadsheetID, a1Range(c.sheet, "A:A"))
	if err != nil {
		return fmt.Errorf("read ids from %s: %w", c.sheet, err)
	}
	row := findRow(ids, id)
	if row == 0 {
		slog.DebugContext(ctx, "No sheet row for deleted record", "record_id", id)
		return nil
	}
	rng := a1Range(c.sheet, fmt.Sprintf("A%d:F%d", row, row))
	if err := c.values.clear(ctx, c.spreadsheetID, rng); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

type serviceValues struct {
	svc *gsheet.Service
}

func (s serviceValues) append(ctx context.Context, spreadsheetID, rng string, row []any) error {
	_, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

func (s serviceValues) column(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s serviceValues) clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}
