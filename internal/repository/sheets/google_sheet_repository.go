package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/chickenfarm/internal/config"
)

const (
	// Cells are parsed as if typed by a user, so dates and numbers keep their types.
	valueInputOption = "USER_ENTERED"
	insertDataOption = "INSERT_ROWS"
	majorDimension   = "ROWS"
)

// ErrRowWidth is returned when a row does not match its tab's column count.
var ErrRowWidth = errors.New("row width does not match tab")

// Tab is a ledger worksheet with a fixed number of columns starting at A.
type Tab struct {
	Title   string
	Columns int
}

// Ledger worksheets.
var (
	PurchasesTab   = Tab{Title: "Purchases", Columns: 5}
	CollectionsTab = Tab{Title: "Eggs", Columns: 9}
)

// Range returns the A1 range covering every column of the tab, e.g. "Eggs!A:I".
func (t Tab) Range() string {
	last := columnName(t.Columns)
	return fmt.Sprintf("%s!A:%s", t.Title, last)
}

// columnName converts a 1-based column index to its letters: 1 → A, 27 → AA.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// Repository appends ledger rows.
type Repository interface {
	AppendRow(ctx context.Context, tab Tab, values []interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRow appends values as a new row after the last filled row of tab.
func (r *GoogleSheetRepository) AppendRow(ctx context.Context, tab Tab, values []interface{}) error {
	payload, err := rowPayload(tab, values)
	if err != nil {
		return err
	}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, payload.Range, payload).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertDataOption).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return fmt.Errorf("append row into %s: %w", tab.Title, err)
	}

	fields := []zap.Field{zap.String("tab", tab.Title)}
	if resp.Updates != nil {
		fields = append(fields, zap.String("updated_range", resp.Updates.UpdatedRange))
	}
	r.logger.Debug("row appended to sheet", fields...)
	return nil
}

func rowPayload(tab Tab, values []interface{}) (*sheetsapi.ValueRange, error) {
	if tab.Title == "" || tab.Columns <= 0 {
		return nil, fmt.Errorf("invalid tab %+v", tab)
	}
	if len(values) != tab.Columns {
		return nil, fmt.Errorf("%w: %s has %d columns, got %d values", ErrRowWidth, tab.Title, tab.Columns, len(values))
	}
	return &sheetsapi.ValueRange{
		Range:          tab.Range(),
		MajorDimension: majorDimension,
		Values:         [][]interface{}{values},
	}, nil
}
