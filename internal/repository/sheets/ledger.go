package sheets

import (
	"context"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

const (
	dateFormat      = "2006-01-02"
	timestampFormat = "2006-01-02 15:04:05"
)

// Ledger writes command results as spreadsheet rows.
type Ledger struct {
	repo Repository
}

// NewLedger wraps a sheet repository.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// AppendPurchase writes one row: date, type, weight, cost, recorded at.
func (l *Ledger) AppendPurchase(ctx context.Context, p models.Purchase) error {
	values := []interface{}{p.Date, string(p.Type), p.Weight, p.Cost, p.RecordedAt.Format(timestampFormat)}
	return l.repo.AppendRow(ctx, PurchasesTab, values)
}

// AppendCollection writes one row: date, six color counts in canonical order,
// subtotal, id.
func (l *Ledger) AppendCollection(ctx context.Context, c models.EggCollection) error {
	values := make([]interface{}, 0, CollectionsTab.Columns)
	values = append(values, c.Date.Format(dateFormat))
	for _, color := range models.EggColors {
		values = append(values, c.Counts[color])
	}
	values = append(values, c.Subtotal, c.ID)
	return l.repo.AppendRow(ctx, CollectionsTab, values)
}
