// Package commands implements the farm's write operations: recording
// purchases and daily egg collections and resetting the scratch inputs.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/metrics"
	"github.com/mamadbah2/chickenfarm/internal/registry"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// Argument error codes.
const (
	CodeInvalidDate   = "invalid_date"
	CodeInvalidNumber = "invalid_number"
)

// ArgumentError names the request field that was rejected. It matches
// ErrInvalidArguments via errors.Is.
type ArgumentError struct {
	Field string
	Code  string
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidArguments, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidArguments, e.Field, e.Code)
}

// Is lets errors.Is(err, ErrInvalidArguments) match.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArguments
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// ErrUnknownPurchaseType indicates the purchase type is not one of the routed types.
var ErrUnknownPurchaseType = errors.New("unknown purchase type")

// FieldWriter writes input fields. *registry.Registry implements it.
type FieldWriter interface {
	Set(key string, value float64) (float64, error)
	SetDate(key, text string) (string, error)
}

// Snapshotter copies the current input states.
type Snapshotter interface {
	Snapshot() map[string]string
}

// Ledger appends command results to an external spreadsheet.
type Ledger interface {
	AppendPurchase(ctx context.Context, purchase models.Purchase) error
	AppendCollection(ctx context.Context, collection models.EggCollection) error
}

// CollectionArchive stores daily egg collections.
type CollectionArchive interface {
	SaveEggCollection(ctx context.Context, collection models.EggCollection) error
}

// route lists the fields a purchase type writes to. Empty keys are skipped.
type route struct {
	weight string
	cost   string
	date   string
}

var purchaseRoutes = map[models.PurchaseType]route{
	models.PurchasePellets:       {weight: registry.PelletsKg, cost: registry.PelletsCost, date: registry.PelletsPurchaseDate},
	models.PurchaseScratchGrains: {weight: registry.ScratchGrainsKg, cost: registry.ScratchGrainsCost, date: registry.ScratchGrainsPurchaseDate},
	models.PurchaseBedding:       {cost: registry.BeddingCost, date: registry.BeddingPurchaseDate},
	models.PurchaseMisc:          {cost: registry.MiscCost},
}

// Service executes commands against the input fields.
type Service struct {
	fields    FieldWriter
	snapshots Snapshotter
	archive   CollectionArchive
	ledger    Ledger
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService constructs a command service. archive and ledger may be nil.
func NewService(fields FieldWriter, snapshots Snapshotter, archive CollectionArchive, ledger Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fields:    fields,
		snapshots: snapshots,
		archive:   archive,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// RecordPurchase routes a purchase onto the fields of its type, appends it to
// the ledger and resets the purchase scratch inputs. Nothing is written when
// the type or date is invalid.
func (s *Service) RecordPurchase(ctx context.Context, req models.PurchaseRequest) (models.Purchase, error) {
	purchaseType, ok := models.ParsePurchaseType(req.Type)
	if !ok {
		return models.Purchase{}, fmt.Errorf("%w: %q", ErrUnknownPurchaseType, req.Type)
	}
	date, err := registry.NormalizeDate(req.Date)
	if err != nil {
		return models.Purchase{}, &ArgumentError{Field: "purchase_date", Code: CodeInvalidDate, Err: err}
	}
	if !registry.Finite(req.Weight) {
		return models.Purchase{}, &ArgumentError{Field: "purchase_weight", Code: CodeInvalidNumber}
	}
	if !registry.Finite(req.Cost) {
		return models.Purchase{}, &ArgumentError{Field: "purchase_cost", Code: CodeInvalidNumber}
	}

	r := purchaseRoutes[purchaseType]
	purchase := models.Purchase{Type: purchaseType, Date: date, RecordedAt: s.now().UTC()}

	if r.weight != "" {
		if purchase.Weight, err = s.fields.Set(r.weight, req.Weight); err != nil {
			return models.Purchase{}, fmt.Errorf("write %s: %w", r.weight, err)
		}
	}
	if purchase.Cost, err = s.fields.Set(r.cost, req.Cost); err != nil {
		return models.Purchase{}, fmt.Errorf("write %s: %w", r.cost, err)
	}
	if r.date != "" {
		if _, err := s.fields.SetDate(r.date, date); err != nil {
			return models.Purchase{}, fmt.Errorf("write %s: %w", r.date, err)
		}
	}

	s.logger.Info("purchase recorded",
		zap.String("type", string(purchaseType)),
		zap.Float64("weight", purchase.Weight),
		zap.Float64("cost", purchase.Cost),
		zap.String("date", date))

	if s.ledger != nil {
		if err := s.ledger.AppendPurchase(ctx, purchase); err != nil {
			return purchase, fmt.Errorf("append purchase to ledger: %w", err)
		}
	}

	if err := s.ResetPurchaseInputs(); err != nil {
		return purchase, err
	}
	return purchase, nil
}

// RecordDailyEggs writes today's counts, archives the collection and resets
// the daily fields. The fields are left untouched when archiving fails.
func (s *Service) RecordDailyEggs(ctx context.Context, req models.EggCollectionRequest) (models.EggCollection, error) {
	requested := req.Counts()
	for _, color := range models.EggColors {
		if !registry.Finite(requested[color]) {
			return models.EggCollection{}, &ArgumentError{Field: string(color) + "_eggs", Code: CodeInvalidNumber}
		}
	}

	counts := make(map[models.EggColor]float64, len(models.EggColors))
	for _, color := range models.EggColors {
		stored, err := s.fields.Set(color.DailyField(), requested[color])
		if err != nil {
			return models.EggCollection{}, fmt.Errorf("write %s: %w", color.DailyField(), err)
		}
		counts[color] = stored
	}

	subtotal, err := metrics.SubtotalEggs(metrics.Snapshot(s.snapshots.Snapshot()))
	if err != nil {
		return models.EggCollection{}, fmt.Errorf("compute subtotal: %w", err)
	}

	now := s.now().UTC()
	collection := models.EggCollection{
		ID:        s.newID(),
		Date:      now,
		Counts:    counts,
		Subtotal:  subtotal,
		CreatedAt: now,
	}

	if s.archive != nil {
		if err := s.archive.SaveEggCollection(ctx, collection); err != nil {
			return collection, fmt.Errorf("archive egg collection: %w", err)
		}
	}
	if s.ledger != nil {
		if err := s.ledger.AppendCollection(ctx, collection); err != nil {
			return collection, fmt.Errorf("append egg collection to ledger: %w", err)
		}
	}

	s.logger.Info("daily eggs recorded", zap.String("id", collection.ID), zap.Float64("subtotal", subtotal))

	if err := s.ResetDailyEggs(); err != nil {
		return collection, err
	}
	return collection, nil
}

// ResetDailyEggs sets every daily egg field to 0.
func (s *Service) ResetDailyEggs() error {
	for _, color := range models.EggColors {
		if _, err := s.fields.Set(color.DailyField(), 0); err != nil {
			return fmt.Errorf("reset %s: %w", color.DailyField(), err)
		}
	}
	return nil
}

// ResetPurchaseInputs sets the purchase scratch inputs to 0.
func (s *Service) ResetPurchaseInputs() error {
	for _, key := range []string{registry.PurchaseWeight, registry.PurchaseCost} {
		if _, err := s.fields.Set(key, 0); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}
