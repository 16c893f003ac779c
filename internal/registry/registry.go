// Package registry declares the farm's writable input fields on top of the
// value store and enforces their bounds.
package registry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/store"
)

// UniqueIDPrefix namespaces field identifiers exposed to the host.
const UniqueIDPrefix = "chicken_"

var (
	// ErrDuplicateField is returned when two declarations share a key.
	ErrDuplicateField = errors.New("duplicate field key")

	// ErrUnknownField is returned for writes or reads of an undeclared key.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidBounds is returned when a declaration has min > max.
	ErrInvalidBounds = errors.New("invalid field bounds")

	// ErrWrongKind is returned when a numeric write targets a date field or vice versa.
	ErrWrongKind = errors.New("field kind mismatch")

	// ErrInvalidDate is returned when a date field write cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidValue is returned for a NaN or infinite write and when a stored
	// numeric state cannot be parsed.
	ErrInvalidValue = errors.New("invalid field value")
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Registry owns the declared fields and writes their values through the store.
type Registry struct {
	store  store.Store
	logger *zap.Logger

	mu    sync.RWMutex
	specs map[string]models.FieldSpec
	order []string
}

// New creates an empty registry over st.
func New(st store.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:  st,
		logger: logger,
		specs:  make(map[string]models.FieldSpec),
	}
}

// UniqueID derives the globally unique identifier of a field key.
func UniqueID(key string) string {
	return UniqueIDPrefix + key
}

// Register declares fields. Numeric fields start at their minimum; date fields
// start without a value. Nothing is registered if any declaration is invalid.
func (r *Registry) Register(specs ...models.FieldSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if spec.Key == "" {
			return fmt.Errorf("%w: empty key", ErrUnknownField)
		}
		if _, ok := r.specs[spec.Key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateField, spec.Key)
		}
		if _, ok := seen[spec.Key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateField, spec.Key)
		}
		if spec.Kind != models.FieldDate && spec.Min > spec.Max {
			return fmt.Errorf("%w: %s min %v > max %v", ErrInvalidBounds, spec.Key, spec.Min, spec.Max)
		}
		seen[spec.Key] = struct{}{}
	}

	for _, spec := range specs {
		if spec.Kind == "" {
			spec.Kind = models.FieldNumber
		}
		r.specs[spec.Key] = spec
		r.order = append(r.order, spec.Key)
		if spec.Kind == models.FieldNumber {
			r.store.Set(spec.Key, formatNumber(spec.Min))
		}
	}

	r.logger.Debug("fields registered", zap.Int("count", len(specs)))
	return nil
}

// Spec returns the declaration of key.
func (r *Registry) Spec(key string) (models.FieldSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[key]
	return spec, ok
}

// Keys lists registered keys of the given kind in registration order.
func (r *Registry) Keys(kind models.FieldKind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var keys []string
	for _, key := range r.order {
		if r.specs[key].Kind == kind {
			keys = append(keys, key)
		}
	}
	return keys
}

// Set clamps value into the field's bounds, stores it and returns the stored value.
func (r *Registry) Set(key string, value float64) (float64, error) {
	spec, ok := r.Spec(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if spec.Kind != models.FieldNumber {
		return 0, fmt.Errorf("%w: %s is a %s field", ErrWrongKind, key, spec.Kind)
	}
	if !Finite(value) {
		return 0, fmt.Errorf("%w: %s=%v", ErrInvalidValue, key, value)
	}

	clamped := Clamp(value, spec.Min, spec.Max)
	if clamped != value {
		r.logger.Debug("field value clamped",
			zap.String("field", key),
			zap.Float64("requested", value),
			zap.Float64("stored", clamped))
	}

	r.store.Set(key, formatNumber(clamped))
	return clamped, nil
}

// SetDate validates text as a date or datetime and stores its normalized form.
func (r *Registry) SetDate(key, text string) (string, error) {
	spec, ok := r.Spec(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if spec.Kind != models.FieldDate {
		return "", fmt.Errorf("%w: %s is a %s field", ErrWrongKind, key, spec.Kind)
	}

	normalized, err := NormalizeDate(text)
	if err != nil {
		return "", err
	}
	r.store.Set(key, normalized)
	return normalized, nil
}

// Value returns the current numeric value of key.
func (r *Registry) Value(key string) (float64, error) {
	if _, ok := r.Spec(key); !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	raw, ok := r.store.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no value", ErrInvalidValue, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !Finite(v) {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, raw)
	}
	return v, nil
}

// Field returns the declaration and current value of key.
func (r *Registry) Field(key string) (models.FieldState, error) {
	spec, ok := r.Spec(key)
	if !ok {
		return models.FieldState{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return r.state(spec), nil
}

// Fields returns every registered field in registration order.
func (r *Registry) Fields() []models.FieldState {
	r.mu.RLock()
	specs := make([]models.FieldSpec, 0, len(r.order))
	for _, key := range r.order {
		specs = append(specs, r.specs[key])
	}
	r.mu.RUnlock()

	out := make([]models.FieldState, 0, len(specs))
	for _, spec := range specs {
		out = append(out, r.state(spec))
	}
	return out
}

func (r *Registry) state(spec models.FieldSpec) models.FieldState {
	st := models.FieldState{
		Key:      spec.Key,
		UniqueID: UniqueID(spec.Key),
		Label:    spec.Label,
		Icon:     spec.Icon,
		Kind:     spec.Kind,
		Min:      spec.Min,
		Max:      spec.Max,
		Step:     spec.Step,
		Unit:     spec.Unit,
	}
	raw, _ := r.store.Get(spec.Key)
	if spec.Kind == models.FieldDate {
		st.Text = raw
		return st
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && Finite(v) {
		st.Value = v
	}
	return st
}

// Finite reports whether v is neither NaN nor infinite. Clamp cannot bound NaN,
// so Set rejects such values before clamping.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp bounds value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NormalizeDate accepts a date, an RFC 3339 timestamp or a "2006-01-02 15:04:05"
// datetime and returns it as a date or datetime string.
func NormalizeDate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if t, err := time.Parse(dateLayout, trimmed); err == nil {
		return t.Format(dateLayout), nil
	}
	for _, layout := range []string{time.RFC3339, dateTimeLayout, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(dateTimeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, text)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
