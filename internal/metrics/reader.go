package metrics

import (
	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/store"
)

// Reader evaluates metrics against the live store.
type Reader struct {
	engine *Engine
	store  store.Store
}

// NewReader binds engine to st.
func NewReader(engine *Engine, st store.Store) *Reader {
	return &Reader{engine: engine, store: st}
}

// Engine returns the underlying engine.
func (r *Reader) Engine() *Engine { return r.engine }

// Read evaluates one metric from a fresh snapshot.
func (r *Reader) Read(key string) (models.SensorReading, error) {
	return r.engine.Evaluate(Snapshot(r.store.Snapshot()), key)
}

// ReadAll evaluates every metric from one fresh snapshot.
func (r *Reader) ReadAll() []models.SensorReading {
	return r.engine.EvaluateAll(Snapshot(r.store.Snapshot()))
}
