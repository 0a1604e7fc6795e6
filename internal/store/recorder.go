package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkruglikov/decalc/internal/calc"
)

// Recorder mirrors each successful calculation into the statistics store.
// It implements calc.Observer.
type Recorder struct {
	store  *Store
	logger *zap.Logger
}

// NewRecorder builds a stats-recording observer.
func NewRecorder(store *Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Update appends the calculation to the statistics log.
func (r *Recorder) Update(rec *calc.Calculation) error {
	if rec == nil {
		return errors.New("nil calculation passed to stats recorder")
	}
	if _, err := r.store.InsertCalculation(context.Background(), *rec); err != nil {
		return fmt.Errorf("record calculation: %w", err)
	}
	r.logger.Debug("calculation recorded", zap.String("operation", rec.Operation))
	return nil
}
