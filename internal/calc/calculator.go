package calc

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mkruglikov/decalc/internal/calcerr"
	"github.com/mkruglikov/decalc/internal/config"
	"github.com/mkruglikov/decalc/internal/operation"
)

// HistoryStore persists the calculation ledger across sessions.
type HistoryStore interface {
	Save(history []Calculation) error
	Load() ([]Calculation, error)
}

// Calculator is the session engine. It owns the bounded history ledger, the
// undo/redo snapshot stacks, the running total, the selected operation
// strategy and the subscribed observers. The ledger and both stacks form one
// consistency unit; a session must not be shared across concurrent callers.
type Calculator struct {
	settings config.Settings
	registry *operation.Registry
	logger   *zap.Logger
	store    HistoryStore

	history   []Calculation
	strategy  operation.Operation
	observers []Observer
	undoStack []Memento
	redoStack []Memento
	total     decimal.Decimal
}

// New constructs a calculator session. The store may be nil for an
// in-memory-only session; save/load then fail with an OperationError.
func New(settings config.Settings, registry *operation.Registry, logger *zap.Logger, store HistoryStore) *Calculator {
	if registry == nil {
		registry = operation.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		settings: settings,
		registry: registry,
		logger:   logger,
		store:    store,
		total:    decimal.Zero,
	}
}

// Registry returns the operation registry for this session.
func (c *Calculator) Registry() *operation.Registry { return c.registry }

// Settings returns the session settings.
func (c *Calculator) Settings() config.Settings { return c.settings }

// AddObserver subscribes an observer; it will be notified in subscription
// order.
func (c *Calculator) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
	c.logger.Info("observer added", zap.String("observer", fmt.Sprintf("%T", o)))
}

// RemoveObserver unsubscribes a previously added observer.
func (c *Calculator) RemoveObserver(o Observer) {
	for i, existing := range c.observers {
		if existing == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			c.logger.Info("observer removed", zap.String("observer", fmt.Sprintf("%T", o)))
			return
		}
	}
}

func (c *Calculator) notifyObservers(calc *Calculation) {
	for _, o := range c.observers {
		if err := o.Update(calc); err != nil {
			// One failing observer must not block the rest.
			c.logger.Warn("observer update failed",
				zap.String("observer", fmt.Sprintf("%T", o)),
				zap.Error(err),
			)
		}
	}
}

// SetOperation selects the strategy used by PerformOperation.
func (c *Calculator) SetOperation(op operation.Operation) {
	c.strategy = op
	c.logger.Info("operation set", zap.String("operation", op.Name()))
}

// SetOperationByName resolves an identifier and selects it as the strategy.
func (c *Calculator) SetOperationByName(name string) error {
	op, err := c.registry.Create(name)
	if err != nil {
		return &calcerr.OperationError{Msg: "cannot select operation", Err: err}
	}
	c.SetOperation(op)
	return nil
}

// PerformOperation validates the raw operands, executes the selected
// strategy and commits the outcome: the pre-operation ledger is pushed onto
// the undo stack, the redo stack is cleared, the record is appended (oldest
// evicted over capacity), the running total updates and observers are
// notified. On any failure the ledger and both stacks are left untouched.
func (c *Calculator) PerformOperation(rawX, rawY string) (decimal.Decimal, error) {
	if c.strategy == nil {
		return decimal.Decimal{}, &calcerr.OperationError{Msg: "no operation set"}
	}

	x, err := ValidateNumber(rawX, c.settings.MaxInputValue)
	if err != nil {
		c.logger.Error("operand validation failed", zap.String("operand", "x"), zap.Error(err))
		return decimal.Decimal{}, err
	}
	y, err := ValidateNumber(rawY, c.settings.MaxInputValue)
	if err != nil {
		c.logger.Error("operand validation failed", zap.String("operand", "y"), zap.Error(err))
		return decimal.Decimal{}, err
	}

	result, err := c.strategy.Execute(x, y)
	if err != nil {
		c.logger.Error("operation failed", zap.String("operation", c.strategy.Name()), zap.Error(err))
		var verr *calcerr.ValidationError
		var operr *calcerr.OperationError
		if errors.As(err, &verr) || errors.As(err, &operr) {
			return decimal.Decimal{}, err
		}
		return decimal.Decimal{}, &calcerr.OperationError{Msg: "operation failed", Err: err}
	}

	record := NewCalculation(c.strategy.Name(), x, y, result, c.settings.Precision)
	c.undoStack = append(c.undoStack, NewMemento(c.history))
	c.redoStack = nil
	c.history = append(c.history, record)
	if len(c.history) > c.settings.MaxHistorySize {
		c.history = c.history[1:]
	}
	c.total = result
	c.notifyObservers(&record)
	return result, nil
}

// History returns a copy of the ledger in chronological order.
func (c *Calculator) History() []Calculation { return cloneHistory(c.history) }

// ShowHistory formats the ledger for display.
func (c *Calculator) ShowHistory() []string {
	out := make([]string, 0, len(c.history))
	for _, rec := range c.history {
		out = append(out, rec.String())
	}
	return out
}

// Total returns the running total, the most recent result.
func (c *Calculator) Total() decimal.Decimal { return c.total }

// ClearHistory empties the ledger and both snapshot stacks and resets the
// running total. Clearing is not reversible by Undo.
func (c *Calculator) ClearHistory() {
	c.history = nil
	c.undoStack = nil
	c.redoStack = nil
	c.total = decimal.Zero
	c.logger.Info("history cleared")
}

// Undo restores the ledger to its state before the last mutation. It returns
// false when there is nothing to undo.
func (c *Calculator) Undo() bool {
	if len(c.undoStack) == 0 {
		return false
	}
	memento := c.undoStack[len(c.undoStack)-1]
	c.undoStack = c.undoStack[:len(c.undoStack)-1]
	c.redoStack = append(c.redoStack, NewMemento(c.history))
	c.history = memento.History()
	if len(c.history) > 0 {
		c.total = c.history[len(c.history)-1].Result
	}
	c.logger.Info("undo applied", zap.Int("ledger_size", len(c.history)))
	return true
}

// Redo reapplies the most recently undone mutation. It returns false when
// there is nothing to redo.
func (c *Calculator) Redo() bool {
	if len(c.redoStack) == 0 {
		return false
	}
	memento := c.redoStack[len(c.redoStack)-1]
	c.redoStack = c.redoStack[:len(c.redoStack)-1]
	c.undoStack = append(c.undoStack, NewMemento(c.history))
	c.history = memento.History()
	if len(c.history) > 0 {
		c.total = c.history[len(c.history)-1].Result
	}
	c.logger.Info("redo applied", zap.Int("ledger_size", len(c.history)))
	return true
}

// SaveHistory writes the ledger through the configured history store.
func (c *Calculator) SaveHistory() error {
	if c.store == nil {
		return &calcerr.OperationError{Msg: "no history store configured"}
	}
	if err := c.store.Save(c.History()); err != nil {
		c.logger.Error("history save failed", zap.Error(err))
		return &calcerr.OperationError{Msg: "history save failed", Err: err}
	}
	c.logger.Info("history saved", zap.Int("records", len(c.history)))
	return nil
}

// LoadHistory replaces the ledger with the persisted one and sets the
// running total from its tail. On failure the session state is untouched.
func (c *Calculator) LoadHistory() error {
	if c.store == nil {
		return &calcerr.OperationError{Msg: "no history store configured"}
	}
	loaded, err := c.store.Load()
	if err != nil {
		c.logger.Error("history load failed", zap.Error(err))
		return &calcerr.OperationError{Msg: "history load failed", Err: err}
	}
	if len(loaded) > c.settings.MaxHistorySize {
		loaded = loaded[len(loaded)-c.settings.MaxHistorySize:]
	}
	c.history = cloneHistory(loaded)
	if len(c.history) > 0 {
		c.total = c.history[len(c.history)-1].Result
	}
	c.logger.Info("history loaded", zap.Int("records", len(c.history)))
	return nil
}
