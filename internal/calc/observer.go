package calc

import (
	"errors"

	"go.uber.org/zap"
)

// Observer is notified synchronously after each successful calculation, in
// subscription order. A nil record must be rejected with an error.
type Observer interface {
	Update(calc *Calculation) error
}

// LoggingObserver writes each calculation to the session log.
type LoggingObserver struct {
	logger *zap.Logger
}

// NewLoggingObserver builds a logging observer.
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingObserver{logger: logger}
}

// Update logs the calculation.
func (o *LoggingObserver) Update(calc *Calculation) error {
	if calc == nil {
		return errors.New("nil calculation passed to logging observer")
	}
	o.logger.Info("calculation executed",
		zap.String("operation", calc.Operation),
		zap.String("operandx", calc.OperandX.String()),
		zap.String("operandy", calc.OperandY.String()),
		zap.String("result", calc.Result.String()),
	)
	return nil
}

// AutoSaveObserver persists the history after each calculation when the
// auto-save setting is enabled.
type AutoSaveObserver struct {
	calculator *Calculator
}

// NewAutoSaveObserver links an auto-save observer to its calculator session.
func NewAutoSaveObserver(calculator *Calculator) (*AutoSaveObserver, error) {
	if calculator == nil {
		return nil, errors.New("auto-save observer requires a calculator")
	}
	return &AutoSaveObserver{calculator: calculator}, nil
}

// Update saves the history if auto-save is enabled.
func (o *AutoSaveObserver) Update(calc *Calculation) error {
	if calc == nil {
		return errors.New("nil calculation passed to auto-save observer")
	}
	if !o.calculator.settings.AutoSave {
		return nil
	}
	if err := o.calculator.SaveHistory(); err != nil {
		return err
	}
	o.calculator.logger.Info("auto-save completed")
	return nil
}
