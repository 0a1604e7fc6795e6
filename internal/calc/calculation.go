// Package calc implements the calculator engine: operand validation, the
// calculation record, the bounded history ledger with undo/redo snapshots,
// and observer notification.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mkruglikov/decalc/internal/calcerr"
	"github.com/mkruglikov/decalc/internal/operation"
)

// Calculation records one executed operation. It is never mutated after
// creation.
type Calculation struct {
	Operation string
	OperandX  decimal.Decimal
	OperandY  decimal.Decimal
	Result    decimal.Decimal
	Precision int
	Timestamp time.Time
}

// Record is the persisted string form of a Calculation, one field per
// history file column.
type Record struct {
	Operation string
	OperandX  string
	OperandY  string
	Result    string
	Precision string
	Timestamp string
}

// RecordColumns returns the history file column names in persisted order.
func RecordColumns() []string {
	return []string{"operation", "operandx", "operandy", "result", "precision", "timestamp"}
}

// NewCalculation builds a record for an operation executed now.
func NewCalculation(op string, x, y, result decimal.Decimal, precision int) Calculation {
	return Calculation{
		Operation: op,
		OperandX:  x,
		OperandY:  y,
		Result:    result,
		Precision: precision,
		Timestamp: time.Now(),
	}
}

// Equal compares two records, ignoring precision and timestamp.
func (c Calculation) Equal(other Calculation) bool {
	return c.Operation == other.Operation &&
		c.OperandX.Equal(other.OperandX) &&
		c.OperandY.Equal(other.OperandY) &&
		c.Result.Equal(other.Result)
}

func (c Calculation) String() string {
	return fmt.Sprintf("%s(%s, %s) = %s", c.Operation, c.OperandX, c.OperandY, c.Result)
}

// ToRecord serializes the calculation for persistence.
func (c Calculation) ToRecord() Record {
	return Record{
		Operation: c.Operation,
		OperandX:  c.OperandX.String(),
		OperandY:  c.OperandY.String(),
		Result:    c.Result.String(),
		Precision: strconv.Itoa(c.Precision),
		Timestamp: c.Timestamp.Format(time.RFC3339Nano),
	}
}

// FromRecord deserializes a stored record and validates it against the
// registry. Structural faults (missing fields, undecodable decimals, an
// unregistered operation, operands violating the operation's precondition)
// return a SerializationError. A stored result differing from the recomputed
// one is only logged, so hand-edited and legacy records remain loadable.
func FromRecord(rec Record, registry *operation.Registry, logger *zap.Logger) (Calculation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = operation.Default()
	}
	if strings.TrimSpace(rec.Operation) == "" {
		return Calculation{}, &calcerr.SerializationError{Msg: "record is missing the operation field"}
	}
	x, err := parseRecordDecimal("operandx", rec.OperandX)
	if err != nil {
		return Calculation{}, err
	}
	y, err := parseRecordDecimal("operandy", rec.OperandY)
	if err != nil {
		return Calculation{}, err
	}
	result, err := parseRecordDecimal("result", rec.Result)
	if err != nil {
		return Calculation{}, err
	}
	precision, err := strconv.Atoi(strings.TrimSpace(rec.Precision))
	if err != nil || precision < 0 {
		return Calculation{}, &calcerr.SerializationError{Msg: fmt.Sprintf("invalid precision field: %q", rec.Precision)}
	}
	timestamp, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rec.Timestamp))
	if err != nil {
		return Calculation{}, &calcerr.SerializationError{Msg: fmt.Sprintf("invalid timestamp field: %q", rec.Timestamp)}
	}

	loaded := Calculation{
		Operation: strings.TrimSpace(rec.Operation),
		OperandX:  x,
		OperandY:  y,
		Result:    result,
		Precision: precision,
		Timestamp: timestamp,
	}
	if err := loaded.validateFields(registry, logger); err != nil {
		return Calculation{}, err
	}
	return loaded, nil
}

// validateFields re-executes the stored operation at the stored precision.
// Only the result comparison is downgraded to a warning.
func (c Calculation) validateFields(registry *operation.Registry, logger *zap.Logger) error {
	op, err := registry.Create(c.Operation)
	if err != nil {
		if errors.Is(err, operation.ErrUnknownOperation) {
			return &calcerr.SerializationError{Msg: "Data record contains an invalid operation tag", Err: err}
		}
		return &calcerr.SerializationError{Msg: "operation lookup failed", Err: err}
	}
	expected, err := op.Execute(c.OperandX, c.OperandY)
	if err != nil {
		return &calcerr.SerializationError{Msg: "Data record contains invalid operands", Err: err}
	}
	quantized := expected.Round(int32(c.Precision))
	if !quantized.Equal(c.Result) {
		logger.Warn(
			fmt.Sprintf("Loaded calculation result %s differs from computed result %s", c.Result, quantized),
			zap.String("operation", c.Operation),
		)
	}
	return nil
}

func parseRecordDecimal(field, raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Decimal{}, &calcerr.SerializationError{Msg: fmt.Sprintf("record is missing the %s field", field)}
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, &calcerr.SerializationError{Msg: fmt.Sprintf("invalid decimal in %s field: %q", field, raw)}
	}
	return d, nil
}
