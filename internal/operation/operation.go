// Package operation implements the arithmetic operation set and its registry.
package operation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Operation is a pure two-operand decimal function identified by a canonical
// name, with its own precondition policy.
type Operation interface {
	// Name returns the canonical identifier used in records and the CLI.
	Name() string
	// Validate prechecks the operands without executing.
	Validate(x, y decimal.Decimal) error
	// Execute validates and performs the arithmetic.
	Execute(x, y decimal.Decimal) (decimal.Decimal, error)
}

// ErrUnknownOperation is returned by Create for unregistered identifiers.
var ErrUnknownOperation = errors.New("unknown operation")

// Registry maps identifiers and aliases to operation implementations.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: map[string]Operation{}}
}

// Register maps one or more identifiers to op. Lookup is case-insensitive and
// a later registration for the same identifier wins, so tests and extensions
// can override built-ins. With no explicit names the canonical name is used.
// On any invalid identifier the registry is left unchanged.
func (r *Registry) Register(op Operation, names ...string) error {
	if op == nil {
		return errors.New("register: operation must not be nil")
	}
	if len(names) == 0 {
		names = []string{op.Name()}
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return errors.New("register: identifier must not be empty")
		}
		keys = append(keys, name)
	}
	for _, key := range keys {
		r.ops[key] = op
	}
	return nil
}

// Create resolves an identifier or alias to its registered operation.
func (r *Registry) Create(identifier string) (Operation, error) {
	op, ok := r.ops[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, identifier)
	}
	return op, nil
}

// Names returns all registered identifiers, aliases included, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry with the full built-in operation set.
func Default() *Registry {
	r := NewRegistry()
	// Registration of the built-in set cannot fail.
	_ = r.Register(Addition{}, "add", "addition")
	_ = r.Register(Subtraction{}, "subtract", "subtraction")
	_ = r.Register(Multiplication{}, "multiply", "multiplication")
	_ = r.Register(Division{}, "divide", "division")
	_ = r.Register(Power{}, "power", "pow")
	_ = r.Register(Root{}, "root")
	_ = r.Register(Modulus{}, "modulus", "mod")
	_ = r.Register(IntegerDivision{}, "int_divide", "intdiv")
	_ = r.Register(Percentage{}, "percentage", "percent")
	_ = r.Register(Distance{}, "distance", "dist")
	return r
}
