package filters

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol is returned by Registry.Get when a symbol has no filter
// set. Missing filters are never treated as "no constraints".
var ErrUnknownSymbol = errors.New("unknown symbol")

// Violation describes a value that the exchange would reject. It names the
// failed constraint and, where computable, the nearest value that would
// have passed, so the caller can tell the user how far off they were.
type Violation struct {
	Constraint string
	Message    string
	Nearest    decimal.Decimal
	HasNearest bool
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.HasNearest {
		return fmt.Sprintf("%s: %s (nearest valid: %s)", v.Constraint, v.Message, v.Nearest.String())
	}
	return fmt.Sprintf("%s: %s", v.Constraint, v.Message)
}

func newViolation(constraint, format string, args ...interface{}) *Violation {
	return &Violation{
		Constraint: constraint,
		Message:    fmt.Sprintf(format, args...),
	}
}

func (v *Violation) withNearest(d decimal.Decimal) *Violation {
	v.Nearest = d
	v.HasNearest = true
	return v
}

// AsViolation unwraps err into a *Violation when possible.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
