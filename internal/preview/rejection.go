package preview

import (
	"fmt"
	"strings"

	"previewer/internal/filters"
)

// Constraint names for rejections not covered by the exchange filter types.
const (
	ConstraintLiquidity = "LIQUIDITY"
	ConstraintBalance   = "BALANCE"
	ConstraintInput     = "INPUT"
)

// Reason is a single rejection cause, naming the constraint that failed.
type Reason struct {
	Constraint string
	Message    string
}

// Rejection aggregates every hard reason a preview could not be produced.
// Hard means the exchange would reject the order outright; soft concerns
// ride on the preview as warnings instead.
type Rejection struct {
	Symbol  string
	Reasons []Reason
}

// NewRejection creates an empty rejection for symbol.
func NewRejection(symbol string) *Rejection {
	return &Rejection{Symbol: symbol}
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	if len(r.Reasons) == 0 {
		return fmt.Sprintf("preview rejected for %s", r.Symbol)
	}
	parts := make([]string, 0, len(r.Reasons)+1)
	parts = append(parts, fmt.Sprintf("preview rejected for %s:", r.Symbol))
	for _, reason := range r.Reasons {
		parts = append(parts, fmt.Sprintf("%s: %s", reason.Constraint, reason.Message))
	}
	return strings.Join(parts, "; ")
}

// Add records a reason from a raised error, keeping the filter constraint
// name when the error is a filter violation.
func (r *Rejection) Add(constraint string, err error) {
	if err == nil {
		return
	}
	if v, ok := filters.AsViolation(err); ok {
		r.Reasons = append(r.Reasons, Reason{Constraint: v.Constraint, Message: v.Message})
		return
	}
	r.Reasons = append(r.Reasons, Reason{Constraint: constraint, Message: err.Error()})
}

