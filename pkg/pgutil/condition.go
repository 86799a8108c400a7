package pgutil

import (
	"fmt"
	"strings"
)

type operator int

const (
	operatorEq operator = iota
	operatorIn
	operatorLt
	operatorGt
)

// Condition is a typed filter predicate. Using constructors instead of
// stringly-typed filter maps keeps invalid operators out and makes the
// field selection reviewable at the call site. Column names are developer
// provided, never user input.
type Condition struct {
	column string
	op     operator
	value  any
}

// Eq matches rows where the column equals the value.
func Eq(column string, value any) Condition {
	return Condition{column: column, op: operatorEq, value: value}
}

// In matches rows where the column is a member of values.
func In[E any](column string, values []E) Condition {
	// pgx binds slices to = ANY($n) natively, but only for concrete
	// slice types, so copy into []any.
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return Condition{column: column, op: operatorIn, value: anyValues}
}

// Lt matches rows where the column is strictly less than the value.
func Lt(column string, value any) Condition {
	return Condition{column: column, op: operatorLt, value: value}
}

// Gt matches rows where the column is strictly greater than the value.
func Gt(column string, value any) Condition {
	return Condition{column: column, op: operatorGt, value: value}
}

// Change is one column assignment for Update.
type Change struct {
	column string
	value  any
}

// Set assigns value to column.
func Set(column string, value any) Change {
	return Change{column: column, value: value}
}

// whereClause renders the conditions into a WHERE clause, appending bind
// values to args. It returns the empty string for no conditions.
func whereClause(conds []Condition, args *[]any) string {
	if len(conds) == 0 {
		return ""
	}

	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		*args = append(*args, c.value)
		placeholder := len(*args)

		switch c.op {
		case operatorIn:
			parts = append(parts, fmt.Sprintf("%s = ANY($%d)", c.column, placeholder))
		case operatorLt:
			parts = append(parts, fmt.Sprintf("%s < $%d", c.column, placeholder))
		case operatorGt:
			parts = append(parts, fmt.Sprintf("%s > $%d", c.column, placeholder))
		default:
			parts = append(parts, fmt.Sprintf("%s = $%d", c.column, placeholder))
		}
	}

	return " WHERE " + strings.Join(parts, " AND ")
}
