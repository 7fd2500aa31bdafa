package signal

import "fmt"

// ValidationError reports a reading that violates its range/shape contract.
// It is raised by the evaluator that owns the reading and never silently
// coerced into a zero-severity verdict.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid reading: %s %s", e.Field, e.Reason)
}

func validationErrorf(field, format string, a ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// InvariantViolation indicates a logic defect inside the aggregator
// (e.g. a negative score). Fatal to one instrument's computation only.
type InvariantViolation struct {
	Instrument string
	Timeframe  string
	Check      string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("aggregation invariant violated for %s/%s: %s", e.Instrument, e.Timeframe, e.Check)
}
