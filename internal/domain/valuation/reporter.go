package valuation

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/finmacro/pkg/logger"
)

// Diagnostic describes why a method returned an unavailable result.
type Diagnostic struct {
	Method  Method
	Kind    error
	Message string
	// Inputs is a snapshot of the series the method was called with.
	Inputs map[string]Series
}

// Err wraps Kind so callers can match it with errors.Is.
func (d Diagnostic) Err() error {
	return fmt.Errorf("%s: %s: %w", d.Method, d.Message, d.Kind)
}

// Reporter receives diagnostics for unavailable results.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) { f(ctx, d) }

type nopReporter struct{}

func (nopReporter) Report(context.Context, Diagnostic) {}

// LogReporter logs each diagnostic as a warning, with fields attached.
// Inputs are logged in name order.
func LogReporter(l logger.Logger, fields ...logger.Field) Reporter {
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return ReporterFunc(func(ctx context.Context, d Diagnostic) {
		out := make([]logger.Field, 0, len(d.Inputs)+3)
		out = append(out,
			logger.String("method", string(d.Method)),
			logger.String("kind", kindName(d.Kind)),
			logger.String("reason", d.Message),
		)
		names := make([]string, 0, len(d.Inputs))
		for name := range d.Inputs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, logger.Floats(name, d.Inputs[name]))
		}
		l.Warn(ctx, "valuation unavailable", out...)
	})
}

// KindName returns a short label for a diagnostic kind, suitable for metrics.
func KindName(kind error) string { return kindName(kind) }

func kindName(kind error) string {
	switch kind {
	case ErrInsufficientData:
		return "insufficient_data"
	case ErrShapeMismatch:
		return "shape_mismatch"
	case ErrDegenerateInput:
		return "degenerate_input"
	case ErrInvalidParameter:
		return "invalid_parameter"
	default:
		return "unknown"
	}
}
