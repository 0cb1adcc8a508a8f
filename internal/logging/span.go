package logging

import (
	"context"
	"log/slog"
	"time"
)

// Span measures a named unit of work, typically a database aggregation.
type Span struct {
	logger *slog.Logger
	start  time.Time
}

// StartSpan enriches the context logger with the span name and returns a
// handle that logs the elapsed time when ended.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	logger := FromContext(ctx).With(slog.String("span", name))
	ctx = WithLogger(ctx, logger)
	return ctx, &Span{logger: logger, start: time.Now()}
}

// End emits a completion entry with the span duration.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.logger.Debug("span completed", slog.Duration("duration", time.Since(s.start)))
}
