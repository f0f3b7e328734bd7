package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger: timestamps to the hundredth of a
// second, with the caller reported at debug level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command and logs it with structured fields
// when it completes, e.g. `layout nodes=14 breakpoint=desktop took=3ms`.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func newStage(l *log.Logger, name string) *stage {
	l.Debug(name + " started")
	return &stage{logger: l, name: name, start: time.Now()}
}

// done logs the stage with keyvals and the elapsed time.
func (s *stage) done(keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(s.name, keyvals...)
}

// =============================================================================
// Context
// =============================================================================

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx. Without one,
// output is discarded.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return discardLogger
}

var discardLogger = log.NewWithOptions(io.Discard, log.Options{})
