package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"searchapi/internal/bjtime"
)

// newLogger builds the logger shared by all commands. Timestamps are
// Beijing wall-clock with centiseconds, matching the zone the service
// logs in, which is enough to eyeball step durations.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		TimeFunction:    func(t time.Time) time.Time { return t.In(bjtime.Zone) },
		Level:           level,
	})
}

// ctxKey keeps this package's context keys from colliding with anyone
// else's.
type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default, so commands always have a
// logger even when the root setup was skipped, as happens in tests.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
