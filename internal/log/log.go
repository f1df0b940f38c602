// Package log is a thin context-scoped wrapper over log/slog, grounded on
// dp3's util/log package. Tags accumulate on a context via AddTags and are
// flushed into the record at the call site.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

type contextKey int

const logTagKey contextKey = iota

// AddTags returns a derived context carrying additional key/value pairs
// that will be attached to every log record emitted through it.
func AddTags(ctx context.Context, kvs ...any) context.Context {
	if len(kvs)%2 != 0 {
		panic("log: AddTags requires an even number of arguments")
	}
	tags := fromContext(ctx)
	next := make([]any, 0, len(tags)+len(kvs))
	next = append(next, tags...)
	next = append(next, kvs...)
	return context.WithValue(ctx, logTagKey, next)
}

func fromContext(ctx context.Context) []any {
	tags, _ := ctx.Value(logTagKey).([]any)
	return tags
}

func levelf(ctx context.Context, level slog.Level, format string, args ...any) {
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	tags := fromContext(ctx)
	for i := 0; i < len(tags); i += 2 {
		r.Add(fmt.Sprint(tags[i]), tags[i+1])
	}
	handler := slog.Default().Handler()
	if handler.Enabled(ctx, level) {
		if err := handler.Handle(ctx, r); err != nil {
			slog.ErrorContext(ctx, "error handling log record", "error", err)
		}
	}
}

// Debugf logs at debug level with the context's accumulated tags.
func Debugf(ctx context.Context, format string, args ...any) {
	levelf(ctx, slog.LevelDebug, format, args...)
}

// Infof logs at info level with the context's accumulated tags.
func Infof(ctx context.Context, format string, args ...any) {
	levelf(ctx, slog.LevelInfo, format, args...)
}

// Warnf logs at warn level with the context's accumulated tags.
func Warnf(ctx context.Context, format string, args ...any) {
	levelf(ctx, slog.LevelWarn, format, args...)
}

// Errorf logs at error level with the context's accumulated tags.
func Errorf(ctx context.Context, format string, args ...any) {
	levelf(ctx, slog.LevelError, format, args...)
}
