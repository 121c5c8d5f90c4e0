package pkg

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger replaces the diagnostics logger. A nil logger discards.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = l
}

// NewLogger returns a debug level logger writing to w.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}))
}

// OpenLogFile opens (appending) path and returns a logger writing to it.
func OpenLogFile(path string) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f), f, nil
}

func logAt(lvl slog.Level, msg string, args ...any) {
	if !logger.Enabled(context.Background(), lvl) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), lvl, msg, pcs[0])
	r.Add(args...)
	_ = logger.Handler().Handle(context.Background(), r)
}

func logDebug(msg string, args ...any) { logAt(slog.LevelDebug, msg, args...) }
func logInfo(msg string, args ...any)  { logAt(slog.LevelInfo, msg, args...) }
func logWarn(msg string, args ...any)  { logAt(slog.LevelWarn, msg, args...) }

// timeIt logs how long fn took.
func timeIt(msg string, fn func() error, args ...any) error {
	start := time.Now()
	err := fn()
	logAt(slog.LevelDebug, msg, append(args, "duration", time.Since(start), "err", err)...)
	return err
}

// Logger returns the diagnostics logger.
func Logger() *slog.Logger {
	return logger
}
