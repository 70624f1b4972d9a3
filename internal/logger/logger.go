// Package logger provides process-wide logging for rootly-sync.
// Messages go through a zap core; level and encoding come from the
// [logging] settings and --verbose forces debug output.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	sugar   *zap.SugaredLogger
)

var output io.Writer = os.Stderr

var (
	format    = "console"
	baseLevel = zapcore.InfoLevel
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	rebuild()
}

// Configure sets the level (debug, info, warn, error) and encoding
// (console, json). Verbose mode still wins over the configured level.
func Configure(lvl, encoding string) error {
	var parsed zapcore.Level
	if err := parsed.Set(strings.ToLower(lvl)); err != nil {
		return fmt.Errorf("logger: invalid level %q: %w", lvl, err)
	}
	if encoding != "console" && encoding != "json" {
		return fmt.Errorf("logger: invalid format %q", encoding)
	}

	mu.Lock()
	defer mu.Unlock()
	baseLevel = parsed
	format = encoding
	applyLevel()
	rebuild()
	return nil
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	applyLevel()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	get().Debugf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	get().Infof(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	get().Warnf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	get().Errorf(format, args...)
}

// Section logs a debug section header.
func Section(name string) {
	get().Debugf("=== %s ===", name)
}

// With returns a logger carrying structured fields, e.g. With("run_id", id).
func With(keysAndValues ...any) *zap.SugaredLogger {
	return get().With(keysAndValues...)
}

// Sync flushes buffered log entries.
func Sync() error {
	return get().Sync()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// applyLevel updates the atomic level (caller must hold lock).
func applyLevel() {
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(baseLevel)
}

// rebuild creates the zap core for the current output and format (caller must hold lock).
func rebuild() {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(output), level)
	sugar = zap.New(core).Sugar()
}
