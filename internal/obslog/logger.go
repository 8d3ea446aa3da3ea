// Package obslog configures the zap logger that the CLI builds and hands to
// the packages that accept one (internal/annotate via SetLogger). The
// core packages (internal/variant, internal/txmap, internal/consequence,
// internal/equivalence) never import this package directly; a *zap.Logger
// is threaded in explicitly wherever a caller wants diagnostics, the same
// way the teacher's Annotator took an io.Writer via SetWarnings rather
// than reaching for a package-level logger.
package obslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for CLI use: human-readable console encoding,
// info level by default, debug when verbose is set. Output goes to
// stderr so stdout stays reserved for the command's actual result
// (an annotated VCF, a JSON comparison report, ...).
func New(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "" // CLI runs are short-lived; timestamps add noise, not signal
	encoder := zapcore.NewConsoleEncoder(cfg)

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// Noop returns a logger that discards everything, for callers (tests,
// library embedders) that don't want obslog deciding where output goes.
func Noop() *zap.Logger {
	return zap.NewNop()
}

// Sync flushes any buffered log entries. Call it in a deferred statement
// right after New in main(); the returned error from zap's stderr sync is
// expected and ignorable on most platforms (stderr doesn't support
// fsync), so callers that don't care can write `defer obslog.Sync(logger)`
// without an explicit error check cluttering the call site.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
