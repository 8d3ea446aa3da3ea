package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewRespectsVerboseLevel(t *testing.T) {
	quiet := New(false)
	assert.False(t, quiet.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, quiet.Core().Enabled(zapcore.InfoLevel))

	verbose := New(true)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestNoopDiscardsEntries(t *testing.T) {
	logger := Noop()
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestSyncDoesNotPanicOnStderrLogger(t *testing.T) {
	logger := New(false)
	assert.NotPanics(t, func() { Sync(logger) })
}

func TestExampleLoggerAcceptsStructuredFields(t *testing.T) {
	logger := zap.NewExample()
	logger.Info("provider cache loaded", zap.String("accession", "NM_004985.5"), zap.Int("transcripts", 1))
	logger.Debug("chunk doubled", zap.Int("size", 256))
}
