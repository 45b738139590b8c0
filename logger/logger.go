// Package logger builds the zap loggers used by rfc2texi.
//
// Progress output goes through the same logger as diagnostics: a console
// encoder that prints only the message, so the lines on stdout read like
// plain progress text. Diagnostics (stack traces, skipped includes) are
// logged at debug level and only show up when verbose is set.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing bare messages to w. Structured fields, if
// any, are appended after a tab.
func New(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(minimalEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func minimalEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: "\t",
		EncodeDuration:   zapcore.StringDurationEncoder,
	}
}
