// Package logger builds the process logger and provides crash logging and
// recovery for contactbook.
package logger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options controls the logger built by New.
type Options struct {
	Level   string // debug, info, warn, error; empty means warn
	Format  string // console or json; empty means console
	File    string // log destination; empty means stderr
	Verbose bool   // forces debug level
}

// New builds a zap logger from opts. Stdout is never used so that command
// output stays machine readable.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encoding := FormatConsole
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
	case FormatJSON:
		encoding = FormatJSON
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	output := "stderr"
	if opts.File != "" {
		output = opts.File
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if encoding == FormatConsole {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableStacktrace: level > zapcore.DebugLevel,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
	}

	return zapConfig.Build()
}

// WithRunID tags every entry of l with a fresh run id and returns both.
// The id is also recorded for crash reports.
func WithRunID(l *zap.Logger) (*zap.Logger, string) {
	id := uuid.NewString()
	SetRunID(id)
	return l.With(zap.String("run_id", id)), id
}
