// Package tracklog wraps zap with the small set of sinks and fields the
// tracking engine needs: a stderr console sink always on, plus an optional
// rotating file sink via lumberjack.
package tracklog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zap logger with the fields engines attach consistently
// (service, component) and the level it was built at.
type Logger struct {
	zap         *zap.Logger
	atomicLevel zap.AtomicLevel
}

// New builds a Logger from Config.
func New(config *Config) (*Logger, error) {
	if config == nil {
		return nil, fmt.Errorf("tracklog: config cannot be nil")
	}

	level := ParseSeverity(config.DefaultLevel).ToZapLevel()
	atomicLevel := zap.NewAtomicLevelAt(level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    severityEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stderr), atomicLevel),
	}

	if config.File != nil {
		lumber := &lumberjack.Logger{
			Filename:   config.File.Path,
			MaxSize:    config.File.MaxSizeMB,
			MaxAge:     config.File.MaxAgeDays,
			MaxBackups: config.File.MaxBackups,
			Compress:   config.File.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(lumber), atomicLevel))
	}

	opts := []zap.Option{}
	if config.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}

	fields := []zap.Field{zap.String("service", config.Service)}
	if config.Environment != "" {
		fields = append(fields, zap.String("environment", config.Environment))
	}
	for k, v := range config.StaticFields {
		fields = append(fields, zap.Any(k, v))
	}
	opts = append(opts, zap.Fields(fields...))

	return &Logger{
		zap:         zap.New(zapcore.NewTee(cores...), opts...),
		atomicLevel: atomicLevel,
	}, nil
}

// NewCLI builds a console-only logger for the tracklink command-line host.
func NewCLI(service string) (*Logger, error) {
	return New(DefaultConfig(service))
}

func severityEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString("DEBUG")
	case zapcore.InfoLevel:
		enc.AppendString("INFO")
	case zapcore.WarnLevel:
		enc.AppendString("WARN")
	case zapcore.ErrorLevel:
		enc.AppendString("ERROR")
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		enc.AppendString("FATAL")
	default:
		enc.AppendString("INFO")
	}
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }

// Info logs at INFO level.
func (l *Logger) Info(msg string, fields ...zap.Field) { l.zap.Info(msg, fields...) }

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, fields ...zap.Field) { l.zap.Warn(msg, fields...) }

// Error logs at ERROR level.
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// WithComponent returns a logger tagged with a component field, used by the
// engine to scope logs to "resolver", "engine", "tracker", etc.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{zap: l.zap.With(zap.String("component", component)), atomicLevel: l.atomicLevel}
}

// WarnGraphemeTruncation logs the word package's oversize-cluster warning
// with structured fields; wired via word.SetWarner at engine setup.
func (l *Logger) WarnGraphemeTruncation(cluster string, byteLen int) {
	l.zap.Warn("grapheme cluster truncated to 8 bytes",
		zap.String("cluster", cluster),
		zap.Int("byte_len", byteLen),
	)
}

// WarnResolverNonProgress logs a resolver standby deadlock as a warning,
// per the CodeResolverNonProgress taxonomy class: it is not fatal to the run.
func (l *Logger) WarnResolverNonProgress(frameIdx int, standbyCount int) {
	l.zap.Warn("resolver made no progress this iteration",
		zap.Int("frame_index", frameIdx),
		zap.Int("standby_count", standbyCount),
	)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// SetLevel dynamically changes the log level.
func (l *Logger) SetLevel(s Severity) {
	l.atomicLevel.SetLevel(s.ToZapLevel())
}
