package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the default time format string for log appenders.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// ConsoleAppender will create human readable lines from log events and write them to the desired
// output sync. E.g: stdout or a file.
type ConsoleAppender struct {
	zapcore.Core
}

func newEncoderConfig(color bool) zapcore.EncoderConfig {
	encoderCfg := NewLoggerConfig().EncoderConfig
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(DefaultTimeFormatStr)
	if !color {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return encoderCfg
}

// NewStdoutAppender creates a new appender that writes colored lines to stdout.
func NewStdoutAppender() ConsoleAppender {
	return NewWriterAppender(os.Stdout, true)
}

// NewWriterAppender creates a new appender that writes console formatted lines to the given
// writer.
func NewWriterAppender(writer zapcore.WriteSyncer, color bool) ConsoleAppender {
	encoder := zapcore.NewConsoleEncoder(newEncoderConfig(color))
	return ConsoleAppender{zapcore.NewCore(encoder, writer, zapcore.DebugLevel)}
}

// FileAppenderConfig configures a rotating log file.
type FileAppenderConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// NewFileAppender creates an appender that writes uncolored console lines to a size-rotated file.
func NewFileAppender(cfg FileAppenderConfig) ConsoleAppender {
	return NewWriterAppender(zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}), false)
}

// Write outputs the log entry to the underlying stream.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return appender.Core.Write(entry, fields)
}

// Sync flushes the underlying stream.
func (appender ConsoleAppender) Sync() error {
	return appender.Core.Sync()
}

func callerToString(caller *zapcore.EntryCaller) string {
	return caller.TrimmedPath()
}
