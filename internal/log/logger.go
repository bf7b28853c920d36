package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides centralized debug logging for the entire game
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	file   *os.File
}

var globalLogger *Logger

// init creates the global logger with console output by default
func init() {
	globalLogger = newLogger(os.Stdout, nil)
}

func newLogger(w io.Writer, file *os.File) *Logger {
	level := &slog.LevelVar{}
	level.Set(slog.LevelDebug)
	if globalLogger != nil {
		level.Set(globalLogger.level.Level())
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   slog.TimeKey,
					Value: slog.StringValue(a.Value.Time().Format("2006/01/02 15:04:05.000000")),
				}
			}
			return a
		},
	})
	return &Logger{
		logger: slog.New(handler),
		level:  level,
		file:   file,
	}
}

// SetFileOutput configures the logger to write to the specified file.
// The TUI owns stdout, so the game always logs to a file once it starts.
func SetFileOutput(filename string) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	Close()
	globalLogger = newLogger(file, file)
	return nil
}

// SetOutput redirects logging to w. Tests use io.Discard.
func SetOutput(w io.Writer) {
	Close()
	globalLogger = newLogger(w, nil)
}

// SetLevel accepts debug, info, warn or error. Unknown names leave the level unchanged.
func SetLevel(name string) {
	var level slog.Level
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return
	}
	globalLogger.level.Set(level)
}

func Debug(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Error(msg, args...)
	}
}

// Close closes the log file if one is open
func Close() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.file.Close()
		globalLogger.file = nil
	}
}
