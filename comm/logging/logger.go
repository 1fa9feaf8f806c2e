// Package logging provides the process-wide logger: zap, optionally rolled
// to a local file by lumberjack.
//
// Environment:
//
//	FAKESMSC_LOGGING_LEVEL  zap level number or name (-1/debug, 0/info, 1/warn, 2/error)
//	FAKESMSC_LOGGING_FILE   log file path; stdout when empty
package logging

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Logger is the subset of zap.SugaredLogger the rest of the module uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

var (
	mu            sync.RWMutex
	defaultLogger Logger
	flusher       func() error
	level         = zap.NewAtomicLevelAt(InfoLevel)
)

func init() {
	if lv := os.Getenv("FAKESMSC_LOGGING_LEVEL"); lv != "" {
		if n, err := strconv.ParseInt(lv, 10, 8); err == nil {
			level.SetLevel(Level(n))
		} else {
			_ = level.UnmarshalText([]byte(lv))
		}
	}
	if file := os.Getenv("FAKESMSC_LOGGING_FILE"); file != "" {
		if err := UseLocalFile(file, 0, 0, 0); err == nil {
			return
		}
	}
	useConsole()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func useConsole() {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), level)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	set(zl.Sugar(), zl.Sync)
}

// UseLocalFile switches the default logger to a lumberjack-rolled file.
// Zero values fall back to 100MB per file, 2 backups, 15 days.
func UseLocalFile(path string, maxSizeMB, maxBackups, maxAgeDays int) error {
	if path == "" {
		return errors.New("logging: empty log file path")
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 100
	}
	if maxBackups <= 0 {
		maxBackups = 2
	}
	if maxAgeDays <= 0 {
		maxAgeDays = 15
	}
	lumber := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		LocalTime:  true,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(lumber), level)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	set(zl.Sugar(), func() error {
		_ = zl.Sync()
		return lumber.Close()
	})
	return nil
}

func set(l Logger, f func() error) {
	mu.Lock()
	defer mu.Unlock()
	if flusher != nil {
		_ = flusher()
	}
	defaultLogger, flusher = l, f
}

// GetDefaultLogger returns a handle that always forwards to the current
// default logger, so package-level vars stay valid after UseLocalFile.
func GetDefaultLogger() Logger {
	return proxy{}
}

// SetLevel changes the level of the default logger at runtime.
func SetLevel(lv Level) {
	level.SetLevel(lv)
}

// SetDebug toggles between DebugLevel and InfoLevel.
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(DebugLevel)
	} else {
		SetLevel(InfoLevel)
	}
}

func Enabled(lv Level) bool {
	return level.Enabled(lv)
}

// Cleanup flushes buffered entries.
func Cleanup() {
	mu.RLock()
	defer mu.RUnlock()
	if flusher != nil {
		_ = flusher()
	}
}

func current() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

type proxy struct{}

func (proxy) Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }
func (proxy) Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func (proxy) Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func (proxy) Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }
func (proxy) Fatalf(format string, args ...interface{}) { current().Fatalf(format, args...) }

func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }
