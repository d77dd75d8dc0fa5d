package logging

import (
	"go.uber.org/zap"
)

// ZapLogger adapts a zap.SugaredLogger to the filer.Logger interface.
// Safe for concurrent use by multiple goroutines.
type ZapLogger struct {
	sugar   *zap.SugaredLogger
	verbose bool
}

// NewZapLogger creates a ZapLogger with a freshly built zap core.
// If verbose is true a development configuration is used and Verbose()
// calls produce output; otherwise a production configuration is used and
// Verbose() calls are no-ops.
func NewZapLogger(verbose bool) (*ZapLogger, error) {
	var (
		base *zap.Logger
		err  error
	)
	if verbose {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: base.Sugar(), verbose: verbose}, nil
}

// Wrap adapts an existing zap.SugaredLogger.
// Panics if sugar is nil.
func Wrap(sugar *zap.SugaredLogger, verbose bool) *ZapLogger {
	if sugar == nil {
		panic("sugar cannot be nil")
	}
	return &ZapLogger{sugar: sugar, verbose: verbose}
}

// Verbose logs detailed diagnostic information at debug level if verbose
// mode is enabled.
func (l *ZapLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs informational messages about normal operations.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error logs error messages.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered log entries. Call before process exit.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
