package logging

import (
	"strings"

	"go.uber.org/zap"
)

type Logger struct {
	Sugared *zap.SugaredLogger
}

// New builds a logger for the given mode ("production" or anything else for
// development). Key-value pairs go through the *w methods.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Sugared: zl.Sugar()}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{Sugared: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.Sugared.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Sugared.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Sugared.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Sugared.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Sugared.Errorw(msg, keysAndValues...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.Sugared.Fatalw(msg, keysAndValues...)
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{Sugared: l.Sugared.With(keysAndValues...)}
}
