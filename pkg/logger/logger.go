package logger

import (
	"os"

	"go.uber.org/zap"
)

// Logger is the leveled key/value logger used across the service. It is
// also what pkg/xhttp hands to fasthttp, which only needs Printf.
type Logger interface {
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Debug(msg string, values ...any)
	Panic(msg string, values ...any)
	Fatal(err error, values ...any)
	Printf(format string, args ...any)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var global *zapLogger

func init() {
	var cfg zap.Config
	if os.Getenv("LOG_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if _, err := New(cfg); err != nil {
		panic(err)
	}
}

func New(cfg zap.Config) (Logger, error) {
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer l.Sync() //nolint
	l = l.WithOptions(zap.AddCallerSkip(2))
	global = &zapLogger{sugar: l.Sugar()}
	return global, nil
}

func GetLogger() Logger {
	if global == nil {
		panic("logger not initialized")
	}
	return global
}

func (l *zapLogger) Info(msg string, values ...any)  { l.sugar.Infow(msg, values...) }
func (l *zapLogger) Warn(msg string, values ...any)  { l.sugar.Warnw(msg, values...) }
func (l *zapLogger) Error(msg string, values ...any) { l.sugar.Errorw(msg, values...) }
func (l *zapLogger) Debug(msg string, values ...any) { l.sugar.Debugw(msg, values...) }
func (l *zapLogger) Panic(msg string, values ...any) { l.sugar.Panicw(msg, values...) }
func (l *zapLogger) Fatal(err error, values ...any)  { l.sugar.Fatalw(err.Error(), values...) }

func (l *zapLogger) Printf(format string, args ...any) { l.sugar.Infof(format, args...) }

func Info(msg string, values ...any)  { GetLogger().Info(msg, values...) }
func Warn(msg string, values ...any)  { GetLogger().Warn(msg, values...) }
func Error(msg string, values ...any) { GetLogger().Error(msg, values...) }
func Debug(msg string, values ...any) { GetLogger().Debug(msg, values...) }
func Panic(msg string, values ...any) { GetLogger().Panic(msg, values...) }
func Fatal(err error, values ...any)  { GetLogger().Fatal(err, values...) }
