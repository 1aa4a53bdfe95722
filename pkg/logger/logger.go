package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InfoLogger пишет всё кроме fatal, FatalLogger завершает процесс.
// До Init оба no-op, чтобы пакеты и тесты могли логировать без настройки.
var InfoLogger, FatalLogger = zap.NewNop(), zap.NewNop()

var (
	serviceName = "default"
)

type Config struct {
	Level       string
	Development bool
}

// Init строит zap-логгеры по конфигу.
func Init(conf Config) error {
	level := zapcore.InfoLevel
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
			return fmt.Errorf("logger level %q: %w", conf.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	if conf.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	InfoLogger = l
	FatalLogger = l
	return nil
}

func Sync() {
	_ = InfoLogger.Sync()
}

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

func Debug(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	InfoLogger.With(
		zap.String("service", serviceName),
	).Debug(msg)
}

func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	InfoLogger.With(
		zap.String("service", serviceName),
	).Info(msg)
}

func Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	InfoLogger.With(
		zap.String("service", serviceName),
	).Warn(msg)
}

func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	InfoLogger.With(
		zap.String("service", serviceName),
	).Error(msg)
}

// Errorw пишет ошибку со структурными полями: для событий, которые потом
// ищут в логах руками (расхождения с биржей).
func Errorw(msg string, fields ...zap.Field) {
	InfoLogger.With(
		zap.String("service", serviceName),
	).Error(msg, fields...)
}

func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	FatalLogger.With(
		zap.String("service", serviceName),
	).Fatal(msg)
}
