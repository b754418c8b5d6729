package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.SugaredLogger

// Init inicializa el logger global.
// En producción usa JSON; en desarrollo usa la consola legible.
func Init(appEnv string) error {
	var config zap.Config

	if appEnv == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("error inicializando logger: %w", err)
	}

	globalLogger = logger.Sugar()
	return nil
}

// GetLogger retorna el SugaredLogger global
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		// Fallback si no se llamó Init
		logger, _ := zap.NewDevelopment()
		globalLogger = logger.Sugar()
	}
	return globalLogger
}

// Close hace flush de los logs pendientes
func Close() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Info loggea un mensaje informativo con campos opcionales clave-valor
func Info(message string, fields ...interface{}) {
	GetLogger().Infow(message, fields...)
}

// Debug loggea un mensaje de debug
func Debug(message string, fields ...interface{}) {
	GetLogger().Debugw(message, fields...)
}

// Warn loggea una advertencia
func Warn(message string, fields ...interface{}) {
	GetLogger().Warnw(message, fields...)
}

// Error loggea un error
func Error(message string, fields ...interface{}) {
	GetLogger().Errorw(message, fields...)
}

// Fatal loggea un error fatal y termina el proceso
func Fatal(message string, fields ...interface{}) {
	GetLogger().Fatalw(message, fields...)
}
