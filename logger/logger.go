package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const levelEnvVariable = "LOG_LEVEL"

func NewProductionLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(os.Getenv(levelEnvVariable))
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}

func Suggar(logger *zap.Logger) *zap.SugaredLogger {
	return logger.Sugar()
}
