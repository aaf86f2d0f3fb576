package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// NewLogger creates a zap logger selected by the VST_LOG_MODE environment
// variable ("development" or "production", default production)
func NewLogger() *zap.Logger {
	var logger *zap.Logger
	var err error

	if os.Getenv("VST_LOG_MODE") == "development" {
		logger, err = NewDevelopmentLogger()
	} else {
		logger, err = NewProductionLogger()
	}

	if err != nil {
		// Fallback to no-op logger if construction fails
		return zap.NewNop()
	}
	return logger
}

// NewProductionLogger creates a new zap logger configured for production use
func NewProductionLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build production logger: %w", err)
	}
	return logger, nil
}

// NewDevelopmentLogger creates a new zap logger configured for development use
func NewDevelopmentLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build development logger: %w", err)
	}
	return logger, nil
}
