package backend

import (
	"github.com/hashicorp/go-retryablehttp"

	"winwin/internal/logger"
)

// retryLogger routes go-retryablehttp messages into the application logger.
type retryLogger struct{}

var _ retryablehttp.LeveledLogger = retryLogger{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Get().Error().Str("event_category", "backend").Fields(keysAndValues).Msg(msg)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Get().Info().Str("event_category", "backend").Fields(keysAndValues).Msg(msg)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Get().Debug().Str("event_category", "backend").Fields(keysAndValues).Msg(msg)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Get().Warn().Str("event_category", "backend").Fields(keysAndValues).Msg(msg)
}
