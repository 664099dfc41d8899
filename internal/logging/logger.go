package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the global loggers.
// In production (ENVIRONMENT=production) both emit JSON for log aggregation.
// Otherwise they use human-readable text output.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logrus.SetLevel(logrus.DebugLevel)
	}

	slog.SetDefault(slog.New(handler))
}

// WithAggregation returns a logger with aggregation context fields attached.
// Use this for all logging within a context aggregation pass.
func WithAggregation(userID string, forceRefresh bool) *slog.Logger {
	return slog.With(
		"user_id", userID,
		"force_refresh", forceRefresh,
	)
}

// WithDomain returns a logger scoped to one data domain within a pass.
func WithDomain(logger *slog.Logger, domain string) *slog.Logger {
	return logger.With("domain", domain)
}
