package bootstrap

import (
	"log/slog"

	"github.com/target/marketplace-ui/config"
	"github.com/target/marketplace-ui/internal/observability/statsd"
)

// BuildMetrics returns the StatsD client. A disabled config yields a client that drops everything.
func BuildMetrics(cfg config.ObservabilityConfig, logger *slog.Logger) (*statsd.Client, error) {
	m := cfg.Metrics
	client, err := statsd.NewClient(statsd.Config{
		Enabled: m.IsEnabled(),
		Address: m.StatsdAddress,
		Prefix:  m.Prefix,
		Logger:  logger,
		GlobalTags: map[string]string{
			"service": "marketplace-ui",
		},
	})
	if err != nil {
		return nil, err
	}
	if m.IsEnabled() && logger != nil {
		logger.Info("statsd metrics enabled", "addr", m.StatsdAddress, "prefix", m.Prefix)
	}
	return client, nil
}
