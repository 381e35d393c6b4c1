package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/config"
)

// Factory creates data source implementations based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewStatsSource creates the stats source named by the configuration
func (f *Factory) NewStatsSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (StatsSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case "fourfactors":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("fourfactors base URL is required")
		}
		return NewFourFactorsClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown stats source: %s", cfg.Name)
	}
}

// NewLinesSource creates the lines source named by the configuration
func (f *Factory) NewLinesSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (LinesSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case "bovada":
		return NewBovadaClient(httpClient, cfg.BaseURL, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown lines source: %s", cfg.Name)
	}
}

// Sources bundles the configured, enabled data sources
type Sources struct {
	Stats StatsSource
	Lines LinesSource
}

// NewSources builds all enabled sources from the ingestion configuration.
// At least one enabled source is required; either kind may be absent.
func (f *Factory) NewSources(cfg config.IngestionConfig, httpClient *RateLimitedHTTPClient) (*Sources, error) {
	sources := &Sources{}

	for _, srcCfg := range cfg.Sources {
		if !srcCfg.Enabled {
			f.logger.WithField("source", srcCfg.Name).Info("Skipping disabled data source")
			continue
		}

		switch srcCfg.Name {
		case "fourfactors":
			source, err := f.NewStatsSource(srcCfg, httpClient)
			if err != nil {
				return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
			}
			sources.Stats = source
		case "bovada":
			source, err := f.NewLinesSource(srcCfg, httpClient)
			if err != nil {
				return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
			}
			sources.Lines = source
		default:
			return nil, fmt.Errorf("unknown data source: %s", srcCfg.Name)
		}

		f.logger.WithField("source", srcCfg.Name).Info("Created data source")
	}

	if sources.Stats == nil && sources.Lines == nil {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
