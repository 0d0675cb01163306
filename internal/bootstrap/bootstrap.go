package bootstrap

import (
	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/internal/feed/binance"
	"github.com/MaheshUmale/orderflow/internal/usecase/aggregator"
	"github.com/MaheshUmale/orderflow/pkg/config"
	"github.com/MaheshUmale/orderflow/pkg/logger"
)

// App holds the wired application components.
type App struct {
	Config *config.Config
	Logger *logger.Logger
	Engine *aggregator.Aggregator
	Feed   v1.TradeFeed
}

// New loads configuration and wires logger, engine, and feed.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		return nil, err
	}

	engine, err := aggregator.New(engineParams(cfg.Engine), log)
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		Logger: log,
		Engine: engine,
		Feed:   binance.NewFeed(cfg.Feed, log),
	}, nil
}

func engineParams(cfg config.EngineConfig) aggregator.Params {
	return aggregator.Params{
		Mode:             aggregator.Mode(cfg.Mode),
		TicksPerCandle:   cfg.TicksPerCandle,
		PriceStep:        cfg.PriceStep,
		BoxSize:          cfg.BoxSize,
		ValueAreaPercent: cfg.ValueAreaPercent,
		ImbalanceRatio:   cfg.ImbalanceRatio,
		RecalcThrottleMs: cfg.RecalcThrottleMs,
		HistoryCapacity:  cfg.HistoryCapacity,
		SeriesCapacity:   cfg.SeriesCapacity,
	}
}
