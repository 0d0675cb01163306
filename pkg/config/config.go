package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App    AppConfig    `envPrefix:"APP_"`
	Engine EngineConfig `envPrefix:"ENGINE_"`
	Feed   FeedConfig   `envPrefix:"FEED_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"orderflow-engine"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// EngineConfig holds the aggregation parameters. Defaults match the
// documented engine defaults; all of them can be changed at runtime through
// Aggregator.Reconfigure.
type EngineConfig struct {
	// Mode selects the candle boundary policy: "tick" or "renko".
	Mode             string  `env:"MODE" envDefault:"tick"`
	TicksPerCandle   int     `env:"TICKS_PER_CANDLE" envDefault:"100"`
	PriceStep        float64 `env:"PRICE_STEP" envDefault:"0.05"`
	BoxSize          float64 `env:"BOX_SIZE" envDefault:"10"`
	ValueAreaPercent float64 `env:"VALUE_AREA_PERCENT" envDefault:"0.70"`
	ImbalanceRatio   float64 `env:"IMBALANCE_RATIO" envDefault:"3.0"`
	RecalcThrottleMs int64   `env:"RECALC_THROTTLE_MS" envDefault:"250"`
	HistoryCapacity  int     `env:"HISTORY_CAPACITY_TICKS" envDefault:"20000"`
	SeriesCapacity   int     `env:"CANDLE_SERIES_CAPACITY" envDefault:"1500"`
}

// FeedConfig represents the trade feed configuration.
type FeedConfig struct {
	URL            string `env:"URL" envDefault:"wss://fstream.binance.com/ws"`
	Symbol         string `env:"SYMBOL" envDefault:"btcusdt"`
	ReconnectDelay int    `env:"RECONNECT_DELAY_SECONDS" envDefault:"1"`
	MaxReconnect   int    `env:"MAX_RECONNECT_DELAY_SECONDS" envDefault:"30"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
