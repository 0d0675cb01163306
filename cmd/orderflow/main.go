package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/MaheshUmale/orderflow/internal/bootstrap"
	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/pkg/logger"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer app.Logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The feed goroutine is the only writer into the engine, so tick
	// processing needs no locking.
	err = app.Feed.Subscribe(func(tick v1.Tick) {
		for _, event := range app.Engine.ProcessTick(tick) {
			if event.Kind != v1.EventNew {
				continue
			}
			app.Logger.Info("candle opened", logger.Field{
				Key:   "time",
				Value: event.Candle.Time,
			}, logger.Field{
				Key:   "open",
				Value: event.Candle.Open,
			}, logger.Field{
				Key:   "cvd",
				Value: event.Candle.CVD,
			}, logger.Field{
				Key:   "candles",
				Value: len(app.Engine.Series()),
			})
		}
	})
	if err != nil {
		log.Fatalf("subscribe failed: %v", err)
	}

	app.Logger.Info("starting order-flow engine", logger.Field{
		Key:   "symbol",
		Value: app.Config.Feed.Symbol,
	}, logger.Field{
		Key:   "mode",
		Value: string(app.Engine.Params().Mode),
	})

	if err := app.Feed.Start(ctx); err != nil {
		app.Logger.Error(err)
	}

	if err := app.Feed.Stop(); err != nil {
		app.Logger.Error(err)
	}
	app.Logger.Info("engine stopped", logger.Field{
		Key:   "candles",
		Value: len(app.Engine.Series()),
	}, logger.Field{
		Key:   "dropped_ticks",
		Value: app.Engine.DroppedTicks(),
	})
}
