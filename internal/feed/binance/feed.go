// Package binance delivers aggregated trade ticks from the Binance futures
// websocket stream. It is the reference TradeFeed collaborator; the engine
// itself has no transport dependency.
package binance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/pkg/config"
	"github.com/MaheshUmale/orderflow/pkg/errors"
	"github.com/MaheshUmale/orderflow/pkg/logger"
	"github.com/gorilla/websocket"
)

// aggTradeEvent matches the JSON payload of the Binance aggTrade stream.
// Example: {"e":"aggTrade","E":1672515782136,"s":"BTCUSDT","a":123456789,
// "p":"16850.00","q":"0.005","f":100,"l":105,"T":1672515782136,"m":true}
type aggTradeEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	TradeID   int64  `json:"a"`
	Price     string `json:"p"`
	Quantity  string `json:"q"`
	FirstID   int64  `json:"f"`
	LastID    int64  `json:"l"`
	TradeTime int64  `json:"T"`
	IsMaker   bool   `json:"m"`
}

// Feed is a TradeFeed over the Binance aggTrade websocket stream with
// reconnect and capped exponential backoff.
type Feed struct {
	url            string
	reconnectDelay time.Duration
	maxReconnect   time.Duration
	logger         logger.Interface

	handler func(tick v1.Tick)
	cancel  context.CancelFunc
}

// NewFeed creates a Feed for the configured symbol.
func NewFeed(cfg config.FeedConfig, log logger.Interface) *Feed {
	return &Feed{
		url:            fmt.Sprintf("%s/%s@aggTrade", cfg.URL, cfg.Symbol),
		reconnectDelay: time.Duration(cfg.ReconnectDelay) * time.Second,
		maxReconnect:   time.Duration(cfg.MaxReconnect) * time.Second,
		logger:         log,
	}
}

// Subscribe registers the tick handler. Must be called before Start.
func (f *Feed) Subscribe(handler func(tick v1.Tick)) error {
	if handler == nil {
		return errors.NewTracer("feed handler must not be nil")
	}
	f.handler = handler
	return nil
}

// Start blocks and consumes the stream until the context is done, redialing
// with doubling backoff after connection failures.
func (f *Feed) Start(ctx context.Context) error {
	if f.handler == nil {
		return errors.NewTracer("feed started without a subscriber")
	}
	ctx, f.cancel = context.WithCancel(ctx)

	delay := f.reconnectDelay
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		err := f.consume(ctx)
		if err == nil {
			return nil
		}
		f.logger.Warn("feed disconnected", logger.Field{
			Key:   "error",
			Value: err.Error(),
		}, logger.Field{
			Key:   "retry_in",
			Value: delay.String(),
		})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay *= 2
		if delay > f.maxReconnect {
			delay = f.maxReconnect
		}
	}
}

// Stop terminates the consume loop.
func (f *Feed) Stop() error {
	if f.cancel != nil {
		f.cancel()
	}
	return nil
}

func (f *Feed) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return errors.TracerFromError(err)
	}
	defer conn.Close()

	f.logger.Info("feed connected", logger.Field{
		Key:   "url",
		Value: f.url,
	})

	var event aggTradeEvent
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := conn.ReadJSON(&event); err != nil {
			return errors.TracerFromError(err)
		}

		price, err := strconv.ParseFloat(event.Price, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseFloat(event.Quantity, 64)
		if err != nil {
			continue
		}

		f.handler(v1.Tick{
			Price:       price,
			Quantity:    qty,
			TimestampMs: event.TradeTime,
		})
	}
}
