package v1

import (
	"context"
)

//go:generate mockgen -source=feed.go -destination=mock/feed_mock.go -package=mock

// TradeFeed represents a collaborator that delivers raw trade ticks.
type TradeFeed interface {
	Start(ctx context.Context) error
	Stop() error
	Subscribe(handler func(tick Tick)) error
}
