package clock

//go:generate mockgen -destination=mock_clock.go -package=clock ethonode/internal/core/clock Clock,Ticker,TimeSource

import (
	"context"
	"time"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// TimeSource reports the current time of the remote authority.
type TimeSource interface {
	FetchTime(ctx context.Context) (time.Time, error)
}
