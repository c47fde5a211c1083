// Package clock keeps an approximate copy of the node's wall clock for display.
package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is how often the node time is fetched when Start is given
// a non-positive interval.
const DefaultInterval = 60 * time.Second

// Sample pairs the node time with the local time the fetch was issued at.
type Sample struct {
	ServerTime time.Time `json:"server_time"`
	LocalTime  time.Time `json:"local_time"`
}

// Remote refreshes a Sample from a TimeSource on a fixed interval. Each tick
// starts its own fetch, so a slow fetch never delays the next tick.
type Remote struct {
	src TimeSource
	clk Clock
	lg  zerolog.Logger

	seq atomic.Uint64

	mu        sync.Mutex
	sample    Sample
	sampleSeq uint64
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewRemote builds a Remote. A nil clk uses the real clock.
func NewRemote(src TimeSource, clk Clock, lg zerolog.Logger) *Remote {
	if clk == nil {
		clk = Real()
	}
	return &Remote{
		src: src,
		clk: clk,
		lg:  lg.With().Str("component", "clock").Logger(),
	}
}

// Start fetches immediately and then once per interval until Stop.
// Calling Start on a running Remote does nothing.
func (r *Remote) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true

	t := r.clk.Ticker(interval)
	r.wg.Add(1)
	go r.loop(ctx, t)

	r.lg.Info().Dur("interval", interval).Msg("clock refresh started")
}

// Stop cancels the refresh and waits for outstanding fetches to return.
// It is safe to call more than once and before Start.
func (r *Remote) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
	r.lg.Info().Msg("clock refresh stopped")
}

// CurrentSample returns the latest sample; ok is false until a fetch succeeded.
func (r *Remote) CurrentSample() (Sample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sample, r.sampleSeq > 0
}

func (r *Remote) loop(ctx context.Context, t Ticker) {
	defer r.wg.Done()
	defer t.Stop()

	r.spawn(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			r.spawn(ctx)
		}
	}
}

func (r *Remote) spawn(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.fetch(ctx)
	}()
}

func (r *Remote) fetch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	seq := r.seq.Add(1)
	local := r.clk.Now()

	server, err := r.src.FetchTime(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.lg.Warn().Err(err).Msg("node time fetch failed")
		}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// a stopped clock or a newer sample wins over this one
	if ctx.Err() != nil || seq < r.sampleSeq {
		return
	}
	r.sample = Sample{ServerTime: server, LocalTime: local}
	r.sampleSeq = seq
}
