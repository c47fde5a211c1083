package clock

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countingSource struct {
	calls atomic.Int32
	at    time.Time
}

func (s *countingSource) FetchTime(context.Context) (time.Time, error) {
	s.calls.Add(1)
	return s.at, nil
}

func TestRemoteFetchesImmediatelyAndOnTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clk := NewMockClock(ctrl)
	ticker := NewMockTicker(ctrl)
	src := NewMockTimeSource(ctrl)

	tick := make(chan time.Time)
	local := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)

	clk.EXPECT().Ticker(time.Minute).Return(ticker)
	clk.EXPECT().Now().Return(local).AnyTimes()
	ticker.EXPECT().Chan().Return((<-chan time.Time)(tick)).AnyTimes()
	ticker.EXPECT().Stop().Times(1)

	fetched := make(chan struct{}, 4)
	gomock.InOrder(
		src.EXPECT().FetchTime(gomock.Any()).DoAndReturn(func(context.Context) (time.Time, error) {
			defer func() { fetched <- struct{}{} }()
			return first, nil
		}),
		src.EXPECT().FetchTime(gomock.Any()).DoAndReturn(func(context.Context) (time.Time, error) {
			defer func() { fetched <- struct{}{} }()
			return second, nil
		}),
	)

	r := NewRemote(src, clk, zerolog.Nop())
	_, ok := r.CurrentSample()
	assert.False(t, ok)

	r.Start(time.Minute)
	<-fetched
	require.Eventually(t, func() bool {
		s, ok := r.CurrentSample()
		return ok && s.ServerTime.Equal(first)
	}, time.Second, 5*time.Millisecond)

	tick <- time.Now()
	<-fetched
	require.Eventually(t, func() bool {
		s, _ := r.CurrentSample()
		return s.ServerTime.Equal(second)
	}, time.Second, 5*time.Millisecond)

	r.Stop()

	select {
	case tick <- time.Now():
		t.Fatal("tick consumed after Stop")
	default:
	}

	s, ok := r.CurrentSample()
	require.True(t, ok)
	assert.Equal(t, local, s.LocalTime)
}

func TestRemoteFetchFailureKeepsPreviousSample(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clk := NewMockClock(ctrl)
	ticker := NewMockTicker(ctrl)
	src := NewMockTimeSource(ctrl)

	tick := make(chan time.Time)
	good := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)

	clk.EXPECT().Ticker(DefaultInterval).Return(ticker)
	clk.EXPECT().Now().Return(time.Now()).AnyTimes()
	ticker.EXPECT().Chan().Return((<-chan time.Time)(tick)).AnyTimes()
	ticker.EXPECT().Stop()

	fetched := make(chan struct{}, 4)
	gomock.InOrder(
		src.EXPECT().FetchTime(gomock.Any()).DoAndReturn(func(context.Context) (time.Time, error) {
			defer func() { fetched <- struct{}{} }()
			return good, nil
		}),
		src.EXPECT().FetchTime(gomock.Any()).DoAndReturn(func(context.Context) (time.Time, error) {
			defer func() { fetched <- struct{}{} }()
			return time.Time{}, errors.New("node unreachable")
		}),
	)

	r := NewRemote(src, clk, zerolog.Nop())
	r.Start(0)
	<-fetched
	require.Eventually(t, func() bool {
		_, ok := r.CurrentSample()
		return ok
	}, time.Second, 5*time.Millisecond)

	tick <- time.Now()
	<-fetched
	r.Stop()

	s, ok := r.CurrentSample()
	require.True(t, ok)
	assert.True(t, s.ServerTime.Equal(good))
}

func TestRemoteStopIsIdempotent(t *testing.T) {
	r := NewRemote(&countingSource{}, nil, zerolog.Nop())
	r.Stop()
	r.Stop()

	r.Start(time.Hour)
	r.Stop()
	r.Stop()
}

func TestRemoteNoFetchAfterStop(t *testing.T) {
	src := &countingSource{at: time.Now()}
	r := NewRemote(src, nil, zerolog.Nop())

	r.Start(10 * time.Millisecond)
	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, time.Millisecond)
	r.Stop()

	n := src.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, src.calls.Load())
}

func TestRemoteStartTwiceKeepsOneLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clk := NewMockClock(ctrl)
	ticker := NewMockTicker(ctrl)

	clk.EXPECT().Ticker(time.Minute).Return(ticker).Times(1)
	clk.EXPECT().Now().Return(time.Now()).AnyTimes()
	ticker.EXPECT().Chan().Return((<-chan time.Time)(make(chan time.Time))).AnyTimes()
	ticker.EXPECT().Stop().Times(1)

	src := &countingSource{at: time.Now()}
	r := NewRemote(src, clk, zerolog.Nop())
	r.Start(time.Minute)
	r.Start(time.Minute)
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestRemoteFetchSkipsStoppedContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// neither mock expects a call: the controller fails the test on any
	clk := NewMockClock(ctrl)
	src := NewMockTimeSource(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRemote(src, clk, zerolog.Nop())
	r.fetch(ctx)

	_, ok := r.CurrentSample()
	assert.False(t, ok)
	assert.Zero(t, r.seq.Load())
}
