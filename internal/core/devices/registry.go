package devices

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ethonode/internal/core/clock"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const scanKey = "discover"

// Registry is the in-memory view of every ethoscope the node has reported.
// Records are never dropped: a device missing from a later scan is kept and
// marked unreachable until a scan reports it again.
type Registry struct {
	backend Backend
	sinks   []Sink
	lg      zerolog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	devices map[string]*Device

	scans    singleflight.Group
	scanning atomic.Bool
	waiting  atomic.Int32 // callers blocked on a scan result
}

func NewRegistry(backend Backend, lg zerolog.Logger, sinks ...Sink) *Registry {
	return &Registry{
		backend: backend,
		sinks:   sinks,
		lg:      lg.With().Str("component", "registry").Logger(),
		now:     func() time.Time { return time.Now().UTC() },
		devices: make(map[string]*Device),
	}
}

// Discover rescans the node and upserts every reported device. Callers that
// arrive while a scan is running wait for that scan instead of starting one.
// The scan itself is detached from ctx; ctx only bounds how long this caller waits.
func (r *Registry) Discover(ctx context.Context) ([]Device, error) {
	scanCtx := context.WithoutCancel(ctx)
	ch := r.scans.DoChan(scanKey, func() (any, error) {
		r.scanning.Store(true)
		defer r.scanning.Store(false)
		return r.discover(scanCtx)
	})
	r.waiting.Add(1)
	defer r.waiting.Add(-1)

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		found := res.Val.([]Device)
		out := make([]Device, len(found))
		for i, d := range found {
			out[i] = d.clone()
		}
		return out, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registry) discover(ctx context.Context) ([]Device, error) {
	list, err := r.backend.FetchDeviceList(ctx)
	if err != nil {
		r.lg.Warn().Err(err).Msg("device scan failed")
		return nil, classify(err)
	}

	now := r.now()
	seen := make(map[string]struct{}, len(list))
	changed := make([]Device, 0, len(list))

	r.mu.Lock()
	for _, d := range list {
		if d.ID == "" {
			continue
		}
		seen[d.ID] = struct{}{}
		rec, ok := r.devices[d.ID]
		if !ok {
			rec = &Device{ID: d.ID}
			r.devices[d.ID] = rec
		}
		dirty := rec.merge(d)
		if !rec.Reachable {
			rec.Reachable = true
			dirty = true
		}
		if dirty || !ok {
			rec.UpdatedAt = now
			changed = append(changed, rec.clone())
		}
	}
	for id, rec := range r.devices {
		if _, ok := seen[id]; ok || !rec.Reachable {
			continue
		}
		rec.Reachable = false
		rec.UpdatedAt = now
		changed = append(changed, rec.clone())
	}
	found := make([]Device, 0, len(seen))
	for id := range seen {
		found = append(found, r.devices[id].clone())
	}
	r.mu.Unlock()

	r.lg.Info().Int("found", len(found)).Int("changed", len(changed)).Msg("device scan complete")
	r.notify(ctx, changed)
	return found, nil
}

// Scanning reports whether a discovery scan is in flight.
func (r *Registry) Scanning() bool { return r.scanning.Load() }

// RefreshOne fetches the detail of a known device and updates its record.
func (r *Registry) RefreshOne(ctx context.Context, id string) (Device, error) {
	rec, _, err := r.refresh(ctx, id)
	return rec, err
}

// refresh is RefreshOne that also hands back the detail exactly as the node
// reported it, before it was merged over the cached record.
func (r *Registry) refresh(ctx context.Context, id string) (rec, live Device, err error) {
	if _, ok := r.Get(id); !ok {
		return Device{}, Device{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	live, err = r.backend.FetchDeviceDetail(ctx, id)
	if err != nil {
		r.lg.Debug().Err(err).Str("device", id).Msg("refresh failed")
		return Device{}, Device{}, classify(err)
	}
	live.ID = id
	rec, err = r.update(ctx, id, func(cur *Device) bool {
		dirty := cur.merge(live)
		if !cur.Reachable {
			cur.Reachable = true
			dirty = true
		}
		return dirty
	})
	return rec, live.clone(), err
}

// RefreshIP fetches the network address of a known device.
func (r *Registry) RefreshIP(ctx context.Context, id string) (Device, error) {
	if _, ok := r.Get(id); !ok {
		return Device{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	ip, err := r.backend.FetchDeviceIP(ctx, id)
	if err != nil {
		r.lg.Debug().Err(err).Str("device", id).Msg("ip lookup failed")
		return Device{}, classify(err)
	}
	return r.update(ctx, id, func(rec *Device) bool {
		return rec.merge(Device{IP: ip})
	})
}

// ApplyStatus records the status a device returned in a command response.
func (r *Registry) ApplyStatus(ctx context.Context, id, status string) (Device, error) {
	return r.update(ctx, id, func(rec *Device) bool {
		return rec.merge(Device{Status: status})
	})
}

// Hydrate seeds the registry with previously stored records. They start out
// unreachable and existing entries are left alone.
func (r *Registry) Hydrate(stored []Device) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, d := range stored {
		if d.ID == "" {
			continue
		}
		if _, ok := r.devices[d.ID]; ok {
			continue
		}
		rec := d.clone()
		rec.Reachable = false
		r.devices[d.ID] = &rec
		n++
	}
	return n
}

func (r *Registry) Get(id string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.devices[id]
	if !ok {
		return Device{}, false
	}
	return rec.clone(), true
}

// All returns a snapshot of every record in no particular order.
func (r *Registry) All() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Device, 0, len(r.devices))
	for _, rec := range r.devices {
		out = append(out, rec.clone())
	}
	return out
}

// Poll runs a discovery scan on every tick of t until ctx is done, then
// stops t.
func (r *Registry) Poll(ctx context.Context, t clock.Ticker) {
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			if _, err := r.Discover(ctx); err != nil && ctx.Err() == nil {
				r.lg.Warn().Err(err).Msg("periodic scan")
			}
		}
	}
}

func (r *Registry) update(ctx context.Context, id string, apply func(*Device) bool) (Device, error) {
	r.mu.Lock()
	rec, ok := r.devices[id]
	if !ok {
		r.mu.Unlock()
		return Device{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	dirty := apply(rec)
	if dirty {
		rec.UpdatedAt = r.now()
	}
	snap := rec.clone()
	r.mu.Unlock()

	if dirty {
		r.notify(ctx, []Device{snap})
	}
	return snap, nil
}

func (r *Registry) notify(ctx context.Context, changed []Device) {
	for _, s := range r.sinks {
		for _, d := range changed {
			if err := s.PutDevice(ctx, d); err != nil {
				r.lg.Warn().Err(err).Str("device", d.ID).Msg("sink update")
			}
		}
	}
}
