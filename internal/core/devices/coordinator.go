package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"ethonode/pkg/rand"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Coordinator applies one command to a group of selected devices.
// Each device is handled independently: a failure on one never stops or
// rolls back the others.
type Coordinator struct {
	reg *Registry
	cmd Commander
	pub OutcomePublisher
	lg  zerolog.Logger

	mu         sync.Mutex
	dispatchID string
	last       []ActionOutcome

	inflight atomic.Int32
}

// NewCoordinator wires a coordinator to the registry. pub may be nil.
func NewCoordinator(reg *Registry, cmd Commander, pub OutcomePublisher, lg zerolog.Logger) *Coordinator {
	return &Coordinator{
		reg: reg,
		cmd: cmd,
		pub: pub,
		lg:  lg.With().Str("component", "coordinator").Logger(),
	}
}

// StartGroup validates the selection and starts tracking on every device in it.
// Nothing is dispatched when the selection is empty or the versions differ.
func (c *Coordinator) StartGroup(ctx context.Context, selection []string, options json.RawMessage) ([]ActionOutcome, error) {
	selection = dedupe(selection)
	if len(selection) == 0 {
		return nil, ErrEmptySelection
	}
	if err := c.CheckVersionCompatible(ctx, selection); err != nil {
		return nil, err
	}
	return c.DispatchStart(ctx, selection, options), nil
}

// CheckVersionCompatible fetches every selected device live and compares its
// version with the first one. Only the freshly fetched version counts: a
// device reporting no version does not match one that reports a version,
// whatever was cached for it. It stops at the first mismatch and only says
// whether the group is compatible, not which devices differ. An empty
// selection is trivially compatible.
func (c *Coordinator) CheckVersionCompatible(ctx context.Context, selection []string) error {
	var want string
	for i, id := range selection {
		_, live, err := c.reg.refresh(ctx, id)
		if err != nil {
			return fmt.Errorf("version check %s: %w", id, err)
		}
		if i == 0 {
			want = live.VersionID
			continue
		}
		if live.VersionID != want {
			c.lg.Info().Int("checked", i+1).Int("selected", len(selection)).Msg("version mismatch")
			return ErrVersionMismatch
		}
	}
	return nil
}

// DispatchStart sends the start command to every device without waiting on
// siblings and returns one outcome per device, in selection order, once all
// of them settled. Sent commands are not cancelled when ctx is.
func (c *Coordinator) DispatchStart(ctx context.Context, selection []string, options json.RawMessage) []ActionOutcome {
	ctx = context.WithoutCancel(ctx)
	id := rand.ID16()

	c.mu.Lock()
	c.dispatchID = id
	c.last = make([]ActionOutcome, 0, len(selection))
	c.mu.Unlock()

	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	lg := c.lg.With().Str("dispatch", id).Logger()
	lg.Info().Strs("devices", selection).Msg("dispatching start")

	outcomes := make([]ActionOutcome, len(selection))
	var g errgroup.Group
	for i, dev := range selection {
		g.Go(func() error {
			o := c.startOne(ctx, dev, options, lg)
			outcomes[i] = o
			c.record(id, o)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.Succeeded {
			failed++
		}
	}
	lg.Info().Int("devices", len(outcomes)).Int("failed", failed).Msg("dispatch settled")

	if c.pub != nil {
		if err := c.pub.PublishOutcomes(ctx, id, outcomes); err != nil {
			lg.Warn().Err(err).Msg("publish outcomes")
		}
	}
	return outcomes
}

func (c *Coordinator) startOne(ctx context.Context, id string, options json.RawMessage, lg zerolog.Logger) ActionOutcome {
	status, err := c.cmd.SendStartCommand(ctx, id, options)
	if err != nil {
		err = classify(err)
		lg.Warn().Err(err).Str("device", id).Msg("start failed")
		return ActionOutcome{DeviceID: id, Reason: err.Error(), Err: err}
	}

	if _, err := c.reg.ApplyStatus(ctx, id, status); err != nil {
		lg.Warn().Err(err).Str("device", id).Msg("apply status")
	}

	// detail and address are refreshed independently of each other
	var follow sync.WaitGroup
	follow.Add(2)
	go func() {
		defer follow.Done()
		if _, err := c.reg.RefreshOne(ctx, id); err != nil {
			lg.Debug().Err(err).Str("device", id).Msg("post-start refresh")
		}
	}()
	go func() {
		defer follow.Done()
		if _, err := c.reg.RefreshIP(ctx, id); err != nil {
			lg.Debug().Err(err).Str("device", id).Msg("post-start ip lookup")
		}
	}()
	follow.Wait()

	return ActionOutcome{DeviceID: id, Succeeded: true, NewStatus: status}
}

func (c *Coordinator) record(dispatchID string, o ActionOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dispatchID != dispatchID {
		return
	}
	c.last = append(c.last, o)
}

// LastOutcomes returns the outcomes of the most recent dispatch settled so far.
func (c *Coordinator) LastOutcomes() (string, []ActionOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ActionOutcome, len(c.last))
	copy(out, c.last)
	return c.dispatchID, out
}

// Dispatching reports whether any group dispatch is still running.
func (c *Coordinator) Dispatching() bool { return c.inflight.Load() > 0 }

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
