package devices

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type capturePublisher struct {
	mu       sync.Mutex
	id       string
	outcomes []ActionOutcome
}

func (p *capturePublisher) PublishOutcomes(_ context.Context, id string, outcomes []ActionOutcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = id
	p.outcomes = outcomes
	return nil
}

func newCoordinator(t *testing.T, seed ...Device) (*MockBackend, *Registry, *Coordinator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	reg := NewRegistry(backend, zerolog.Nop())
	reg.Hydrate(seed)
	return backend, reg, NewCoordinator(reg, backend, nil, zerolog.Nop())
}

func TestCheckVersionCompatibleShortCircuits(t *testing.T) {
	backend, _, coord := newCoordinator(t,
		Device{ID: "d1"}, Device{ID: "d2"}, Device{ID: "d3"}, Device{ID: "d4"})

	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d1").Return(Device{VersionID: "A"}, nil)
	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d2").Return(Device{VersionID: "A"}, nil)
	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d3").Return(Device{VersionID: "B"}, nil)
	// d4 must not be fetched: the controller fails on any unexpected call

	err := coord.CheckVersionCompatible(context.Background(), []string{"d1", "d2", "d3", "d4"})
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestCheckVersionCompatibleFetchesAll(t *testing.T) {
	backend, reg, coord := newCoordinator(t, Device{ID: "d1"}, Device{ID: "d2"}, Device{ID: "d3"})

	for _, id := range []string{"d1", "d2", "d3"} {
		backend.EXPECT().FetchDeviceDetail(gomock.Any(), id).Return(Device{VersionID: "A"}, nil).Times(1)
	}

	require.NoError(t, coord.CheckVersionCompatible(context.Background(), []string{"d1", "d2", "d3"}))

	d, _ := reg.Get("d3")
	assert.Equal(t, "A", d.VersionID)
}

func TestCheckVersionCompatibleIgnoresCachedVersion(t *testing.T) {
	backend, reg, coord := newCoordinator(t,
		Device{ID: "d1", VersionID: "A"}, Device{ID: "d2", VersionID: "A"})

	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d1").Return(Device{VersionID: "A"}, nil)
	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d2").Return(Device{Status: "idle"}, nil)

	err := coord.CheckVersionCompatible(context.Background(), []string{"d1", "d2"})
	require.ErrorIs(t, err, ErrVersionMismatch)

	// the cached version is still kept on the record itself
	d, _ := reg.Get("d2")
	assert.Equal(t, "A", d.VersionID)
	assert.Equal(t, "idle", d.Status)
}

func TestCheckVersionCompatibleEmptySelection(t *testing.T) {
	_, _, coord := newCoordinator(t)
	assert.NoError(t, coord.CheckVersionCompatible(context.Background(), nil))
}

func TestCheckVersionCompatibleFetchFailure(t *testing.T) {
	backend, _, coord := newCoordinator(t, Device{ID: "d1"}, Device{ID: "d2"})

	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d1").Return(Device{VersionID: "A"}, nil)
	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d2").Return(Device{}, errors.New("timeout"))

	err := coord.CheckVersionCompatible(context.Background(), []string{"d1", "d2"})
	require.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrVersionMismatch)
}

func TestDispatchStartIndependentOutcomes(t *testing.T) {
	backend, reg, coord := newCoordinator(t,
		Device{ID: "d1", Status: "stopped"},
		Device{ID: "d2", Status: "stopped"},
		Device{ID: "d3", Status: "stopped"})
	pub := &capturePublisher{}
	coord.pub = pub

	opts := json.RawMessage(`{"mode":"sleep"}`)
	for _, id := range []string{"d1", "d3"} {
		backend.EXPECT().SendStartCommand(gomock.Any(), id, opts).Return("initialising", nil)
		backend.EXPECT().FetchDeviceDetail(gomock.Any(), id).Return(Device{Status: "running", VersionID: "A"}, nil)
		backend.EXPECT().FetchDeviceIP(gomock.Any(), id).Return("10.0.0."+id[1:], nil)
	}
	backend.EXPECT().SendStartCommand(gomock.Any(), "d2", opts).Return("", errors.New("connection reset"))

	outcomes := coord.DispatchStart(context.Background(), []string{"d1", "d2", "d3"}, opts)
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].Succeeded)
	assert.Equal(t, "initialising", outcomes[0].NewStatus)
	assert.False(t, outcomes[1].Succeeded)
	assert.ErrorIs(t, outcomes[1].Err, ErrTransport)
	assert.Contains(t, outcomes[1].Reason, "connection reset")
	assert.True(t, outcomes[2].Succeeded)

	d1, _ := reg.Get("d1")
	assert.Equal(t, "running", d1.Status)
	assert.Equal(t, "10.0.0.1", d1.IP)

	d2, _ := reg.Get("d2")
	assert.Equal(t, "stopped", d2.Status)
	assert.Empty(t, d2.IP)

	d3, _ := reg.Get("d3")
	assert.Equal(t, "10.0.0.3", d3.IP)

	id, last := coord.LastOutcomes()
	assert.Len(t, last, 3)
	assert.Len(t, id, 16)
	assert.Equal(t, id, pub.id)
	assert.Equal(t, outcomes, pub.outcomes)
	assert.False(t, coord.Dispatching())
}

func TestDispatchStartFollowUpFailureKeepsSuccess(t *testing.T) {
	backend, _, coord := newCoordinator(t, Device{ID: "d1"})

	backend.EXPECT().SendStartCommand(gomock.Any(), "d1", gomock.Any()).Return("running", nil)
	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d1").Return(Device{}, errors.New("timeout"))
	backend.EXPECT().FetchDeviceIP(gomock.Any(), "d1").Return("", errors.New("timeout"))

	outcomes := coord.DispatchStart(context.Background(), []string{"d1"}, nil)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded)
}

func TestStartGroupRejectsEmptySelection(t *testing.T) {
	_, _, coord := newCoordinator(t)

	outcomes, err := coord.StartGroup(context.Background(), []string{"", ""}, nil)
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Nil(t, outcomes)
}

func TestStartGroupMismatchDispatchesNothing(t *testing.T) {
	backend, _, coord := newCoordinator(t, Device{ID: "d1"}, Device{ID: "d2"})

	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d1").Return(Device{VersionID: "A"}, nil)
	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d2").Return(Device{VersionID: "B"}, nil)
	backend.EXPECT().SendStartCommand(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := coord.StartGroup(context.Background(), []string{"d1", "d2"}, nil)
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestStartGroupDedupesSelection(t *testing.T) {
	backend, _, coord := newCoordinator(t, Device{ID: "d1"})

	backend.EXPECT().FetchDeviceDetail(gomock.Any(), "d1").Return(Device{VersionID: "A"}, nil).Times(2)
	backend.EXPECT().SendStartCommand(gomock.Any(), "d1", gomock.Any()).Return("running", nil).Times(1)
	backend.EXPECT().FetchDeviceIP(gomock.Any(), "d1").Return("10.0.0.1", nil)

	outcomes, err := coord.StartGroup(context.Background(), []string{"d1", "d1"}, nil)
	require.NoError(t, err)
	assert.Len(t, outcomes, 1)
}
