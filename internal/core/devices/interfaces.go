package devices

//go:generate mockgen -destination=mock_devices.go -package=devices ethonode/internal/core/devices Backend,Sink

import (
	"context"
	"encoding/json"
)

// Backend is the node API the registry and coordinator talk to.
type Backend interface {
	FetchDeviceList(ctx context.Context) ([]Device, error)
	FetchDeviceDetail(ctx context.Context, id string) (Device, error)
	FetchDeviceIP(ctx context.Context, id string) (string, error)
	Commander
}

// Commander issues control commands to a single device.
type Commander interface {
	SendStartCommand(ctx context.Context, id string, options json.RawMessage) (string, error)
}

// Sink receives a copy of every device record the registry changes.
type Sink interface {
	PutDevice(ctx context.Context, d Device) error
}

// OutcomePublisher announces the outcomes of a finished group dispatch.
type OutcomePublisher interface {
	PublishOutcomes(ctx context.Context, dispatchID string, outcomes []ActionOutcome) error
}
