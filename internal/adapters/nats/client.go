package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ethonode/internal/core/devices"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Alias external types so callers import only our package.
type KeyValue = natsgo.KeyValue

// Client mirrors device records into a KV bucket and announces dispatch
// outcomes on <subject>.<device id>.
type Client struct {
	nc      *natsgo.Conn
	js      natsgo.JetStreamContext
	kv      KeyValue
	subject string
	lg      zerolog.Logger
}

func New(url, bucket, subject string, lg zerolog.Logger) (*Client, error) {
	nc, err := natsgo.Connect(url, natsgo.Name("ethonode"))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	c := &Client{nc: nc, js: js, subject: subject, lg: lg.With().Str("adapter", "nats").Logger()}

	kv, err := c.EnsureBucket(bucket)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("bucket %s: %w", bucket, err)
	}
	c.kv = kv
	return c, nil
}

// -------- Key-value bucket (device snapshots) --------

func (c *Client) EnsureBucket(name string) (KeyValue, error) {
	kv, err := c.js.KeyValue(name)
	if err == nil {
		return kv, nil
	}
	if err != natsgo.ErrBucketNotFound {
		return nil, err
	}
	return c.js.CreateKeyValue(&natsgo.KeyValueConfig{
		Bucket:      name,
		Description: "Ethoscope last-known records",
		History:     1,
		Replicas:    1,
	})
}

// PutDevice implements devices.Sink.
func (c *Client) PutDevice(_ context.Context, d devices.Device) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if _, err := c.kv.Put(kvKey(d.ID), b); err != nil {
		return fmt.Errorf("kv put %s: %w", d.ID, err)
	}
	return nil
}

// -------- Outcome events --------

type outcomeEvent struct {
	DispatchID string    `json:"dispatch_id"`
	DeviceID   string    `json:"device_id"`
	Succeeded  bool      `json:"succeeded"`
	NewStatus  string    `json:"new_status,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}

// PublishOutcomes implements devices.OutcomePublisher.
func (c *Client) PublishOutcomes(_ context.Context, dispatchID string, outcomes []devices.ActionOutcome) error {
	now := time.Now().UTC()
	for _, o := range outcomes {
		subj, b, err := encodeOutcome(c.subject, dispatchID, o, now)
		if err != nil {
			return err
		}
		if err := c.nc.Publish(subj, b); err != nil {
			return fmt.Errorf("publish %s: %w", subj, err)
		}
	}
	c.lg.Debug().Str("dispatch", dispatchID).Int("outcomes", len(outcomes)).Msg("outcomes published")
	return nil
}

func encodeOutcome(prefix, dispatchID string, o devices.ActionOutcome, at time.Time) (string, []byte, error) {
	b, err := json.Marshal(outcomeEvent{
		DispatchID: dispatchID,
		DeviceID:   o.DeviceID,
		Succeeded:  o.Succeeded,
		NewStatus:  o.NewStatus,
		Reason:     o.Reason,
		At:         at,
	})
	if err != nil {
		return "", nil, err
	}
	return prefix + "." + kvKey(o.DeviceID), b, nil
}

// kvKey keeps ids inside the character set NATS accepts for keys and subject tokens.
func kvKey(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}

func (c *Client) Close() { _ = c.nc.Drain() }
