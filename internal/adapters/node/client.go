// Package node talks to the ethoscope node's REST API.
package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ethonode/internal/core/devices"

	"github.com/rs/zerolog"
)

// Client implements devices.Backend and clock.TimeSource over HTTP.
type Client struct {
	base *url.URL
	hc   *http.Client
	lg   zerolog.Logger
}

func New(baseURL string, timeout time.Duration, lg zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("node url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("node url %q: scheme and host required", baseURL)
	}
	return &Client{
		base: u,
		hc:   &http.Client{Timeout: timeout},
		lg:   lg.With().Str("adapter", "node").Str("node", u.Host).Logger(),
	}, nil
}

type versionDoc struct {
	ID string `json:"id"`
}

type deviceDoc struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Status         string      `json:"status"`
	Version        *versionDoc `json:"version"`
	IP             string      `json:"ip"`
	TimeSinceStart *float64    `json:"time_since_start"`
	ElapsedSeconds *float64    `json:"elapsed_seconds"` // older nodes
}

func (d deviceDoc) toDevice() devices.Device {
	out := devices.Device{
		ID:     d.ID,
		Name:   d.Name,
		Status: d.Status,
		IP:     d.IP,
	}
	if d.Version != nil {
		out.VersionID = d.Version.ID
	}
	secs := d.TimeSinceStart
	if secs == nil {
		secs = d.ElapsedSeconds
	}
	if secs != nil && *secs >= 0 {
		v := int64(math.Floor(*secs))
		out.ElapsedSeconds = &v
	}
	return out
}

// FetchTime reads GET /node/time. The node reports either unix seconds or an
// RFC 3339 string.
func (c *Client) FetchTime(ctx context.Context) (time.Time, error) {
	var doc struct {
		Time json.RawMessage `json:"time"`
	}
	if err := c.do(ctx, http.MethodGet, "/node/time", nil, &doc); err != nil {
		return time.Time{}, err
	}
	return parseTime(doc.Time)
}

// FetchDeviceList reads GET /devices, which is either an object keyed by
// device id or a plain array.
func (c *Client) FetchDeviceList(ctx context.Context) ([]devices.Device, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/devices", nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	var docs []deviceDoc
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, fmt.Errorf("%w: decode device list: %w", devices.ErrTransport, err)
		}
	} else {
		byID := map[string]deviceDoc{}
		if err := json.Unmarshal(raw, &byID); err != nil {
			return nil, fmt.Errorf("%w: decode device list: %w", devices.ErrTransport, err)
		}
		for id, d := range byID {
			if d.ID == "" {
				d.ID = id
			}
			docs = append(docs, d)
		}
	}

	out := make([]devices.Device, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDevice())
	}
	return out, nil
}

// FetchDeviceDetail reads GET /device/{id}/data.
func (c *Client) FetchDeviceDetail(ctx context.Context, id string) (devices.Device, error) {
	var doc deviceDoc
	if err := c.do(ctx, http.MethodGet, devicePath(id, "data"), nil, &doc); err != nil {
		return devices.Device{}, err
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return doc.toDevice(), nil
}

// FetchDeviceIP reads GET /device/{id}/ip, a bare JSON string or {"ip": ...}.
func (c *Client) FetchDeviceIP(ctx context.Context, id string) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, devicePath(id, "ip"), nil, &raw); err != nil {
		return "", err
	}
	var ip string
	if err := json.Unmarshal(raw, &ip); err == nil {
		return ip, nil
	}
	var doc struct {
		IP string `json:"ip"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: decode ip: %w", devices.ErrTransport, err)
	}
	return doc.IP, nil
}

// SendStartCommand posts options unchanged to /device/{id}/controls/start.
func (c *Client) SendStartCommand(ctx context.Context, id string, options json.RawMessage) (string, error) {
	if len(options) == 0 {
		options = json.RawMessage(`{}`)
	}
	var doc struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, devicePath(id, "controls", "start"), options, &doc); err != nil {
		return "", err
	}
	if doc.Error != "" {
		return "", fmt.Errorf("%w: %s", devices.ErrRejected, doc.Error)
	}
	return doc.Status, nil
}

func devicePath(id string, parts ...string) string {
	return "/device/" + url.PathEscape(id) + "/" + strings.Join(parts, "/")
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", devices.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp, path); err != nil {
		c.lg.Debug().Err(err).Str("method", method).Str("path", path).Msg("node request failed")
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", devices.ErrTransport, path, err)
	}
	return nil
}

func statusError(resp *http.Response, path string) error {
	if resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(msg))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", devices.ErrNotFound, path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s: %s %s", devices.ErrTransport, path, resp.Status, detail)
	default:
		return fmt.Errorf("%w: %s: %s %s", devices.ErrRejected, path, resp.Status, detail)
	}
}

var errNoTime = errors.New("node time missing")

func parseTime(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, errNoTime
	}

	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil {
		return unixFloat(secs), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("node time %s: %w", raw, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return unixFloat(f), nil
	}
	return time.Time{}, fmt.Errorf("node time %q: unrecognised format", s)
}

func unixFloat(secs float64) time.Time {
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
