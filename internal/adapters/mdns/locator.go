// Package mdns finds the node on the local network when no address is configured.
package mdns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultService = "_ethoscope-node._tcp"
	Domain         = "local."
)

var ErrNotFound = errors.New("no node answered the mDNS browse")

// Locate browses for service and returns the base URL of the first answer.
func Locate(ctx context.Context, service string, timeout time.Duration, lg zerolog.Logger) (string, error) {
	if service == "" {
		service = DefaultService
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lg = lg.With().Str("adapter", "mdns").Str("service", service).Logger()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	go func() {
		if err := zeroconf.Browse(ctx, service, Domain, entries, removed); err != nil {
			lg.Warn().Err(err).Msg("browse")
		}
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", ErrNotFound
			}
			if u, ok := entryURL(entry); ok {
				lg.Info().Str("instance", entry.Instance).Str("url", u).Msg("node located")
				return u, nil
			}
		case <-removed:
		case <-ctx.Done():
			return "", fmt.Errorf("%w within %s", ErrNotFound, timeout)
		}
	}
}

// entryURL prefers IPv4, then IPv6, then the advertised host name.
func entryURL(entry *zeroconf.ServiceEntry) (string, bool) {
	if entry == nil || entry.Port <= 0 {
		return "", false
	}
	port := strconv.Itoa(entry.Port)

	var host string
	switch {
	case len(entry.AddrIPv4) > 0:
		host = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		host = entry.AddrIPv6[0].String()
	case entry.HostName != "":
		host = entry.HostName
	default:
		return "", false
	}
	return "http://" + net.JoinHostPort(host, port), true
}
