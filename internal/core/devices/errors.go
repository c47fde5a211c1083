package devices

import (
	"errors"
	"fmt"
)

var (
	ErrTransport       = errors.New("transport failure")
	ErrNotFound        = errors.New("device not found")
	ErrRejected        = errors.New("device rejected command")
	ErrVersionMismatch = errors.New("selected devices run different software versions")
	ErrEmptySelection  = errors.New("no devices selected")
)

// classify maps a backend error onto the package taxonomy. Anything the
// backend did not already classify is a transport failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrRejected) || errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
