package rand

import (
	cr "crypto/rand"
	"encoding/base32"
)

var enc = base32.StdEncoding.WithPadding(base32.NoPadding)

// ID returns n random bytes as unpadded base32.
func ID(n int) string {
	b := make([]byte, n)
	_, _ = cr.Read(b)
	return enc.EncodeToString(b)
}

// ID16 is a 16 character id (10 raw bytes), used to tag group dispatches.
func ID16() string { return ID(10) }
