// Package hashutil provides the content fingerprint used by Stat and by
// conflict detection. Collision resistance for ordinary source text is all
// that's required (spec.md §4.2), so a fast non-cryptographic hash is used
// rather than a cryptographic digest.
package hashutil

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Digest returns the stable hex-encoded fingerprint of text's UTF-8 bytes.
func Digest(text string) string {
	sum := xxhash.Sum64String(text)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(buf[:])
}
