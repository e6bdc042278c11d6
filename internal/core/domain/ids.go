package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SynthesizeLocalID derives a deterministic source-local identifier from
// stable record fields. Parsers use it when an export carries no native
// id, so re-running the same import yields the same value and callers
// can still de-duplicate.
func SynthesizeLocalID(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:16])
}
