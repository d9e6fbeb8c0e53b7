package extract

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Deduplicator tracks content hashes seen within a single extraction call.
// One instance is shared by the embedded and rasterized sub-pipelines and
// discarded when the call ends.
type Deduplicator struct {
	seen map[string]bool
}

// NewDeduplicator returns an empty per-call hash set.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]bool)}
}

// ContentHash returns a stable digest of raw image bytes: a URL-namespaced
// UUIDv5 rendered as 32 hex characters.
func ContentHash(data []byte) string {
	u := uuid.NewSHA1(uuid.NameSpaceURL, data)
	return hex.EncodeToString(u[:])
}

// Contains reports whether a hash has already been marked.
func (d *Deduplicator) Contains(hash string) bool {
	return d.seen[hash]
}

// Mark records a hash as seen. Candidates are marked only after they are
// fully processed, so a copy that fails mid-processing does not suppress a
// later identical copy.
func (d *Deduplicator) Mark(hash string) {
	d.seen[hash] = true
}
