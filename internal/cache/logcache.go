package cache

import (
	"github.com/Kiriweb/carbontracker/internal/dto"
)

// LogCache holds the authoritative in-memory emission-log list for the
// current viewer, newest first. It is confined to the owning goroutine; all
// mutations happen within one task turn, so no locking is needed.
//
// Consistency strategy: a successful submit prepends the created entry and
// never triggers a background re-fetch; ReplaceAll is reserved for explicit
// full refreshes. Mixing the two would duplicate rows since the cache does
// no deduplication.
type LogCache struct {
	entries []dto.EmissionLog
}

// NewLogCache constructs an empty log cache.
func NewLogCache() *LogCache {
	return &LogCache{}
}

// Prepend inserts a freshly created entry at the head.
func (c *LogCache) Prepend(entry dto.EmissionLog) {
	c.entries = append([]dto.EmissionLog{entry}, c.entries...)
}

// ReplaceAll swaps the whole list for the result of a full re-fetch.
func (c *LogCache) ReplaceAll(entries []dto.EmissionLog) {
	c.entries = append([]dto.EmissionLog(nil), entries...)
}

// Entries returns a copy of the cached list, newest first.
func (c *LogCache) Entries() []dto.EmissionLog {
	return append([]dto.EmissionLog(nil), c.entries...)
}

// Len reports the number of cached entries.
func (c *LogCache) Len() int {
	return len(c.entries)
}
