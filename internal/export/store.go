package export

import (
	"errors"
	"time"
)

// HistoryLimit caps how many export records a store retains. Adding past the
// limit evicts the oldest.
const HistoryLimit = 20

// ErrNotFound reports a record id that is not in the store.
var ErrNotFound = errors.New("export record not found")

// Record is one exported capture kept in the history log.
type Record struct {
	ID       string
	Created  time.Time
	Filename string
	Image    []byte
	// Path is empty for clipboard exports.
	Path string
}

// Store keeps the most recent export records in order.
type Store interface {
	// Add inserts rec, evicting the oldest records past HistoryLimit.
	Add(rec Record) error
	// List returns records newest first, without image payloads.
	List() ([]Record, error)
	// Get returns the full record for id, including the image payload.
	Get(id string) (Record, error)
	// Clear drops every record.
	Clear() error
	Close() error
}
