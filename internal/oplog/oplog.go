// Package oplog records editor operations as a JSONL stream: loads, saves,
// renames, and each step of a multi-file capability move. The journal makes
// non-transactional operations auditable after the fact — a partially
// completed move can be reconstructed from its step events.
package oplog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds.
const (
	KindLoad             = "load"
	KindSave             = "save"
	KindRename           = "rename"
	KindMoveStep         = "move_step"
	KindMoveDone         = "move_done"
	KindValidationFailed = "validation_failed"
)

// Event is a single journal record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path,omitempty"`
	Workspace string    `json:"workspace,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Journal appends events to a JSONL file. It is safe for concurrent use.
// A nil *Journal is a valid no-op journal.
type Journal struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// Open creates or appends to the journal file at path.
func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("oplog: open %s: %w", path, err)
	}
	return &Journal{file: f, enc: json.NewEncoder(f)}, nil
}

// Record writes one event, stamping the time if unset. Calling Record on a
// nil Journal is a no-op.
func (j *Journal) Record(evt Event) error {
	if j == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(evt); err != nil {
		return fmt.Errorf("oplog: encode event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Journal is a no-op.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("oplog: close: %w", err)
	}
	return nil
}
