package store

import (
	"bytes"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the cross-run cache persisted to disk between CLI
// invocations: a content-hash ledger recording, per file path, the hash
// of the last version of that file that checked clean. `permcheck
// compile --cache` consults it to skip re-checking a file whose bytes
// have not changed since a diagnostic-free run — safe because a clean
// file has no diagnostics to replay. The in-memory Query caches are not
// serialized; within one process, Session-level memoization covers
// incremental re-checks.
type Snapshot struct {
	FileHash map[string][]byte `msgpack:"file_hash"`
}

// SetClean records that the file at path checked clean with content hash h.
func (s *Snapshot) SetClean(path string, h []byte) {
	if s.FileHash == nil {
		s.FileHash = make(map[string][]byte)
	}
	s.FileHash[path] = h
}

// IsClean reports whether path's last clean check had content hash h.
func (s Snapshot) IsClean(path string, h []byte) bool {
	prev, ok := s.FileHash[path]
	return ok && bytes.Equal(prev, h)
}

// SaveSnapshot writes snap to path in msgpack form.
func SaveSnapshot(path string, snap Snapshot) error {
	b, err := msgpack.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// LoadSnapshot reads a snapshot previously written by SaveSnapshot. A
// missing file is not an error: it just means there is nothing to reuse yet.
func LoadSnapshot(path string) (Snapshot, bool, error) {
	b, err := os.ReadFile(path) // #nosec G304 -- path is CLI-controlled
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}
