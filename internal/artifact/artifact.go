// Package artifact implements the on-disk bundle format shared by all
// models: a versioned JSON envelope written atomically so a concurrent
// load never observes a partially written file.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lapazlabs/centavo/internal/common"
)

// SchemaVersion is the current artifact envelope version. Load rejects
// any other version instead of guessing at the payload layout.
const SchemaVersion = 1

// envelope is the self-describing wrapper around a model's fitted state.
type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Kind          string          `json:"kind"`
	SavedAt       time.Time       `json:"saved_at"`
	Trained       bool            `json:"trained"`
	State         json.RawMessage `json:"state"`
}

// Save writes the model state to path as one atomic unit: marshal,
// write to a temporary file in the same directory, fsync, rename.
func Save(path, kind string, trained bool, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode %s state: %w", kind, err)
	}

	env := envelope{
		SchemaVersion: SchemaVersion,
		Kind:          kind,
		SavedAt:       time.Now().UTC(),
		Trained:       trained,
		State:         raw,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s artifact: %w", kind, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: failed to create artifact directory: %v", common.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary artifact: %v", common.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: failed to write artifact: %v", common.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: failed to sync artifact: %v", common.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: failed to close artifact: %v", common.ErrPersistence, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: failed to replace artifact: %v", common.ErrPersistence, err)
	}
	return nil
}

// Load reads a model state bundle from path into state. It verifies the
// envelope version and model kind before decoding the payload and returns
// the persisted trained flag.
func Load(path, kind string, state any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return false, fmt.Errorf("%w: failed to read artifact: %v", common.ErrPersistence, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("%w: corrupt artifact %s: %v", common.ErrPersistence, path, err)
	}
	if env.SchemaVersion != SchemaVersion {
		return false, fmt.Errorf("%w: artifact %s has version %d, expected %d",
			common.ErrVersionMismatch, path, env.SchemaVersion, SchemaVersion)
	}
	if env.Kind != kind {
		return false, fmt.Errorf("%w: artifact %s holds a %q model, expected %q",
			common.ErrVersionMismatch, path, env.Kind, kind)
	}

	if err := json.Unmarshal(env.State, state); err != nil {
		return false, fmt.Errorf("%w: failed to decode %s state: %v", common.ErrPersistence, kind, err)
	}
	return env.Trained, nil
}
