package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapazlabs/centavo/internal/common"
)

type fakeState struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	in := fakeState{Name: "test", Values: []float64{1.5, -2.25}}

	require.NoError(t, Save(path, "classifier", true, &in))

	var out fakeState
	trained, err := Load(path, "classifier", &out)
	require.NoError(t, err)
	assert.True(t, trained)
	assert.Equal(t, in, out)
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "model.json")
	require.NoError(t, Save(path, "forecaster", false, &fakeState{}))

	var out fakeState
	trained, err := Load(path, "forecaster", &out)
	require.NoError(t, err)
	assert.False(t, trained)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, Save(path, "patterns", true, &fakeState{Name: "first"}))
	require.NoError(t, Save(path, "patterns", true, &fakeState{Name: "second"}))

	var out fakeState
	_, err := Load(path, "patterns", &out)
	require.NoError(t, err)
	assert.Equal(t, "second", out.Name)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadMissingFile(t *testing.T) {
	var out fakeState
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), "classifier", &out)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	var out fakeState
	_, err := Load(path, "classifier", &out)
	assert.ErrorIs(t, err, common.ErrPersistence)
}

func TestLoadVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	env := map[string]any{
		"schema_version": SchemaVersion + 1,
		"kind":           "classifier",
		"trained":        true,
		"state":          json.RawMessage(`{}`),
	}
	data, err := json.Marshal(env)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	var out fakeState
	_, err = Load(path, "classifier", &out)
	assert.ErrorIs(t, err, common.ErrVersionMismatch)
}

func TestLoadKindMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, Save(path, "forecaster", true, &fakeState{}))

	var out fakeState
	_, err := Load(path, "classifier", &out)
	assert.ErrorIs(t, err, common.ErrVersionMismatch)
}
