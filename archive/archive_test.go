package archive

import (
	"errors"
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/qf"
)

func openMem(t *testing.T) *Store {
	store, err := Open("db", WithFS(vfs.NewMem()))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func runProgram(t *testing.T, code string) (*qf.Config, *qf.Result) {
	cfg := qf.NewConfig()
	cfg.NumQubits = 3
	cfg.Seed = 17

	vm, err := qf.NewVM(cfg)
	require.NoError(t, err)

	result, err := vm.Parse(code)
	require.NoError(t, err)

	return cfg, result
}

func TestPutGet(t *testing.T) {
	store := openMem(t)
	cfg, result := runProgram(t, "+@2>~")

	id, err := store.Put(FromResult(cfg, result))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "+@2>~", rec.Code)
	assert.Equal(t, uint64(17), rec.Seed)

	restored, err := rec.Result()
	require.NoError(t, err)
	assert.Equal(t, result.State, restored.State)
	assert.Equal(t, result.StateHistory, restored.StateHistory)
	assert.Equal(t, result.CommandHistory, restored.CommandHistory)
	assert.Equal(t, result.Circuit.Ops(), restored.Circuit.Ops())
	assert.Equal(t, result.Pointer, restored.Pointer)
}

func TestList(t *testing.T) {
	store := openMem(t)

	var ids []string
	for _, code := range []string{"+", "++", "~>"} {
		cfg, result := runProgram(t, code)
		id, err := store.Put(FromResult(cfg, result))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	listed, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, ids, listed)

	// storing an existing record again does not duplicate it
	rec, err := store.Get(ids[1])
	require.NoError(t, err)
	_, err = store.Put(rec)
	require.NoError(t, err)

	listed, err = store.List()
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestDelete(t *testing.T) {
	store := openMem(t)
	cfg, result := runProgram(t, "+")

	id, err := store.Put(FromResult(cfg, result))
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))

	_, err = store.Get(id)
	assert.True(t, errors.Is(err, ErrNotFound))

	listed, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.True(t, errors.Is(store.Delete(id), ErrNotFound))
}

func TestGetMissing(t *testing.T) {
	store := openMem(t)

	_, err := store.Get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	listed, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestPutResolvedSeed(t *testing.T) {
	store := openMem(t)

	cfg := qf.NewConfig()
	cfg.NumQubits = 2

	vm, err := qf.NewVM(cfg)
	require.NoError(t, err)

	result, err := vm.Parse("?;:")
	require.NoError(t, err)
	require.NotZero(t, result.Seed)

	id, err := store.Put(FromResult(cfg, result))
	require.NoError(t, err)

	rec, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, result.Seed, rec.Seed)

	restored, err := rec.Result()
	require.NoError(t, err)
	assert.Equal(t, result.Seed, restored.Seed)
}
