package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(KeyToken, []byte("tok-123")))
	v, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-123"), v)
}

func TestGet_Missing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(KeyUser, []byte(`{"id":1}`)))
	require.NoError(t, s.Delete(KeyUser))
	_, err := s.Get(KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_MissingIsNoop(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Delete("nope"))
}

func TestReopen_KeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(KeyCart, []byte("[]")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(KeyCart)
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}
