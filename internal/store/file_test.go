package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs, err := NewFileStore(root)
	require.NoError(t, err)
	require.NoError(t, fs.Ping(ctx))

	require.NoError(t, fs.Put(ctx, Object{Container: DefaultContainer, Key: DefaultKey, Data: []byte(`[{"id":1},{"id":2}]`)}))
	require.NoError(t, fs.Put(ctx, Object{Container: DefaultContainer, Key: DefaultKey, Data: []byte(`[]`)}))

	got, err := fs.Get(ctx, DefaultContainer, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	entries, err := os.ReadDir(filepath.Join(root, DefaultContainer))
	require.NoError(t, err)
	require.Len(t, entries, 1, "pending files must not be left behind")
	assert.Equal(t, DefaultKey, entries[0].Name())
}

func TestFileStoreGetMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get(context.Background(), DefaultContainer, DefaultKey)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = fs.Put(context.Background(), Object{Container: "..", Key: "../../etc/passwd", Data: []byte("x")})
	require.Error(t, err)
}

func TestFileStoreRequiresRoot(t *testing.T) {
	_, err := NewFileStore(" ")
	require.Error(t, err)
}
