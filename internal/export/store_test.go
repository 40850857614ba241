package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStoreFetch(t *testing.T) {
	dir := t.TempDir()
	content := `{"id": "a", "title": "Page A", "content": {"type": "doc"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(content), 0644))

	store, err := NewDirStore(dir)
	require.NoError(t, err)

	doc, err := store.Fetch(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Page A", doc.Title)
	assert.Equal(t, "doc", doc.Content.Type)
}

func TestDirStoreMissingDocument(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	doc, err := store.Fetch(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDirStoreRejectsUnsafeID(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Fetch(context.Background(), "../escape")
	assert.Error(t, err)
}

func TestDirStoreMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))

	store, err := NewDirStore(dir)
	require.NoError(t, err)

	_, err = store.Fetch(context.Background(), "bad")
	assert.Error(t, err)
}

func TestDirStoreMissingDirectory(t *testing.T) {
	_, err := NewDirStore(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestReadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	content := `{"id": "root", "title": "Root", "content": {"type": "doc"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "root", doc.ID)
}
