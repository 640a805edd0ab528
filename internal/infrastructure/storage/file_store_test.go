package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("fake image bytes"), "封面.JPG")
	require.NoError(t, err)

	// UUID文件名+小写扩展名,不含原始文件名
	assert.True(t, strings.HasSuffix(path, ".jpg"))
	assert.NotContains(t, path, "封面")

	data, err := os.ReadFile(store.FullPath(path))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	assert.NoError(t, store.Remove(path))
	_, err = os.Stat(store.FullPath(path))
	assert.True(t, os.IsNotExist(err))

	// 重复删除幂等
	assert.NoError(t, store.Remove(path))
	assert.NoError(t, store.Remove(""))
}

func TestFileStore_RemoveIgnoresDirectoryEscape(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "images"))
	require.NoError(t, err)

	outside := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

	// 路径穿越被压平到baseDir内,外部文件不受影响
	assert.NoError(t, store.Remove("../secret.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
