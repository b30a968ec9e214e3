package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("hello world"), 0644))

	// Stat and Lstat agree on regular files
	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())

	// Hard link shares the inode
	hard := filepath.Join(tmpDir, "hard.txt")
	require.NoError(t, fs.Link(testFile, hard))
	hardInfo, err := fs.Stat(hard)
	require.NoError(t, err)
	assert.True(t, os.SameFile(info, hardInfo))

	// Symlink is reported by Lstat and Readlink
	soft := filepath.Join(tmpDir, "soft.txt")
	require.NoError(t, fs.Symlink("test.txt", soft))
	lst, err := fs.Lstat(soft)
	require.NoError(t, err)
	assert.NotZero(t, lst.Mode()&os.ModeSymlink)
	target, err := fs.Readlink(soft)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", target)

	// Directories
	sub := filepath.Join(tmpDir, "sub", "dir")
	require.NoError(t, fs.MkdirAll(sub, 0755))
	require.NoError(t, fs.Mkdir(filepath.Join(tmpDir, "other"), 0755))
	entries, err := fs.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	// Rename and Remove
	moved := filepath.Join(tmpDir, "moved.txt")
	require.NoError(t, fs.Rename(hard, moved))
	require.NoError(t, fs.Remove(moved))
	_, err = fs.Stat(moved)
	assert.True(t, os.IsNotExist(err))
}

func TestVolumeFS(t *testing.T) {
	root := t.TempDir()
	volA := filepath.Join(root, "a")
	volB := filepath.Join(root, "b")
	require.NoError(t, os.MkdirAll(volA, 0755))
	require.NoError(t, os.MkdirAll(volB, 0755))
	src := filepath.Join(volA, "file.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	vfs := NewVolumeFS(NewOS(), volA, volB)

	t.Run("volume lookup", func(t *testing.T) {
		assert.Equal(t, volA, vfs.VolumeOf(src))
		assert.Equal(t, volB, vfs.VolumeOf(filepath.Join(volB, "x")))
		assert.Equal(t, "", vfs.VolumeOf(filepath.Join(root, "c")))
	})

	t.Run("same volume link succeeds", func(t *testing.T) {
		require.NoError(t, vfs.Link(src, filepath.Join(volA, "same.txt")))
	})

	t.Run("cross volume link fails with EXDEV", func(t *testing.T) {
		err := vfs.Link(src, filepath.Join(volB, "cross.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, syscall.EXDEV))
		_, statErr := os.Lstat(filepath.Join(volB, "cross.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("cross volume rename fails with EXDEV", func(t *testing.T) {
		err := vfs.Rename(src, filepath.Join(volB, "moved.txt"))
		assert.True(t, errors.Is(err, syscall.EXDEV))
	})

	t.Run("symlinks cross volumes", func(t *testing.T) {
		require.NoError(t, vfs.Symlink(src, filepath.Join(volB, "soft.txt")))
	})
}
