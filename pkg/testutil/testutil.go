// Package testutil builds file trees for tests and checks the links
// created in them.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// FileTree represents a directory structure for testing. A string value is
// a file with that content; a FileTree value is a subdirectory.
type FileTree map[string]interface{}

// CreateFileTree creates tree under root.
func CreateFileTree(t *testing.T, root string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(root, name)

		switch v := content.(type) {
		case string:
			CreateFile(t, root, name, v)
		case FileTree:
			require.NoError(t, os.MkdirAll(fullPath, 0755))
			CreateFileTree(t, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// CreateFile creates a file with the given content in the specified directory.
// name may contain separators; missing parents are created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadFile reads the content of a file and returns it as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

// AssertSameFile checks that a and b are hard links to the same inode.
func AssertSameFile(t *testing.T, a, b string) {
	t.Helper()

	infoA, err := os.Lstat(a)
	require.NoError(t, err)
	infoB, err := os.Lstat(b)
	require.NoError(t, err)
	if !os.SameFile(infoA, infoB) {
		t.Errorf("%s and %s are not the same file", a, b)
	}
}

// AssertSymlink checks that link is a symlink whose stored text is target.
func AssertSymlink(t *testing.T, link, target string) {
	t.Helper()

	info, err := os.Lstat(link)
	require.NoError(t, err)
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("%s is not a symlink", link)
	}
	actual, err := os.Readlink(link)
	require.NoError(t, err)
	if actual != target {
		t.Errorf("Symlink %s target mismatch\nExpected: %s\nActual: %s", link, target, actual)
	}
}

// Names lists the entries of dir, sorted.
func Names(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)
	return names
}
