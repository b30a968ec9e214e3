package executor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/flnk/pkg/conflicts"
	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/filesystem"
	"github.com/arthur-debert/flnk/pkg/planner"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func assertSameFile(t *testing.T, a, b string) {
	t.Helper()
	ai, err := os.Lstat(a)
	require.NoError(t, err)
	bi, err := os.Lstat(b)
	require.NoError(t, err)
	assert.True(t, os.SameFile(ai, bi), "%s and %s should be the same file", a, b)
}

// assertNoLeftovers fails if dir holds temporary links or backups.
func assertNoLeftovers(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), "temporary entry left behind: %s", e.Name())
		assert.False(t, strings.HasSuffix(e.Name(), "~"), "unexpected backup: %s", e.Name())
	}
}

func hard(src, dst string) types.PlannedLink {
	return types.PlannedLink{Source: src, Destination: dst, Kind: types.KindHard}
}

func TestExecuteHardLink(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "alpha")

	out := New(filesystem.NewOS()).Execute(hard(a, b), types.Policy{})

	assert.Equal(t, types.StatusCreated, out.Status)
	assert.NoError(t, out.Err)
	assertSameFile(t, a, b)
}

func TestExecuteSymbolicLink(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.txt"), "alpha")
	x := New(filesystem.NewOS())

	t.Run("target text is verbatim", func(t *testing.T) {
		dst := filepath.Join(root, "verbatim")
		out := x.Execute(types.PlannedLink{Source: "src/a.txt", Destination: dst, Kind: types.KindSymbolic}, types.Policy{})
		require.Equal(t, types.StatusCreated, out.Status)

		text, err := os.Readlink(dst)
		require.NoError(t, err)
		assert.Equal(t, "src/a.txt", text)
	})

	t.Run("relative target text", func(t *testing.T) {
		dst := filepath.Join(root, "out", "deep", "rel")
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
		out := x.Execute(types.PlannedLink{
			Source:      filepath.Join(root, "src", "a.txt"),
			Destination: dst,
			Kind:        types.KindSymbolic,
			Relative:    true,
		}, types.Policy{})
		require.Equal(t, types.StatusCreated, out.Status)

		text, err := os.Readlink(dst)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("..", "..", "src", "a.txt"), text)
		assert.Equal(t, "alpha", readFile(t, dst))
	})
}

func TestSymbolicRelativeScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "dir", "f.txt"), "f")
	dst := filepath.Join(root, "dst", "link")

	fsys := filesystem.NewOS()
	plan, err := planner.New(fsys).Plan(types.LinkRequest{
		Sources:     []string{filepath.Join(root, "src", "dir")},
		Destination: dst,
		Mode:        types.ModeSymbolic,
		Relative:    true,
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)

	out := New(fsys).Execute(plan[0], types.Policy{})
	require.Equal(t, types.StatusCreated, out.Status)

	text, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.False(t, filepath.IsAbs(text))

	resolved, err := filepath.EvalSymlinks(filepath.Join(filepath.Dir(dst), text))
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(root, "src", "dir"))
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
}

func TestExecuteExistingDestination(t *testing.T) {
	tests := []struct {
		name       string
		policy     types.Policy
		wantStatus types.Status
		wantCode   errors.ErrorCode
		wantBackup bool
	}{
		{
			name:       "refused without policy",
			wantStatus: types.StatusSkipped,
			wantCode:   errors.ErrDestinationExists,
		},
		{
			name:       "force replaces",
			policy:     types.Policy{Force: true},
			wantStatus: types.StatusCreated,
		},
		{
			name:       "backup renames aside",
			policy:     types.Policy{Backup: true},
			wantStatus: types.StatusBackedUpAndCreated,
			wantBackup: true,
		},
		{
			name:       "backup wins over force",
			policy:     types.Policy{Force: true, Backup: true},
			wantStatus: types.StatusBackedUpAndCreated,
			wantBackup: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			a := filepath.Join(root, "a.txt")
			b := filepath.Join(root, "b.txt")
			writeFile(t, a, "alpha")
			writeFile(t, b, "bravo")

			out := New(filesystem.NewOS()).Execute(hard(a, b), tt.policy)
			assert.Equal(t, tt.wantStatus, out.Status)

			switch tt.wantStatus {
			case types.StatusSkipped:
				assert.True(t, errors.IsErrorCode(out.Err, tt.wantCode))
				assert.Equal(t, "bravo", readFile(t, b))
			default:
				assertSameFile(t, a, b)
			}

			if tt.wantBackup {
				assert.Equal(t, b+"~", out.BackupPath)
				assert.Equal(t, "bravo", readFile(t, b+"~"))
			} else {
				assertNoLeftovers(t, root)
			}
		})
	}
}

func TestForceReplaceScenario(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "alpha")
	writeFile(t, b, "bravo")

	out := New(filesystem.NewOS()).Execute(hard(a, b), types.Policy{Force: true})

	assert.Equal(t, types.Created(), out)
	assertSameFile(t, a, b)
	assertNoLeftovers(t, root)
}

func TestBackupTwiceKeepsOneGeneration(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "alpha")
	writeFile(t, b, "bravo")

	x := New(filesystem.NewOS())
	policy := types.Policy{Backup: true}

	first := x.Execute(hard(a, b), policy)
	require.Equal(t, types.StatusBackedUpAndCreated, first.Status)
	assert.Equal(t, "bravo", readFile(t, b+"~"))

	// The first run's result is what the second run backs up.
	require.NoError(t, os.WriteFile(a, []byte("alpha-2"), 0644))
	second := x.Execute(hard(a, b), policy)
	require.Equal(t, types.StatusBackedUpAndCreated, second.Status)
	assert.Equal(t, b+"~", second.BackupPath)

	assert.Equal(t, "alpha-2", readFile(t, b+"~"))
	assert.NoFileExists(t, b+"~~")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "b.txt~"}, names)
}

func TestBackupSuffix(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "alpha")
	writeFile(t, b, "bravo")

	out := New(filesystem.NewOS()).Execute(hard(a, b), types.Policy{Backup: true, Suffix: ".orig"})

	require.Equal(t, types.StatusBackedUpAndCreated, out.Status)
	assert.Equal(t, b+".orig", out.BackupPath)
	assert.Equal(t, "bravo", readFile(t, b+".orig"))
}

func TestExecuteRefusesDirectoryDestination(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	dir := filepath.Join(root, "dir")
	writeFile(t, a, "alpha")
	writeFile(t, filepath.Join(dir, "keep"), "k")

	out := New(filesystem.NewOS()).Execute(hard(a, dir), types.Policy{Force: true, Backup: true})

	assert.Equal(t, types.StatusSkipped, out.Status)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrIsADirectory))
	assert.FileExists(t, filepath.Join(dir, "keep"))
	assert.NoDirExists(t, dir+"~")
}

func TestExecuteCrossDevice(t *testing.T) {
	root := t.TempDir()
	vol := filepath.Join(root, "vol")
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(vol, "b.txt")
	writeFile(t, a, "alpha")
	require.NoError(t, os.MkdirAll(vol, 0755))

	x := New(filesystem.NewVolumeFS(filesystem.NewOS(), vol))

	t.Run("absent destination", func(t *testing.T) {
		out := x.Execute(hard(a, b), types.Policy{})
		assert.Equal(t, types.StatusFailed, out.Status)
		assert.True(t, errors.IsErrorCode(out.Err, errors.ErrCrossDevice))
		assert.NoFileExists(t, b, "never falls back to a symlink")
	})

	t.Run("existing destination stays intact", func(t *testing.T) {
		writeFile(t, b, "bravo")
		for _, policy := range []types.Policy{{Force: true}, {Backup: true}} {
			out := x.Execute(hard(a, b), policy)
			assert.Equal(t, types.StatusFailed, out.Status)
			assert.True(t, errors.IsErrorCode(out.Err, errors.ErrCrossDevice))
			assert.Equal(t, "bravo", readFile(t, b))
			assertNoLeftovers(t, vol)
		}
	})

	t.Run("symbolic links are unaffected", func(t *testing.T) {
		dst := filepath.Join(vol, "sym")
		out := x.Execute(types.PlannedLink{Source: a, Destination: dst, Kind: types.KindSymbolic}, types.Policy{})
		assert.Equal(t, types.StatusCreated, out.Status)
	})
}

func TestExecuteSameFile(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "alpha")
	require.NoError(t, os.Link(a, b))

	x := New(filesystem.NewOS())

	out := x.Execute(hard(a, a), types.Policy{Force: true})
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrSameFile))

	out = x.Execute(hard(a, b), types.Policy{Force: true})
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrSameFile))

	out = x.Execute(hard(a, a), types.Policy{Backup: true})
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrSameFile))

	out = x.Execute(types.PlannedLink{Source: a, Destination: a, Kind: types.KindSymbolic}, types.Policy{Force: true})
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrSameFile))

	assert.Equal(t, "alpha", readFile(t, a))
	assertNoLeftovers(t, root)

	// An existing hard link to the source is backed up and recreated.
	out = x.Execute(hard(a, b), types.Policy{Backup: true})
	require.Equal(t, types.StatusBackedUpAndCreated, out.Status)
	assert.Equal(t, b+"~", out.BackupPath)
	assertSameFile(t, a, b)
	assertSameFile(t, a, b+"~")
}

func TestExecuteBackupFailure(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "alpha")
	writeFile(t, b, "bravo")
	// A non-empty directory at the backup name cannot be replaced.
	writeFile(t, filepath.Join(b+"~", "occupied"), "x")

	out := New(filesystem.NewOS()).Execute(hard(a, b), types.Policy{Backup: true})

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrBackupFailed))
	assert.Equal(t, "bravo", readFile(t, b))
	assert.FileExists(t, filepath.Join(b+"~", "occupied"))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temporary link removed")
}

func TestExecuteMissingSource(t *testing.T) {
	root := t.TempDir()
	out := New(filesystem.NewOS()).Execute(hard(filepath.Join(root, "ghost"), filepath.Join(root, "b")), types.Policy{})

	assert.Equal(t, types.StatusFailed, out.Status)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrLinkFailed))
}

func TestExecuteDirectoryStep(t *testing.T) {
	root := t.TempDir()
	x := New(filesystem.NewOS())
	step := func(name string) types.PlannedLink {
		return types.PlannedLink{
			Source:      filepath.Join(root, "src", name),
			Destination: filepath.Join(root, "dst", name),
			Kind:        types.KindDirectory,
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dst", "existing"), 0755))
	writeFile(t, filepath.Join(root, "dst", "blocked"), "file")
	writeFile(t, filepath.Join(root, "dst", "backed"), "file")

	out := x.Execute(step("fresh"), types.Policy{})
	assert.Equal(t, types.StatusCreated, out.Status)
	assert.DirExists(t, filepath.Join(root, "dst", "fresh"))

	out = x.Execute(step("existing"), types.Policy{})
	assert.Equal(t, types.StatusCreated, out.Status)

	out = x.Execute(step("blocked"), types.Policy{})
	assert.Equal(t, types.StatusSkipped, out.Status)
	assert.True(t, errors.IsErrorCode(out.Err, errors.ErrDestinationExists))

	out = x.Execute(step("blocked"), types.Policy{Force: true})
	assert.Equal(t, types.StatusCreated, out.Status)
	assert.DirExists(t, filepath.Join(root, "dst", "blocked"))

	out = x.Execute(step("backed"), types.Policy{Backup: true})
	assert.Equal(t, types.StatusBackedUpAndCreated, out.Status)
	assert.DirExists(t, filepath.Join(root, "dst", "backed"))
	assert.Equal(t, "file", readFile(t, filepath.Join(root, "dst", "backed~")))
}

func TestInspect(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "alpha")
	writeFile(t, b, "bravo")

	x := New(filesystem.NewOS())

	state, action, err := x.Inspect(hard(a, b), types.Policy{Backup: true})
	require.NoError(t, err)
	assert.Equal(t, conflicts.ExistsFile, state)
	assert.Equal(t, conflicts.BackupThenProceed, action.Type)
	assert.Equal(t, b+"~", action.BackupName)

	state, action, err = x.Inspect(hard(a, filepath.Join(root, "c.txt")), types.Policy{})
	require.NoError(t, err)
	assert.Equal(t, conflicts.Absent, state)
	assert.Equal(t, conflicts.ProceedDirect, action.Type)

	assert.Equal(t, "bravo", readFile(t, b))
}
