package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/filesystem"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// buildTree creates dirs subdirectories under root, each holding files
// files.
func buildTree(t *testing.T, root string, dirs, files int) {
	t.Helper()
	for d := 0; d < dirs; d++ {
		for f := 0; f < files; f++ {
			writeFile(t, filepath.Join(root, fmt.Sprintf("d%02d", d), fmt.Sprintf("f%02d.txt", f)), "x")
		}
	}
	writeFile(t, filepath.Join(root, "top.txt"), "top")
}

func TestRunReport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "src", "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "dst", "a.txt"), "old")

	var streamed []types.Entry
	report, err := New(filesystem.NewOS()).Run(context.Background(), types.LinkRequest{
		Sources:     []string{filepath.Join(root, "src")},
		Destination: filepath.Join(root, "dst"),
		Form:        types.FormLinkName,
	}, func(e types.Entry) { streamed = append(streamed, e) })
	require.NoError(t, err)

	assert.Equal(t, 3, report.Planned)
	assert.Equal(t, report.Entries, streamed)
	assert.False(t, report.Interrupted)
	assert.False(t, report.HasFailures())
	assert.Equal(t, types.Counts{Created: 2, Skipped: 1}, report.Counts)

	require.Len(t, report.Entries, 3)
	assert.True(t, report.Entries[0].Link.IsDirectory())
	assert.Equal(t, types.StatusSkipped, report.Entries[1].Outcome.Status)
	assert.True(t, errors.IsErrorCode(report.Entries[1].Outcome.Err, errors.ErrDestinationExists))
	assert.FileExists(t, filepath.Join(root, "dst", "sub", "b.txt"))
}

func TestRunPlanError(t *testing.T) {
	root := t.TempDir()
	report, err := New(filesystem.NewOS()).Run(context.Background(), types.LinkRequest{
		Sources:     []string{filepath.Join(root, "ghost")},
		Destination: filepath.Join(root, "dst"),
	}, nil)

	assert.Nil(t, report)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceMissing))
	assert.NoDirExists(t, filepath.Join(root, "dst"))
}

func TestParallelPreservesOrder(t *testing.T) {
	root := t.TempDir()
	buildTree(t, filepath.Join(root, "src"), 6, 8)

	req := types.LinkRequest{
		Sources:     []string{filepath.Join(root, "src")},
		Destination: filepath.Join(root, "dst"),
	}

	plan, err := New(filesystem.NewOS()).Planner().Preview(req)
	require.NoError(t, err)

	report, err := New(filesystem.NewOS(), WithWorkers(4)).Run(context.Background(), req, nil)
	require.NoError(t, err)

	require.Len(t, report.Entries, len(plan))
	for i, e := range report.Entries {
		assert.Equal(t, i, e.Index)
		assert.Equal(t, plan[i], e.Link)
		assert.Equal(t, types.StatusCreated, e.Outcome.Status, e.Link.String())
	}
	assert.Equal(t, len(plan), report.Counts.Created)
}

func TestParallelSharedDestination(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one", "x"), "1")
	writeFile(t, filepath.Join(root, "two", "x"), "2")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir"), 0755))

	for i := 0; i < 20; i++ {
		target := filepath.Join(root, "dir", "x")
		_ = os.Remove(target)

		report, err := New(filesystem.NewOS(), WithWorkers(8)).Run(context.Background(), types.LinkRequest{
			Sources:     []string{filepath.Join(root, "one", "x"), filepath.Join(root, "two", "x")},
			Destination: filepath.Join(root, "dir"),
			Form:        types.FormTargetDirectory,
		}, nil)
		require.NoError(t, err)

		require.Len(t, report.Entries, 2)
		assert.Equal(t, types.StatusCreated, report.Entries[0].Outcome.Status)
		assert.Equal(t, types.StatusSkipped, report.Entries[1].Outcome.Status)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "1", string(data))
	}
}

func TestRunInterrupted(t *testing.T) {
	root := t.TempDir()
	buildTree(t, filepath.Join(root, "src"), 3, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report, err := New(filesystem.NewOS()).Run(ctx, types.LinkRequest{
		Sources:     []string{filepath.Join(root, "src")},
		Destination: filepath.Join(root, "dst"),
	}, func(types.Entry) { cancel() })
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	assert.Len(t, report.Entries, 1)
	assert.Greater(t, report.Planned, 1)
	assert.False(t, report.HasFailures(), "partial runs are not failures")
	assert.NoFileExists(t, filepath.Join(root, "dst", "top.txt"))
}

func TestParallelRunCancelled(t *testing.T) {
	root := t.TempDir()
	buildTree(t, filepath.Join(root, "src"), 3, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(filesystem.NewOS(), WithWorkers(4)).Run(ctx, types.LinkRequest{
		Sources:     []string{filepath.Join(root, "src")},
		Destination: filepath.Join(root, "dst"),
	}, nil)
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	assert.Empty(t, report.Entries)
	assert.Equal(t, 19, report.Planned)
	assert.NoFileExists(t, filepath.Join(root, "dst", "top.txt"))
}

func TestExecuteStopsWhenConsumerStops(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFile(t, filepath.Join(root, "src", fmt.Sprintf("f%d", i)), "x")
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dst"), 0755))

	var plan []types.PlannedLink
	for i := 0; i < 5; i++ {
		plan = append(plan, types.PlannedLink{
			Source:      filepath.Join(root, "src", fmt.Sprintf("f%d", i)),
			Destination: filepath.Join(root, "dst", fmt.Sprintf("f%d", i)),
			Kind:        types.KindHard,
		})
	}

	seen := 0
	for range New(filesystem.NewOS()).Execute(context.Background(), plan, types.Policy{}) {
		seen++
		if seen == 2 {
			break
		}
	}

	entries, err := os.ReadDir(filepath.Join(root, "dst"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunCountsFailures(t *testing.T) {
	root := t.TempDir()
	vol := filepath.Join(root, "vol")
	writeFile(t, filepath.Join(root, "src", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "src", "b.txt"), "b")
	require.NoError(t, os.MkdirAll(vol, 0755))

	fsys := filesystem.NewVolumeFS(filesystem.NewOS(), vol)
	report, err := New(fsys, WithWorkers(2)).Run(context.Background(), types.LinkRequest{
		Sources:     []string{filepath.Join(root, "src")},
		Destination: filepath.Join(vol, "mirror"),
	}, nil)
	require.NoError(t, err)

	assert.True(t, report.HasFailures())
	assert.Equal(t, 2, report.Counts.Failed)
	for _, e := range report.Failures() {
		assert.True(t, errors.IsErrorCode(e.Outcome.Err, errors.ErrCrossDevice))
	}
}
