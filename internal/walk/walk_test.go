package walk_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruntwork-io/ugrep/internal/vfs"
	"github.com/gruntwork-io/ugrep/internal/walk"
	"github.com/gruntwork-io/ugrep/internal/worker"
	"github.com/gruntwork-io/ugrep/pkg/log"
	"github.com/gruntwork-io/ugrep/pkg/log/format"
)

type push struct {
	path string
	kind worker.Kind
}

type recorder struct {
	pushes []push
	mu     sync.Mutex
}

func (r *recorder) Push(kind worker.Kind, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pushes = append(r.pushes, push{kind: kind, path: path})
}

func (r *recorder) sorted() []push {
	r.mu.Lock()
	defer r.mu.Unlock()

	pushes := append([]push(nil), r.pushes...)
	sort.Slice(pushes, func(i, j int) bool { return pushes[i].path < pushes[j].path })

	return pushes
}

type errorCollector struct {
	paths []string
	mu    sync.Mutex
}

func (c *errorCollector) handle(path string, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paths = append(c.paths, path)
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	fs := vfs.NewMemMapFS()
	require.NoError(t, fs.MkdirAll("/src/sub", 0755))
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("a"), 0644))

	rec := &recorder{}
	errs := &errorCollector{}
	dispatcher := walk.NewDispatcher(fs, rec, errs.handle)

	ctx := context.Background()
	require.NoError(t, dispatcher.Dispatch(ctx, "/src/sub"))
	require.NoError(t, dispatcher.Dispatch(ctx, "/src/a.txt"))

	err := dispatcher.Dispatch(ctx, "/src/missing")
	require.Error(t, err)

	var statErr walk.StatError
	require.ErrorAs(t, err, &statErr)
	assert.Equal(t, "/src/missing", statErr.Path)
	require.ErrorIs(t, err, os.ErrNotExist)

	assert.Equal(t, []push{
		{kind: worker.FileWork, path: "/src/a.txt"},
		{kind: worker.DirWork, path: "/src/sub"},
	}, rec.sorted())
	assert.Equal(t, []string{"/src/missing"}, errs.paths)
}

func TestDispatchIgnoresSymlinks(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	fs := vfs.NewOSFS()

	target := filepath.Join(tmpDir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("foo"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "dir"), 0755))
	require.NoError(t, os.Symlink(target, filepath.Join(tmpDir, "file-link")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "dir"), filepath.Join(tmpDir, "dir-link")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "nowhere"), filepath.Join(tmpDir, "dangling")))

	rec := &recorder{}
	dispatcher := walk.NewDispatcher(fs, rec, nil)

	for _, name := range []string{"file-link", "dir-link", "dangling"} {
		require.NoError(t, dispatcher.Dispatch(context.Background(), filepath.Join(tmpDir, name)))
	}

	assert.Empty(t, rec.sorted())
}

func TestExpand(t *testing.T) {
	t.Parallel()

	fs := vfs.NewMemMapFS()
	require.NoError(t, fs.MkdirAll("/src/sub", 0755))
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/src/b.bin", []byte{0}, 0644))
	require.NoError(t, afero.WriteFile(fs, "/src/sub/c.txt", []byte("c"), 0644))

	rec := &recorder{}
	expander := walk.NewExpander(fs, walk.NewDispatcher(fs, rec, nil), nil)

	require.NoError(t, expander.Expand(context.Background(), "/src"))

	// only direct children are dispatched
	assert.Equal(t, []push{
		{kind: worker.FileWork, path: "/src/a.txt"},
		{kind: worker.FileWork, path: "/src/b.bin"},
		{kind: worker.DirWork, path: "/src/sub"},
	}, rec.sorted())
}

func TestExpandFilesystemRoot(t *testing.T) {
	t.Parallel()

	fs := vfs.NewMemMapFS()
	require.NoError(t, afero.WriteFile(fs, "/top.txt", []byte("a"), 0644))

	rec := &recorder{}
	expander := walk.NewExpander(fs, walk.NewDispatcher(fs, rec, nil), nil)

	require.NoError(t, expander.Expand(context.Background(), "/"))

	pushes := rec.sorted()
	require.NotEmpty(t, pushes)

	for _, p := range pushes {
		assert.NotContains(t, p.path, "//")
	}

	assert.Contains(t, pushes, push{kind: worker.FileWork, path: "/top.txt"})
}

func TestExpandUnlistableDirectory(t *testing.T) {
	t.Parallel()

	fs := vfs.NewMemMapFS()
	require.NoError(t, afero.WriteFile(fs, "/file.txt", []byte("a"), 0644))

	rec := &recorder{}
	errs := &errorCollector{}
	expander := walk.NewExpander(fs, walk.NewDispatcher(fs, rec, errs.handle), errs.handle)

	for _, dir := range []string{"/missing", "/file.txt"} {
		err := expander.Expand(context.Background(), dir)
		require.Error(t, err)

		var listErr walk.ListError
		require.ErrorAs(t, err, &listErr)
		assert.Equal(t, dir, listErr.Path)
	}

	assert.Empty(t, rec.sorted())
	assert.Equal(t, []string{"/missing", "/file.txt"}, errs.paths)
}

func TestExpandStopsOnCancellation(t *testing.T) {
	t.Parallel()

	fs := vfs.NewMemMapFS()
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("a"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	expander := walk.NewExpander(fs, walk.NewDispatcher(fs, rec, nil), nil)

	require.ErrorIs(t, expander.Expand(ctx, "/src"), context.Canceled)
	assert.Empty(t, rec.sorted())
}

func TestSkippedPathsAreLoggedWithTheirError(t *testing.T) {
	t.Parallel()

	logs := new(bytes.Buffer)
	logger := log.New(log.WithOutput(logs), log.WithLevel(log.WarnLevel), log.WithFormatter(format.NewJSONFormatter()))
	ctx := log.ContextWithLogger(context.Background(), logger)

	fs := vfs.NewMemMapFS()
	expander := walk.NewExpander(fs, walk.NewDispatcher(fs, &recorder{}, nil), nil)

	require.Error(t, walk.NewDispatcher(fs, &recorder{}, nil).Dispatch(ctx, "/missing"))
	require.Error(t, expander.Expand(ctx, "/missing-dir"))

	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	for i, expected := range []struct{ msg, path string }{
		{"Skipping path", "/missing"},
		{"Skipping directory", "/missing-dir"},
	} {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(lines[i], &entry))

		assert.Equal(t, "warning", entry["level"])
		assert.Equal(t, expected.msg, entry["msg"])
		assert.Equal(t, expected.path, entry["path"])
		assert.Contains(t, entry["error"], expected.path)
	}
}
