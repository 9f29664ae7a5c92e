package search_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruntwork-io/ugrep/internal/scanner"
	"github.com/gruntwork-io/ugrep/internal/search"
	"github.com/gruntwork-io/ugrep/internal/vfs"
	"github.com/gruntwork-io/ugrep/options"
	"github.com/gruntwork-io/ugrep/pkg/log"
	"github.com/gruntwork-io/ugrep/telemetry"
)

// runSearch searches a fresh in-memory tree and returns the report.
func runSearch(t *testing.T, files map[string]string, term, root string, workers int) (string, *search.Stats) {
	t.Helper()

	opts := options.NewOptionsForTest(term, root)
	opts.Workers = workers

	require.NoError(t, opts.FS.MkdirAll(root, 0755))

	for path, content := range files {
		require.NoError(t, afero.WriteFile(opts.FS, path, []byte(content), 0644))
	}

	var out bytes.Buffer

	opts.Writer = &out

	stats, err := search.Run(context.Background(), opts)
	require.NoError(t, err)

	return out.String(), stats
}

// blocks splits a report into its per-file blocks, sorted by path.
func blocks(report string) []string {
	if report == "" {
		return nil
	}

	parts := strings.Split(strings.TrimSuffix(report, "\n\n"), "\n\n")
	sort.Strings(parts)

	return parts
}

func TestSearchReportsMatchingTextFiles(t *testing.T) {
	t.Parallel()

	out, stats := runSearch(t, map[string]string{
		"/src/a.txt": "hello\nfoo bar\nbaz\n",
		"/src/b.bin": "foo\x00\x00\x00\x00\x00\x01\x02\x03",
	}, "foo", "/src", 4)

	assert.Equal(t, "/src/a.txt\n2: foo bar\n\n", out)

	assert.Equal(t, int64(1), stats.FilesScanned.Value())
	assert.Equal(t, int64(1), stats.FilesMatched.Value())
	assert.Equal(t, int64(1), stats.SpansReported.Value())
	assert.Equal(t, int64(1), stats.BinarySkipped.Value())
	assert.Equal(t, int64(1), stats.DirsExpanded.Value())
	assert.Equal(t, int64(0), stats.PathErrors.Value())
	assert.NotEmpty(t, stats.RunID)
}

func TestSearchEmptyDirectory(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 8} {
		out, stats := runSearch(t, nil, "foo", "/empty", workers)
		assert.Empty(t, out)
		assert.Equal(t, int64(1), stats.DirsExpanded.Value())
	}
}

func TestSearchFirstMatchPerLineAndTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("-", 20) + "foo" + strings.Repeat("x", 100)

	out, _ := runSearch(t, map[string]string{
		"/src/x.txt": "foo foo foo\n" + long + "\n",
	}, "foo", "/src", 2)

	expectedSnippet := ("foo" + strings.Repeat("x", 100))[:scanner.MaxSnippetLen]
	assert.Equal(t, "/src/x.txt\n1: foo foo foo\n2: "+expectedSnippet+"\n\n", out)
}

func TestSearchManyMatchesInOneFile(t *testing.T) {
	t.Parallel()

	var content strings.Builder
	for range 1000 {
		content.WriteString("foo\n")
	}

	out, stats := runSearch(t, map[string]string{"/src/many.txt": content.String()}, "foo", "/src", 4)

	lines := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n")
	require.Len(t, lines, 1001)
	assert.Equal(t, "/src/many.txt", lines[0])
	assert.Equal(t, "1: foo", lines[1])
	assert.Equal(t, "1000: foo", lines[1000])
	assert.Equal(t, int64(1000), stats.SpansReported.Value())
}

// tree builds nested directories, each holding files that all contain the term once.
func tree(depth, width, filesPerDir int) map[string]string {
	files := make(map[string]string)

	var build func(dir string, level int)

	build = func(dir string, level int) {
		for i := range filesPerDir {
			path := fmt.Sprintf("%s/file%d.txt", dir, i)
			files[path] = fmt.Sprintf("line one\nmatch needle in %s\n", path)
		}

		if level == depth {
			return
		}

		for i := range width {
			build(fmt.Sprintf("%s/dir%d", dir, i), level+1)
		}
	}

	build("/src", 0)

	return files
}

func TestSearchCompletenessAndDeterminism(t *testing.T) {
	t.Parallel()

	files := tree(3, 3, 4)

	single, singleStats := runSearch(t, files, "needle", "/src", 1)

	singleBlocks := blocks(single)
	require.Len(t, singleBlocks, len(files))
	assert.Equal(t, int64(len(files)), singleStats.FilesMatched.Value())

	for _, workers := range []int{2, 8, 32} {
		multi, multiStats := runSearch(t, files, "needle", "/src", workers)

		assert.Equal(t, singleBlocks, blocks(multi), "workers=%d", workers)
		assert.Equal(t, singleStats.DirsExpanded.Value(), multiStats.DirsExpanded.Value())
	}
}

func TestSearchDeepTree(t *testing.T) {
	t.Parallel()

	const depth = 300

	dir := "/deep"
	files := make(map[string]string)

	for range depth {
		dir += "/d"
	}

	files[dir+"/leaf.txt"] = "needle\n"

	out, stats := runSearch(t, files, "needle", "/deep", 8)
	assert.Equal(t, dir+"/leaf.txt\n1: needle\n\n", out)
	assert.Equal(t, int64(depth+1), stats.DirsExpanded.Value())
}

func TestSearchSingleFileRoot(t *testing.T) {
	t.Parallel()

	opts := options.NewOptionsForTest("foo", "/one.txt")
	require.NoError(t, afero.WriteFile(opts.FS, "/one.txt", []byte("a foo\n"), 0644))

	var out bytes.Buffer

	opts.Writer = &out

	_, err := search.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "/one.txt\n1: foo\n\n", out.String())
}

func TestSearchIgnoresSymlinks(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	outside := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "real.txt"), []byte("foo here\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "target.txt"), []byte("foo there\n"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(tmpDir, "link.txt")))
	require.NoError(t, os.Symlink(outside, filepath.Join(tmpDir, "linkdir")))

	opts := options.NewOptionsForTest("foo", tmpDir)
	opts.FS = vfs.NewOSFS()

	var out bytes.Buffer

	opts.Writer = &out

	_, err := search.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "real.txt")+"\n1: foo here\n\n", out.String())
}

func TestSearchSkipsUnreadableDirectory(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	tmpDir := t.TempDir()
	locked := filepath.Join(tmpDir, "locked")

	require.NoError(t, os.Mkdir(locked, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "hidden.txt"), []byte("foo\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "open.txt"), []byte("foo\n"), 0644))
	require.NoError(t, os.Chmod(locked, 0))

	t.Cleanup(func() {
		_ = os.Chmod(locked, 0755) //nolint:errcheck
	})

	opts := options.NewOptionsForTest("foo", tmpDir)
	opts.FS = vfs.NewOSFS()

	var out bytes.Buffer

	opts.Writer = &out

	stats, err := search.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "open.txt")+"\n1: foo\n\n", out.String())
	assert.Equal(t, int64(1), stats.PathErrors.Value())
}

func TestSearchMissingRoot(t *testing.T) {
	t.Parallel()

	opts := options.NewOptionsForTest("foo", "/nowhere")

	stats, err := search.Run(context.Background(), opts)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, int64(1), stats.PathErrors.Value())
}

func TestSearchInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := search.Run(context.Background(), options.NewOptionsForTest("", "/src"))
	require.ErrorIs(t, err, options.ErrEmptyTerm)
}

func TestSearchCancelled(t *testing.T) {
	t.Parallel()

	opts := options.NewOptionsForTest("needle", "/src")
	for path, content := range tree(2, 2, 2) {
		require.NoError(t, afero.WriteFile(opts.FS, path, []byte(content), 0644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := search.Run(ctx, opts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStatsSummary(t *testing.T) {
	t.Parallel()

	_, stats := runSearch(t, map[string]string{
		"/src/a.txt":   "foo\nfoo\n",
		"/src/b.txt":   "bar\n",
		"/src/c.bin":   "\x00\x00\x00",
		"/src/d.empty": "",
	}, "foo", "/src", 2)

	summary := stats.Summary()
	assert.Equal(t, int64(2), summary.FilesScanned)
	assert.Equal(t, int64(1), summary.FilesMatched)
	assert.Equal(t, int64(2), summary.SpansReported)
	assert.Equal(t, int64(1), summary.BinarySkipped)
	assert.Equal(t, int64(1), summary.UnreadableSkipped)
	assert.Equal(t, int64(1), summary.DirsExpanded)
}

func TestSearchPrefersOptionsFromContext(t *testing.T) {
	t.Parallel()

	opts := options.NewOptionsForTest("foo", "/one.txt")
	require.NoError(t, afero.WriteFile(opts.FS, "/one.txt", []byte("a foo\n"), 0644))

	var out bytes.Buffer

	opts.Writer = &out

	// the argument alone would be rejected for its empty term
	ctx := options.ContextWithOptions(context.Background(), opts)

	_, err := search.Run(ctx, options.NewOptionsForTest("", ""))
	require.NoError(t, err)
	assert.Equal(t, "/one.txt\n1: foo\n\n", out.String())
}

func TestSearchLogsItsTraceParent(t *testing.T) {
	t.Parallel()

	var logs, traces bytes.Buffer

	opts := options.NewOptionsForTest("foo", "/one.txt")
	opts.Logger = log.New(log.WithOutput(&logs), log.WithLevel(log.DebugLevel))
	require.NoError(t, afero.WriteFile(opts.FS, "/one.txt", []byte("foo\n"), 0644))

	tlm, err := telemetry.NewTelemeter(context.Background(), "ugrep", "test", &traces, &telemetry.Options{TraceExporter: "console"})
	require.NoError(t, err)

	ctx := telemetry.ContextWithTelemeter(context.Background(), tlm)

	_, err = search.Run(ctx, opts)
	require.NoError(t, err)
	require.NoError(t, tlm.Shutdown(context.Background()))

	assert.Regexp(t, `Search span 00-[0-9a-f]{32}-[0-9a-f]{16}-01`, logs.String())
	assert.Contains(t, traces.String(), `"Name":"search"`)
}
