package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomlfmt/internal/config"
	"tomlfmt/internal/format"
	"tomlfmt/internal/token"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCollectFilesSkipsVendorDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.toml"), "")
	writeFile(t, filepath.Join(dir, "sub", "B.TOML"), "")
	writeFile(t, filepath.Join(dir, "target", "x.toml"), "")
	writeFile(t, filepath.Join(dir, ".git", "config.toml"), "")
	writeFile(t, filepath.Join(dir, "node_modules", "p", "n.toml"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	files, err := CollectFiles(context.Background(), []string{dir, filepath.Join(dir, "notes.txt"), filepath.Join(dir, "a.toml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.toml"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "sub", "B.TOML"),
	}, files)
}

func TestCollectFilesMissingPath(t *testing.T) {
	_, err := CollectFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestFormatPathsWritesChangedFiles(t *testing.T) {
	dir := t.TempDir()
	messy := filepath.Join(dir, "messy.toml")
	clean := filepath.Join(dir, "clean.toml")
	writeFile(t, messy, "a=1\nb   =   [1,2]\n")
	writeFile(t, clean, "a = 1\n")
	require.NoError(t, os.Chmod(messy, 0o600))

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Config: config.Default()})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, clean, results[0].Path)
	assert.False(t, results[0].Changed)
	assert.Equal(t, messy, results[1].Path)
	assert.True(t, results[1].Changed)
	assert.NoError(t, FirstError(results))

	assert.Equal(t, "a = 1\nb = [1, 2]\n", readFile(t, messy))
	info, err := os.Stat(messy)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFormatPathsStripsBOMFromCanonicalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.toml")
	writeFile(t, path, "\ufeff# 1\n# 2\n")

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Config: config.Default()})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)
	assert.Equal(t, "# 1\n# 2\n", readFile(t, path))
}

func TestFormatPathsCheckLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.toml")
	writeFile(t, path, "x=1\n")

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Config: config.Default(), Check: true, Diff: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)
	assert.Contains(t, results[0].Diff, "-x=1\n+x = 1\n")
	assert.Equal(t, "x=1\n", readFile(t, path))
}

func TestFormatPathsStdout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.toml")
	writeFile(t, path, "[t]\nk='v'\n")

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Config: config.Default(), Stdout: true})
	require.NoError(t, err)
	assert.Equal(t, "[t]\nk = 'v'\n", string(results[0].Formatted))
	assert.Equal(t, "[t]\nk='v'\n", readFile(t, path))
}

func TestFormatPathsKeepsGoingAfterParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.toml"), "a = \n")
	writeFile(t, filepath.Join(dir, "b.toml"), "b=2\n")

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Config: config.Default(), Jobs: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var perr *format.ParseError
	require.ErrorAs(t, results[0].Err, &perr)
	assert.Equal(t, uint32(1), perr.Pos.Line)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "b = 2\n", readFile(t, filepath.Join(dir, "b.toml")))

	sum := Summarize(results)
	assert.Equal(t, Summary{Total: 2, Changed: 1, Failed: 1}, sum)
	assert.Equal(t, results[0].Err, FirstError(results))
}

func TestFormatPathsNoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.md"), "")
	_, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Config: config.Default()})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestFormatPathsCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.toml"), "a=1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FormatPaths(ctx, []string{dir}, FormatOptions{Config: config.Default()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "a=1\n", readFile(t, filepath.Join(dir, "a.toml")))
}

func TestFormatPathsUsesResolver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.toml")
	writeFile(t, path, "a = [1, 2, 3]\n")

	narrow := config.Default()
	narrow.LineWidth = 8
	opts := FormatOptions{
		Config:  config.Default(),
		Resolve: func(string) (config.Configuration, error) { return narrow, nil },
	}
	_, err := FormatPaths(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	assert.Equal(t, "a = [\n  1,\n  2,\n  3,\n]\n", readFile(t, path))
}

func TestFormatPathsCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenCacheDir(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	path := filepath.Join(dir, "src", "x.toml")
	writeFile(t, path, "x=1\n")
	opts := FormatOptions{Config: config.Default(), Cache: cache}

	first, err := FormatPaths(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	assert.True(t, first[0].Changed)
	assert.False(t, first[0].Cached)

	second, err := FormatPaths(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	assert.True(t, second[0].Cached)
	assert.False(t, second[0].Changed)

	opts.Config.IndentWidth = 4
	third, err := FormatPaths(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	assert.False(t, third[0].Cached, "a config change must miss the cache")

	require.NoError(t, cache.Clear())
	hit, err := cache.Formatted(Key([]byte("x = 1\n"), opts.Config))
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheNilIsNoop(t *testing.T) {
	var c *Cache
	hit, err := c.Formatted(Digest{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.MarkFormatted(Digest{}, "x", 0))
	assert.NoError(t, c.Clear())
}

func TestKeyDependsOnContentAndConfig(t *testing.T) {
	cfg := config.Default()
	a := Key([]byte("a = 1\n"), cfg)
	assert.Equal(t, a, Key([]byte("a = 1\n"), cfg))
	assert.NotEqual(t, a, Key([]byte("a = 2\n"), cfg))
	cfg.UseTabs = true
	assert.NotEqual(t, a, Key([]byte("a = 1\n"), cfg))
}

func TestProgressEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.toml"), "a=1\n")
	writeFile(t, filepath.Join(dir, "b.toml"), "b = 1\n")

	var mu sync.Mutex
	done := map[string]Event{}
	queued := 0
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case ev.Status == StatusQueued:
			queued++
		case ev.Status == StatusDone && ev.File != "":
			done[filepath.Base(ev.File)] = ev
		}
	})
	_, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Config: config.Default(), Progress: sink})
	require.NoError(t, err)
	assert.Equal(t, 2, queued)
	require.Len(t, done, 2)
	assert.True(t, done["a.toml"].Changed)
	assert.False(t, done["b.toml"].Changed)
}

func TestFormatSourceVerify(t *testing.T) {
	res := FormatSource(context.Background(), "<stdin>", []byte("a=1 # c\n"), FormatOptions{Config: config.Default(), Verify: true, Diff: true})
	require.NoError(t, res.Err)
	assert.True(t, res.Changed)
	assert.Equal(t, "a = 1 # c\n", string(res.Formatted))
	assert.NotEmpty(t, res.Diff)

	res = FormatSource(context.Background(), "<stdin>", []byte("a = 1\na = 2\n"), FormatOptions{Config: config.Default(), Verify: true})
	var verr *VerifyError
	require.ErrorAs(t, res.Err, &verr)
	assert.Contains(t, verr.Error(), "fmt-check")
}

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff("x.toml", "same\n", "same\n"))

	before := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nold\nl9\n"
	after := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nnew\nl9\n"
	want := "--- x.toml\n+++ x.toml (formatted)\n" +
		"@@ -5,5 +5,5 @@\n" +
		" l5\n l6\n l7\n-old\n+new\n l9\n"
	assert.Equal(t, want, Diff("x.toml", before, after))
}

func TestDiffSeparateHunks(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "k" + strings.Repeat("x", i)
	}
	before := strings.Join(lines, "\n") + "\n"
	changed := append([]string(nil), lines...)
	changed[1] = "A"
	changed[18] = "B"
	after := strings.Join(changed, "\n") + "\n"

	out := Diff("f", before, after)
	assert.Equal(t, 2, strings.Count(out, "@@ -"))
	assert.Contains(t, out, "@@ -1,5 +1,5 @@\n")
	assert.Contains(t, out, "@@ -16,5 +16,5 @@\n")
}

func TestTokenizeSourceCoversInput(t *testing.T) {
	src := "# top\n[a.b] # h\nk = \"v\" # c\narr = [1, 2]\n"
	res, err := TokenizeSource("t.toml", []byte(src), 0)
	require.NoError(t, err)
	var sb strings.Builder
	for _, tok := range res.Tokens {
		sb.WriteString(tok.Text)
	}
	assert.Equal(t, src, sb.String())
	assert.Equal(t, token.EOF, res.Tokens[len(res.Tokens)-1].Kind)
	_, hasErr := res.Bag.FirstError()
	assert.False(t, hasErr)
}

func TestParseSourceReportsErrors(t *testing.T) {
	res, err := ParseSource("t.toml", []byte("a = \n"), 0)
	require.NoError(t, err)
	_, hasErr := res.Bag.FirstError()
	assert.True(t, hasErr)
	assert.Equal(t, "a = \n", res.Root.Text())
}
