package site

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/headmeta/internal/config"
	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/headmeta"
	"git.home.luguber.info/inful/headmeta/internal/metrics"
	"git.home.luguber.info/inful/headmeta/internal/state"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	cfg    *config.Config
	source string
	output string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		source: filepath.Join(dir, "content"),
		output: filepath.Join(dir, "public"),
	}
	f.cfg = &config.Config{
		Site: map[string]any{
			"name":    "Blog",
			"origin":  "https://blog.example",
			"og":      true,
			"twitter": true,
		},
		Build: config.BuildConfig{
			Source:  f.source,
			Output:  f.output,
			Include: config.DefaultInclude,
			Exclude: []string{"drafts/**"},
		},
	}
	return f
}

func (f *fixture) write(t *testing.T, rel, body string) {
	t.Helper()
	full := filepath.Join(f.source, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
}

func (f *fixture) read(t *testing.T, rel string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	return doc
}

func (f *fixture) builder(opts ...Option) *Builder {
	return New(f.cfg, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func TestDiscover(t *testing.T) {
	f := newFixture(t)
	f.write(t, "index.md", "# Home")
	f.write(t, "posts/a.md", "# A")
	f.write(t, "posts/a.md.meta.yaml", "title: A")
	f.write(t, "about/index.html", "<p>about</p>")
	f.write(t, "drafts/wip.md", "# WIP")
	f.write(t, ".hidden/x.md", "# hidden")
	f.write(t, "style.css", "body{}")

	rels, err := f.builder().Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"about/index.html", "index.md", "posts/a.md"}, rels)
}

func TestRun_WritesAnnotatedPages(t *testing.T) {
	f := newFixture(t)
	f.write(t, "posts/hello.md", "---\ntitle: Hello\ntype: article\ndescription: First post\ntags: [go, html]\npublished: 2024-01-02\n---\n# Hello\n")
	f.write(t, "posts/hello.md.meta.yaml", "description: Overridden\n")
	f.write(t, "about/index.html", "<!doctype html><html><head><title>Old</title></head><body>About</body></html>")

	res, err := f.builder().Run(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Count(metrics.ResultSuccess))

	post := f.read(t, "posts/hello/index.html")
	assert.Equal(t, "Hello - Blog", post.Find("head title").Text())
	href, _ := post.Find(`link[rel="canonical"]`).Attr("href")
	assert.Equal(t, "https://blog.example/posts/hello/", href)
	desc, _ := post.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "Overridden", desc)
	assert.Equal(t, 2, post.Find(`meta[property="article:tag"]`).Length())
	pub, _ := post.Find(`meta[property="article:published_time"]`).Attr("content")
	assert.Equal(t, "2024-01-02T00:00:00.000Z", pub)
	assert.Equal(t, 1, post.Find("h1#hello").Length())

	about := f.read(t, "about/index.html")
	assert.Equal(t, "Old", about.Find("head title").Text())
	href, _ = about.Find(`link[rel="canonical"]`).Attr("href")
	assert.Equal(t, "https://blog.example/about/", href)
}

func TestRun_InvalidDateIsolated(t *testing.T) {
	f := newFixture(t)
	f.write(t, "good.md", "---\ntitle: Good\n---\nok\n")
	f.write(t, "bad.md", "---\ntitle: Bad\npublished: someday\n---\nbad\n")

	res, err := f.builder().Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.True(t, stderrors.Is(err, headmeta.ErrInvalidDate))
	assert.Equal(t, StatusPartial, res.Status)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.SeverityWarning, classified.Severity())
	assert.Equal(t, 1, res.Count(metrics.ResultInvalid))
	assert.Equal(t, 1, res.Count(metrics.ResultSuccess))

	_, statErr := os.Stat(filepath.Join(f.output, "bad", "index.html"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(f.output, "good", "index.html"))
	assert.NoError(t, statErr)
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t)
	f.write(t, "index.md", "# Home")

	res, err := f.builder().Run(context.Background(), Request{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count(metrics.ResultSuccess))
	assert.Contains(t, res.Documents[0].Applied, "title")

	_, statErr := os.Stat(f.output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_IncrementalSkipsUnchanged(t *testing.T) {
	f := newFixture(t)
	f.write(t, "index.md", "# Home")
	f.write(t, "other.md", "# Other")

	store, err := state.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	b := f.builder(WithStore(store))
	ctx := context.Background()

	res, err := b.Run(ctx, Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count(metrics.ResultSuccess))

	res, err = b.Run(ctx, Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count(metrics.ResultSkipped))

	f.write(t, "other.md.meta.yaml", "title: Changed\n")
	res, err = b.Run(ctx, Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count(metrics.ResultSkipped))
	assert.Equal(t, 1, res.Count(metrics.ResultSuccess))

	res, err = b.Run(ctx, Request{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count(metrics.ResultSuccess))

	require.NoError(t, os.Remove(filepath.Join(f.output, "index.html")))
	res, err = b.Run(ctx, Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count(metrics.ResultSuccess))

	require.NoError(t, os.Remove(filepath.Join(f.source, "other.md")))
	_, err = b.Run(ctx, Request{})
	require.NoError(t, err)
	paths, err := store.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.md"}, paths)
}

func TestRun_RecordsMetrics(t *testing.T) {
	f := newFixture(t)
	f.write(t, "index.md", "# Home")
	f.write(t, "bad.md", "---\npublished: nope\n---\n")

	rec := &countingRecorder{results: map[metrics.ResultLabel]int{}}
	_, err := f.builder(WithRecorder(rec)).Run(context.Background(), Request{})
	require.Error(t, err)

	assert.Equal(t, 1, rec.results[metrics.ResultSuccess])
	assert.Equal(t, 1, rec.results[metrics.ResultInvalid])
	assert.Equal(t, 1, rec.builds)
	assert.Positive(t, rec.rules)
}

func TestBuild_Cancelled(t *testing.T) {
	f := newFixture(t)
	f.write(t, "index.md", "# Home")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.builder().Build(ctx, []string{"index.md"}, Request{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRuntime))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, status(0, 0))
	assert.Equal(t, StatusPartial, status(3, 1))
	assert.Equal(t, StatusFailed, status(2, 2))
}

type countingRecorder struct {
	rules   int
	results map[metrics.ResultLabel]int
	builds  int
}

func (c *countingRecorder) IncRuleApplied(string)       { c.rules++ }
func (c *countingRecorder) AddNodesCreated(string, int) {}
func (c *countingRecorder) IncDocumentResult(r metrics.ResultLabel) {
	c.results[r]++
}
func (c *countingRecorder) ObserveDocumentDuration(time.Duration) {}
func (c *countingRecorder) ObserveBuildDuration(time.Duration)    { c.builds++ }

func TestRun_SkipsOutputNestedInSource(t *testing.T) {
	f := newFixture(t)
	f.output = filepath.Join(f.source, "public")
	f.cfg.Build.Output = f.output
	f.write(t, "a.md", "---\ntitle: A\nimage: /a.png\n---\n# A\n")

	b := f.builder()
	for range 3 {
		res, err := b.Run(context.Background(), Request{})
		require.NoError(t, err)
		require.Len(t, res.Documents, 1)
		assert.Equal(t, "a.md", res.Documents[0].Path)
	}

	rels, err := b.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, rels)
	assert.False(t, b.Selects("public/a/index.html"))
	assert.True(t, b.Selects("publications.md"))

	_, statErr := os.Stat(filepath.Join(f.output, "public"))
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, 1, f.read(t, "a/index.html").Find(`meta[property="og:image"]`).Length())
}

func TestNestedDir(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "public", nestedDir(root, filepath.Join(root, "public")))
	assert.Equal(t, "out/site", nestedDir(root, filepath.Join(root, "out", "site")))
	assert.Empty(t, nestedDir(root, root))
	assert.Empty(t, nestedDir(filepath.Join(root, "content"), filepath.Join(root, "public")))
	assert.Empty(t, nestedDir(filepath.Join(root, "content"), filepath.Join(root, "content-public")))
}
