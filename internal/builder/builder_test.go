package builder

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagshelf/internal/config"
	"tagshelf/internal/tagpages"
)

const (
	testLayout = `{{ define "main" }}<title>{{ .Title }}</title>{{ template "header" . }}{{ .Content }}{{ template "footer" . }}{{ end }}`
	testHeader = `{{ define "header" }}<header>{{ .Site.Title }}</header>{{ end }}`
	testFooter = `{{ define "footer" }}<footer><a href="{{ .BaseHref }}index.html">home</a></footer>{{ end }}`
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
}

func newTestSite(t *testing.T, collectionPages any) config.SiteConfig {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"templates/simple/layout.html": testLayout,
		"templates/simple/header.html": testHeader,
		"templates/simple/footer.html": testFooter,
		"static/css/style.css":         "body {}",
		"content/index.md":             "---\ntitle: Home\n---\nWelcome",
		"content/docs/a.md":            "---\ntitle: Alpha\ntags: [Go, Web]\n---\nA",
		"content/docs/b.md":            "---\ntitle: Beta\ntags: go\n---\nB",
		"content/docs/c.md":            "---\ntitle: Gamma\ntags: [go]\n---\nC",
		"content/docs/d.md":            "---\ntitle: Delta\n---\nNo tags",
	})
	return config.SiteConfig{
		Title:           "Test Site",
		Author:          "Tester",
		Template:        "simple",
		ContentDir:      filepath.Join(root, "content"),
		TemplateDir:     filepath.Join(root, "templates"),
		StaticDir:       filepath.Join(root, "static"),
		OutputDir:       filepath.Join(root, "public"),
		CollectionPages: collectionPages,
	}
}

func build(t *testing.T, site config.SiteConfig) (Stats, error) {
	t.Helper()
	tmpl, err := LoadTemplates(site.TemplateDir, site.Template)
	require.NoError(t, err)
	return BuildSite(site, tmpl, BuildOptions{BuildID: "test", Logger: discardLogger()})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func readOutput(t *testing.T, site config.SiteConfig, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(site.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestBuildSite_TagPages(t *testing.T) {
	site := newTestSite(t, map[string]any{
		"collection": "docs",
		"field":      "tags",
		"path":       "/docs/:field/",
	})

	stats, err := build(t, site)
	require.NoError(t, err)
	assert.Equal(t, Stats{ContentPages: 5, TagPages: 3, Tags: 3}, stats)

	// "Go" and "go" are distinct tags sharing a slug; the later one wins.
	goPage := readOutput(t, site, "docs/go/index.html")
	assert.Contains(t, goPage, `<a href="../../docs/b.html">Beta</a>`)
	assert.Contains(t, goPage, `<a href="../../docs/c.html">Gamma</a>`)
	assert.NotContains(t, goPage, "pagination")

	webPage := readOutput(t, site, "docs/web/index.html")
	assert.Contains(t, webPage, `<a href="../../docs/a.html">Alpha</a>`)
	assert.Contains(t, webPage, "<title>Web | Test Site</title>")

	assert.Contains(t, readOutput(t, site, "docs/a.html"), "<title>Alpha</title>")
	assert.Contains(t, readOutput(t, site, "index.html"), "Welcome")
	assert.FileExists(t, filepath.Join(site.OutputDir, "css", "style.css"))
}

func TestBuildSite_Paginated(t *testing.T) {
	site := newTestSite(t, []any{map[string]any{
		"collection": "docs",
		"field":      "tags",
		"path":       "/docs/:field/page:num/",
		"paginate":   1,
	}})

	stats, err := build(t, site)
	require.NoError(t, err)
	// go: 2 pages (b, c), Go: 1 page overwritten at the same path, web: 1 page.
	assert.Equal(t, 4, stats.TagPages)

	first := readOutput(t, site, "docs/go/index.html")
	assert.Contains(t, first, "page 1 of 2")
	assert.Contains(t, first, `href="../../docs/go/page2/"`)
	assert.NotContains(t, first, "newer")

	second := readOutput(t, site, "docs/go/page2/index.html")
	assert.Contains(t, second, "page 2 of 2")
	assert.Contains(t, second, `href="../../../docs/go/"`)
	assert.NotContains(t, second, "older")
}

func TestBuildSite_ThemeLayout(t *testing.T) {
	site := newTestSite(t, map[string]any{
		"collection": "docs",
		"field":      "tags",
		"path":       "/topics/:field.html",
		"layout":     "topic.html",
	})
	writeFiles(t, filepath.Join(site.TemplateDir, "simple"), map[string]string{
		"layouts/topic.html": `<h1>{{ .Page.title }}</h1><p>{{ .Page.tag }}</p>{{ range .Posts }}[{{ .Title }}]{{ end }}{{ with index .Data.collection_pages "docs" "tags" }}{{ .permalink }}{{ end }}`,
	})

	_, err := build(t, site)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Web</h1><p>web</p>[Alpha]/topics/:field.html", readOutput(t, site, "topics/web.html"))
}

func TestBuildSite_MissingLayoutFallsBack(t *testing.T) {
	site := newTestSite(t, map[string]any{
		"collection": "docs",
		"field":      "tags",
		"path":       "/docs/:field/",
		"layout":     "nope",
	})

	_, err := build(t, site)
	require.NoError(t, err)
	assert.Contains(t, readOutput(t, site, "docs/web/index.html"), "Alpha")
}

func TestBuildSite_InvalidConfigWritesNothing(t *testing.T) {
	site := newTestSite(t, map[string]any{
		"collection": "docs",
		"field":      "tags",
		"path":       "/docs/tags.html",
	})

	_, err := build(t, site)
	require.Error(t, err)
	assert.NoDirExists(t, site.OutputDir)
}

func TestBuildSite_CleanDestination(t *testing.T) {
	site := newTestSite(t, nil)
	writeFiles(t, site.OutputDir, map[string]string{"stale.html": "old"})

	tmpl, err := LoadTemplates(site.TemplateDir, site.Template)
	require.NoError(t, err)
	stats, err := BuildSite(site, tmpl, BuildOptions{CleanDestination: true, Logger: discardLogger()})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TagPages)
	assert.NoFileExists(t, filepath.Join(site.OutputDir, "stale.html"))
	assert.FileExists(t, filepath.Join(site.OutputDir, "index.html"))
}

func TestLoadTemplates_DefaultLayout(t *testing.T) {
	site := newTestSite(t, nil)
	tmpl, err := LoadTemplates(site.TemplateDir, site.Template)
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup(layoutPrefix+tagpages.DefaultLayout))
}

func TestRel(t *testing.T) {
	rel := funcMap["rel"].(func(string, any) string)
	assert.Equal(t, "../../docs/go/", rel("../../", "/docs/go/"))
	assert.Equal(t, "./", rel("", "/"))
	assert.Equal(t, "", rel("../", nil))
	assert.Equal(t, "https://example.com/", rel("../", "https://example.com/"))
}

func TestRelativeRoot(t *testing.T) {
	tests := map[string]string{
		"index.html":               "",
		"docs/a.html":              "../",
		"docs/go/index.html":       "../../",
		"docs/go/page2/index.html": "../../../",
	}
	for in, want := range tests {
		assert.Equal(t, want, relativeRoot(in), in)
	}
}
