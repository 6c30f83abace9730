package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body, had, err := splitFrontMatter([]byte("---\ntitle: x\n---\n# Body\n"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: x\n", string(fm))
	assert.Equal(t, "# Body\n", string(body))

	fm, body, had, err = splitFrontMatter([]byte("---\r\ntitle: x\r\n---\r\nBody"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: x\r\n", string(fm))
	assert.Equal(t, "Body", string(body))

	_, body, had, err = splitFrontMatter([]byte("# Just a body\n---\n"))
	require.NoError(t, err)
	assert.False(t, had)
	assert.Equal(t, "# Just a body\n---\n", string(body))

	fm, body, had, err = splitFrontMatter([]byte("---\n---\nBody"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Empty(t, fm)
	assert.Equal(t, "Body", string(body))

	fm, body, had, err = splitFrontMatter([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: x\n", string(fm))
	assert.Empty(t, body)

	_, _, _, err = splitFrontMatter([]byte("---\ntitle: x\n# no close\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestRewriteMarkdownLink(t *testing.T) {
	tests := map[string]string{
		"other.md":                 "other.html",
		"../a/b.md#intro":          "../a/b.html#intro",
		"page.md?x=1":              "page.html?x=1",
		"https://example.com/x.md": "https://example.com/x.md",
		"image.png":                "image.png",
		"#top":                     "#top",
	}
	for in, want := range tests {
		assert.Equal(t, want, string(rewriteMarkdownLink([]byte(in))), in)
	}
}

func TestLoad_GroupsCollections(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "---\ntitle: Home\n---\nWelcome, see [docs](docs/b.md).\n")
	writeFile(t, root, "docs/b.md", "---\ntitle: B\ncategory: [Reference, Usage]\n---\nB body\n")
	writeFile(t, root, "docs/a.md", "---\ntitle: A\ncategory: Getting Started\n---\nA body\n")
	writeFile(t, root, "docs/nested/c.html", "---\ncategory: Reference\n---\n<p>C</p>\n")
	writeFile(t, root, "docs/draft.md", "---\ntitle: Draft\ndraft: true\n---\nhidden\n")
	writeFile(t, root, "docs/notes.txt", "ignored")

	site, err := Load(root, Options{})
	require.NoError(t, err)

	assert.Len(t, site.Documents, 4)
	assert.Equal(t, []string{"docs"}, site.CollectionNames())

	docs, ok := site.Collection("docs")
	require.True(t, ok)
	require.Len(t, docs, 3)
	assert.Equal(t, "docs/a.md", docs[0].Path())
	assert.Equal(t, "docs/b.md", docs[1].Path())
	assert.Equal(t, "docs/nested/c.html", docs[2].Path())

	assert.Equal(t, "A", docs[0].Title())
	assert.Equal(t, "c", docs[2].Title())
	assert.Equal(t, "/docs/a.html", docs[0].URL())
	assert.Equal(t, "docs/nested/c.html", docs[2].OutputPath())
	assert.Equal(t, []any{"Reference", "Usage"}, docs[1].Data()["category"])
	assert.Equal(t, "Getting Started", docs[0].Data()["category"])

	home := site.Documents[len(site.Documents)-1]
	assert.Equal(t, "index.md", home.Path())
	assert.Equal(t, "", home.Collection())
	assert.Contains(t, home.HTML(), `href="docs/b.html"`)

	_, ok = site.Collection("articles")
	assert.False(t, ok)
}

func TestLoad_SanitizesUnlessUnsafe(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page.md", "Hello <script>alert(1)</script>\n")

	site, err := Load(root, Options{})
	require.NoError(t, err)
	assert.NotContains(t, site.Documents[0].HTML(), "<script>")

	site, err = Load(root, Options{Unsafe: true})
	require.NoError(t, err)
	assert.Contains(t, site.Documents[0].HTML(), "<script>")
}

func TestLoad_DraftExceptions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "about.md", "---\ndraft: true\n---\nAbout\n")
	writeFile(t, root, "post.md", "---\ndraft: true\n---\nPost\n")

	site, err := Load(root, Options{})
	require.NoError(t, err)
	require.Len(t, site.Documents, 1)
	assert.Equal(t, "about.md", site.Documents[0].Path())
}

func TestLoad_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bad.md", "---\ntitle: [unclosed\n---\nbody\n")
	_, err := Load(root, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse front matter")

	root = t.TempDir()
	writeFile(t, root, "latin1.md", string([]byte{0xff, 0xfe, 'x'}))
	_, err = Load(root, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid UTF-8")

	_, err = Load(filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
}
