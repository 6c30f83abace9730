package pathtmpl

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagPath_DirectoryTemplate(t *testing.T) {
	p := mustCompile(t, "docs/category/:field/page:num/index.html", "category", "docs", true).For("Alpha Tag")

	assert.Equal(t, "alpha-tag", p.Tag())

	assert.Equal(t, "docs/category/alpha-tag", p.DirFor(1))
	assert.Equal(t, IndexFile, p.FilenameFor(1))
	assert.Equal(t, "/docs/category/alpha-tag/", p.URLFor(1))

	assert.Equal(t, "docs/category/alpha-tag/page3", p.DirFor(3))
	assert.Equal(t, IndexFile, p.FilenameFor(3))
	assert.Equal(t, "/docs/category/alpha-tag/page3/", p.URLFor(3))
}

func TestTagPath_FileTemplate(t *testing.T) {
	p := mustCompile(t, "docs/category/:field.html", "category", "docs", false).For("Alpha Tag")

	assert.Equal(t, "docs/category", p.DirFor(1))
	assert.Equal(t, "alpha-tag.html", p.FilenameFor(1))
	assert.Equal(t, "/docs/category/alpha-tag.html", p.URLFor(1))
}

func TestTagPath_PaginatedFileTemplate(t *testing.T) {
	p := mustCompile(t, "docs/:field/page:num.html", "category", "docs", true).For("Go")

	assert.Equal(t, "docs/go", p.DirFor(1))
	assert.Equal(t, IndexFile, p.FilenameFor(1))
	assert.Equal(t, "/docs/go/", p.URLFor(1))

	assert.Equal(t, "docs/go", p.DirFor(2))
	assert.Equal(t, "page2.html", p.FilenameFor(2))
	assert.Equal(t, "/docs/go/page2.html", p.URLFor(2))
}

func TestTagPath_RootTemplates(t *testing.T) {
	p := mustCompile(t, ":field.html", "tags", "posts", false).For("News")
	assert.Equal(t, "", p.DirFor(1))
	assert.Equal(t, "/news.html", p.URLFor(1))

	q := mustCompile(t, ":field/page:num", "tags", "posts", true).For("News")
	assert.Equal(t, "/news/", q.URLFor(1))
	assert.Equal(t, "/news/page2/", q.URLFor(2))
}

func TestTagPath_LiteralPermalink(t *testing.T) {
	tpl := mustCompile(t, "docs/category", "category", "docs", true)
	assert.Equal(t, "/docs/category/:field/", tpl.Literal(FieldPlaceholder).URLFor(1))
	assert.Equal(t, "/docs/category/:field/", tpl.Literal(":field").URLFor(1))
}

func TestTagPath_NavURL(t *testing.T) {
	p := mustCompile(t, "docs/category", "category", "docs", true).For("alpha")
	assert.Nil(t, p.NavURL(nil))

	two := 2
	got := p.NavURL(&two)
	if assert.NotNil(t, got) {
		assert.Equal(t, "/docs/category/alpha/page2/", *got)
	}
}

func TestTagPath_FirstPageHasNoPageSegment(t *testing.T) {
	pageSegment := regexp.MustCompile(`/page\d+(/|\.html|$)`)
	raws := []string{"", "docs", "docs/:field/page:num", "docs/:field/page:num.html", "a/:field/b/page:num/c"}
	for _, raw := range raws {
		tpl := mustCompile(t, raw, "category", "docs", true)
		for _, value := range []string{"Alpha Tag", "x", "Ünïcode"} {
			url := tpl.For(value).URLFor(1)
			assert.NotRegexp(t, pageSegment, url, "template %s", tpl)
		}
	}
}
