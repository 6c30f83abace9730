package content

import (
	"path"
	"strings"
)

// Meta holds the front matter keys the generator itself understands.
type Meta struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Draft       bool   `yaml:"draft"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	ShowEditML  bool   `yaml:"showEditML"`
	StoryTitle  string `yaml:"story_title"`
	StoryAuthor string `yaml:"story_author"`
}

// Document is one content file after front matter parsing and rendering.
type Document struct {
	relPath    string
	collection string
	meta       Meta
	data       map[string]any
	html       string
}

// Path is the source path relative to the content directory, slash separated.
func (d *Document) Path() string { return d.relPath }

// Data returns every front matter field.
func (d *Document) Data() map[string]any { return d.data }

func (d *Document) Meta() Meta { return d.meta }

// Collection is the top-level content directory holding the document, or ""
// for files at the content root.
func (d *Document) Collection() string { return d.collection }

// HTML is the rendered body.
func (d *Document) HTML() string { return d.html }

// OutputPath is the rendered page relative to the output directory.
func (d *Document) OutputPath() string {
	return strings.TrimSuffix(d.relPath, path.Ext(d.relPath)) + ".html"
}

// URL is the site-absolute URL of the rendered page.
func (d *Document) URL() string {
	return "/" + d.OutputPath()
}

// Title falls back to the file name when the front matter has none.
func (d *Document) Title() string {
	if d.meta.Title != "" {
		return d.meta.Title
	}
	base := path.Base(d.relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}
