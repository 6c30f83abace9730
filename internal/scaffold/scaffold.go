// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"tagshelf/internal/config"
	"tagshelf/internal/slug"
)

// ErrSiteExists is returned when the target directory already holds a site.
var ErrSiteExists = errors.New("site already exists")

// ErrContentExists is returned when the new content file is already there.
var ErrContentExists = errors.New("content already exists")

// CreateNewSite writes a starter site into dir: config with a docs tag
// collection, sample content, the simple theme and its collection layout.
func CreateNewSite(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "site.yaml")); err == nil {
		return fmt.Errorf("%w: %s", ErrSiteExists, dir)
	}

	dirs := []string{
		"content/docs", "static/css", "static/js", "static/images",
		"templates/simple/layouts", "archetypes",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	files := map[string]string{
		"site.yaml":                                       siteYamlContent,
		"site.biff":                                       siteBiffContent,
		"content/index.md":                                indexMdContent,
		"content/docs/getting-started.md":                 gettingStartedMdContent,
		"content/docs/tag-pages.md":                       tagPagesMdContent,
		"static/css/style.css":                            staticCssContent,
		"templates/simple/layout.html":                    templateLayoutHtmlContent,
		"templates/simple/header.html":                    templateHeaderHtmlContent,
		"templates/simple/footer.html":                    templateFooterHtmlContent,
		"templates/simple/layouts/collection_layout.html": templateCollectionLayoutHtmlContent,
		"archetypes/default.md":                           archetypeDefaultMdContent,
	}
	for path, content := range files {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(path)), []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	return nil
}

// CreateNewContent renders the default archetype into
// <content_dir>/<contentType>/<slug>.md and returns the path written.
// Relative directories resolve against the directory holding configPath.
func CreateNewContent(contentType, title, configPath string) (string, error) {
	name := slug.Make(title)
	if name == "" {
		return "", fmt.Errorf("title %q has no usable characters for a file name", title)
	}
	site, err := config.LoadSiteConfig(configPath)
	if err != nil {
		return "", err
	}
	root := filepath.Dir(configPath)
	site = site.Within(root)

	path := filepath.Join(site.ContentDir, contentType, name+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrContentExists, path)
	}

	archetypePath := filepath.Join(root, "archetypes", "default.md")
	tmplBytes, err := os.ReadFile(archetypePath)
	if err != nil {
		return "", fmt.Errorf("could not read archetype file %s: %w", archetypePath, err)
	}
	tmpl, err := template.New("archetype").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", archetypePath, err)
	}

	data := struct {
		Title  string
		Author string
		Type   string
	}{
		Title:  title,
		Author: site.Author,
		Type:   contentType,
	}
	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, output.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Constants for default file contents
const siteYamlContent = `title: My Tag Shelf
author: Your Name
baseurl: /
description: A new site powered by tagshelf.
template: simple

# Every entry groups one collection (a top-level folder of content/) by a
# front matter field and writes a listing page per value.
collection_pages:
  - collection: docs
    field: tags
    path: /docs/tags/:field/page:num/
    paginate: 10
    layout: collection_layout
`

const siteBiffContent = `// title: My Enchanted Garden
// author: A. Writer
// description: A mazing site.
// STATES: has_water, has_seed
// FLAG-STATES: unlocked_gate, puzzle_solved
// LOCAL-STATES: door

=== index ===
// title: Home
// tags: start
You are at the start.
* Go outside -> outside

=== outside ===
// title: The Great Outdoors
// tags: garden, ending
- {door == true}
  You are outside. This is the end.
  Hope you had fun

END
`

const indexMdContent = `---
title: Home
---

Welcome to your new site. Read the [docs](docs/getting-started.md).
`

const gettingStartedMdContent = `---
title: Getting Started
tags: [intro, setup]
---

Run ` + "`tagshelf gen`" + ` to build the site into ` + "`public/`" + `.
`

const tagPagesMdContent = `---
title: Tag Pages
tags: [intro, collections]
---

Every tag in the docs collection gets its own listing page.
`

const archetypeDefaultMdContent = `---
title: {{.Title}}
author: {{.Author}}
description:
tags: []
---

Write something meaningful here.
`

const staticCssContent = `body {
  font-family: sans-serif;
  max-width: 700px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
  background: #fdfdfd;
}
.header-line {
  display: flex;
  justify-content: space-between;
  align-items: baseline;
  gap: 1em;
  margin-bottom: 2em;
  flex-wrap: wrap;
}
.site-name { font-size: 0.9em; color: #777; font-style: italic; flex-grow: 1; text-align: left; }
.story-title { font-size: 1.2em; font-weight: 400; flex-grow: 1; text-align: center; }
.story-author { font-size: 0.9em; color: #777; font-style: italic; flex-grow: 1; text-align: right; }
main { margin-bottom: 3em; }
footer { text-align: center; font-size: 0.9em; color: #555; }
footer nav a { color: #444; text-decoration: none; margin: 0 0.5em; }
footer nav a:hover { text-decoration: underline; }
ul { margin-left: 1.2em; padding-left: 1.2em; list-style-type: disc; }
li { margin-bottom: 0.25em; }
nav.pagination, nav.tags { text-align: center; margin-top: 1em; }
nav.tags a { margin: 0 0.25em; }
hr { border: none; border-top: 1px solid #ccc; width: 33%; margin: 2em auto; }
`
const templateLayoutHtmlContent = `{{ define "main" }}
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Title }} | {{ if .StoryTitle }}{{ .StoryTitle }}{{ else }}{{ .Site.Title }}{{ end }}</title>
  <link rel="stylesheet" href="{{ .BaseHref }}css/style.css">
{{ if .Description }}
  <meta name="description" content="{{ .Description }}">
{{ else }}
  <meta name="description" content="{{ .Site.Description }}">
{{ end }}
{{ if .ShowEditML }}
<style>
  .cm-add { background-color: #d4edda; color: #155724; }
  .cm-del { background-color: #f8d7da; color: #721c24; text-decoration: line-through; }
  .cm-hl { background-color: #fff3cd; color: #856404; }
  .cm-com { background-color: #eae3d3; color: #6e4c1e; font-style: italic; }
</style>
{{ end }}
</head>
<body>
  {{ template "header" . }}
  <main>
    {{ .Content }}
  </main>
  {{ template "footer" . }}
</body>
</html>
{{ end }}`

const templateCollectionLayoutHtmlContent = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Title }} | {{ .Site.Title }}</title>
  <link rel="stylesheet" href="{{ .BaseHref }}css/style.css">
  <meta name="description" content="{{ .Site.Description }}">
</head>
<body>
  {{ template "header" . }}
  <main>
    <h1>Tagged: {{ .Page.title }}</h1>
    <ul>
    {{ range .Posts }}
      <li><a href="{{ .Href }}">{{ .Title }}</a>{{ if .Description }} - {{ .Description }}{{ end }}</li>
    {{ end }}
    </ul>
    {{ with .Paginator }}
    <nav class="pagination">
      {{ if .previous_page_path }}<a href="{{ rel $.BaseHref .previous_page_path }}">&larr; newer</a>{{ end }}
      <span>page {{ .page }} of {{ .total_pages }}</span>
      {{ if .next_page_path }}<a href="{{ rel $.BaseHref .next_page_path }}">older &rarr;</a>{{ end }}
    </nav>
    {{ end }}
    {{ with .Data.collection_pages.docs }}{{ with .tags }}
    <hr>
    <nav class="tags">
      {{ range $tag, $label := .labels }}<a href="{{ rel $.BaseHref $label.index.url }}">{{ $tag }}</a> {{ end }}
    </nav>
    {{ end }}{{ end }}
  </main>
  {{ template "footer" . }}
</body>
</html>
`

const templateHeaderHtmlContent = `{{ define "header" }}
<header>
  <div class="header-line">
    <div class="site-name">{{ .Site.Title }}</div>
    {{/* Use the global story title if it exists, otherwise fallback to site title */}}
    <div class="story-title">{{ if .StoryTitle }}{{ .StoryTitle }}{{ else }}{{ .Site.Title }}{{ end }}</div>
    {{/* Display the author, preferring the biff author over the site author */}}
    {{ if .Author }}<div class="story-author">{{ .Author }}</div>{{ end }}
  </div>
</header>
{{ end }}`

const templateFooterHtmlContent = `{{ define "footer" }}
<footer>
  <nav>
    <a href="{{ .BaseHref }}index.html">home</a>
  </nav>
  <div class="copyright">
    &copy; {{ .Site.Title }}
  </div>
</footer>
{{ end }}`
