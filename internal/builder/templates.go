package builder

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tagshelf/internal/tagpages"
)

// layoutPrefix namespaces collection layouts inside the template set.
const layoutPrefix = "layouts/"

// LoadTemplates parses the theme's layout, header and footer files plus every
// file under <theme>/layouts as a named collection layout. A built-in listing
// layout is registered as the default collection layout when the theme has none.
func LoadTemplates(templateDir, templateName string) (*template.Template, error) {
	path := filepath.Join(templateDir, templateName)
	tmpl, err := template.New(templateName).Funcs(funcMap).ParseFiles(
		filepath.Join(path, "layout.html"),
		filepath.Join(path, "header.html"),
		filepath.Join(path, "footer.html"),
	)
	if err != nil {
		return nil, err
	}

	layoutsDir := filepath.Join(path, "layouts")
	if _, err := os.Stat(layoutsDir); err == nil {
		err := filepath.WalkDir(layoutsDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(layoutsDir, p)
			if err != nil {
				return err
			}
			src, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			name := tagpages.NormalizeLayout(filepath.ToSlash(rel))
			if _, err := tmpl.New(layoutPrefix + name).Parse(string(src)); err != nil {
				return fmt.Errorf("failed to parse layout %s: %w", rel, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if tmpl.Lookup(layoutPrefix+tagpages.DefaultLayout) == nil {
		if _, err := tmpl.New(layoutPrefix + tagpages.DefaultLayout).Parse(defaultCollectionLayout); err != nil {
			return nil, err
		}
	}
	return tmpl, nil
}

var funcMap = template.FuncMap{
	// rel turns a site-absolute URL into one relative to base. Nil and empty
	// targets give "".
	"rel": func(base string, target any) string {
		s, _ := target.(string)
		if s == "" {
			return ""
		}
		if !strings.HasPrefix(s, "/") {
			return s
		}
		rel := base + strings.TrimPrefix(s, "/")
		if rel == "" {
			return "./"
		}
		return rel
	},
}

const defaultCollectionLayout = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Title }} | {{ .Site.Title }}</title>
  <link rel="stylesheet" href="{{ .BaseHref }}css/style.css">
</head>
<body>
  {{ template "header" . }}
  <main>
    <h1>{{ .Title }}</h1>
    <ul>
    {{ range .Posts }}
      <li><a href="{{ .Href }}">{{ .Title }}</a></li>
    {{ end }}
    </ul>
    {{ with .Paginator }}
    <nav class="pagination">
      {{ if .previous_page_path }}<a href="{{ rel $.BaseHref .previous_page_path }}">newer</a>{{ end }}
      <span>page {{ .page }} of {{ .total_pages }}</span>
      {{ if .next_page_path }}<a href="{{ rel $.BaseHref .next_page_path }}">older</a>{{ end }}
    </nav>
    {{ end }}
  </main>
  {{ template "footer" . }}
</body>
</html>
`
