// internal/builder/models.go
package builder

import (
	"html/template"

	"tagshelf/internal/config"
)

// PageData is the struct passed to templates, for content pages and tag
// pages alike.
type PageData struct {
	Content     template.HTML
	Title       string
	BaseHref    string
	Author      string
	Description string
	Site        config.SiteConfig
	ShowEditML  bool
	StoryTitle  string
	// Params holds the front matter of a content page.
	Params map[string]any

	// Page is set on tag pages: layout, tag, slug, title, posts, page_num,
	// url and, when paginated, paginator.
	Page map[string]any
	// Paginator is Page["paginator"], nil when not paginated.
	Paginator map[string]any
	// Posts are the documents listed on a tag page.
	Posts []PostLink
	// Data is site-wide data; Data.collection_pages holds the tag registry.
	Data map[string]any
}

// PostLink is a document as listed on a tag page.
type PostLink struct {
	Title       string
	URL         string
	Href        string // relative to the current page
	Description string
	Date        string
	Params      map[string]any
}
