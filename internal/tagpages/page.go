package tagpages

import "path"

// Page is one generated listing page. Pages are plain records: rendering
// them, including layout lookup, is up to the caller.
type Page struct {
	Dir     string
	Name    string
	URL     string
	Layout  string
	Tag     string // raw field value
	Slug    string
	Title   string
	Posts   []Document
	PageNum int
	// Paginator is nil when pagination is disabled for the collection.
	Paginator *Paginator
}

// Paginator carries the navigation data of a paginated page.
type Paginator struct {
	Page             int
	PerPage          int
	Posts            []Document
	TotalPosts       int
	TotalPages       int
	PreviousPage     *int
	NextPage         *int
	PreviousPagePath *string
	NextPagePath     *string
}

// OutputPath is the page file relative to the output directory.
func (p *Page) OutputPath() string {
	return path.Join(p.Dir, p.Name)
}

// Data exposes the page to templates using the keys layouts refer to. As in
// Jekyll collection pages, "tag" is the slug substituted into the path and
// "title" the raw field value, also available as "label".
func (p *Page) Data() map[string]any {
	data := map[string]any{
		"layout":   p.Layout,
		"tag":      p.Slug,
		"label":    p.Tag,
		"slug":     p.Slug,
		"title":    p.Title,
		"posts":    p.Posts,
		"page_num": p.PageNum,
		"url":      p.URL,
		"dir":      p.Dir,
		"name":     p.Name,
	}
	if p.Paginator != nil {
		data["paginator"] = p.Paginator.Data()
	}
	return data
}

// Data exposes the paginator to templates. Missing neighbours are nil.
func (p *Paginator) Data() map[string]any {
	return map[string]any{
		"page":               p.Page,
		"per_page":           p.PerPage,
		"posts":              p.Posts,
		"total_posts":        p.TotalPosts,
		"total_pages":        p.TotalPages,
		"previous_page":      deref(p.PreviousPage),
		"next_page":          deref(p.NextPage),
		"previous_page_path": deref(p.PreviousPagePath),
		"next_page_path":     deref(p.NextPagePath),
	}
}

func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
