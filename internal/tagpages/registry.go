package tagpages

// Label summarizes the pages generated for one tag.
type Label struct {
	Pages []*Page
	Index *Page
	// Path is the output directory of the first page.
	Path   string
	Layout string
	// Paginate is the page size, nil when pagination is disabled.
	Paginate *int
}

// Entry summarizes one (collection, field) generation.
type Entry struct {
	Collection string
	Field      string
	Template   string
	// Permalink is the first-page URL with ":field" left in place.
	Permalink string
	Labels    map[string]Label
	Pages     map[string][]Document
}

// Registry holds entries keyed by collection, then field.
type Registry map[string]map[string]Entry

// Add stores e, replacing any entry for the same collection and field.
func (r Registry) Add(e Entry) {
	fields, ok := r[e.Collection]
	if !ok {
		fields = make(map[string]Entry)
		r[e.Collection] = fields
	}
	fields[e.Field] = e
}

// Lookup returns the entry for collection and field.
func (r Registry) Lookup(collection, field string) (Entry, bool) {
	e, ok := r[collection][field]
	return e, ok
}

// Data renders the registry as nested maps for templates:
// collection -> field -> {template, permalink, labels, pages}.
func (r Registry) Data() map[string]any {
	out := make(map[string]any, len(r))
	for collection, fields := range r {
		byField := make(map[string]any, len(fields))
		for field, e := range fields {
			byField[field] = e.Data()
		}
		out[collection] = byField
	}
	return out
}

// Data renders one entry for templates.
func (e Entry) Data() map[string]any {
	labels := make(map[string]any, len(e.Labels))
	for tag, l := range e.Labels {
		pages := make([]map[string]any, 0, len(l.Pages))
		for _, p := range l.Pages {
			pages = append(pages, p.Data())
		}
		var index map[string]any
		if l.Index != nil {
			index = l.Index.Data()
		}
		labels[tag] = map[string]any{
			"pages":    pages,
			"index":    index,
			"path":     l.Path,
			"layout":   l.Layout,
			"paginate": deref(l.Paginate),
		}
	}
	docs := make(map[string]any, len(e.Pages))
	for tag, d := range e.Pages {
		docs[tag] = d
	}
	return map[string]any{
		"template":  e.Template,
		"permalink": e.Permalink,
		"labels":    labels,
		"pages":     docs,
	}
}
