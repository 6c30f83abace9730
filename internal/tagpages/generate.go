package tagpages

import (
	"fmt"
	"log/slog"

	"tagshelf/internal/logfields"
	"tagshelf/internal/pager"
	"tagshelf/internal/pathtmpl"
)

// Site is the document source the generator reads collections from.
type Site interface {
	Collection(name string) ([]Document, bool)
}

// Collections is a Site backed by a map of collection name to documents.
type Collections map[string][]Document

func (c Collections) Collection(name string) ([]Document, bool) {
	docs, ok := c[name]
	return docs, ok
}

// Result is the output of one generation pass.
type Result struct {
	// Pages in configuration order, then tag order, then page number.
	Pages    []*Page
	Registry Registry
}

// Generator assembles tag pages for collection_pages entries.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator returns a Generator logging to logger (slog.Default when nil).
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Generate runs every entry in order. Any failure aborts the pass and no
// pages are returned.
func (g *Generator) Generate(site Site, configs []Config) (Result, error) {
	res := Result{Registry: make(Registry)}
	for _, cfg := range configs {
		docs, ok := site.Collection(cfg.Collection)
		if !ok {
			g.logger.Debug("Collection not found, no tag pages generated", logfields.Collection(cfg.Collection))
		} else {
			g.logger.Debug("Found collection",
				logfields.Collection(cfg.Collection),
				slog.Int("documents", len(docs)))
		}

		entry, pages, err := g.Assemble(cfg, docs)
		if err != nil {
			return Result{}, fmt.Errorf("collection '%s' field '%s': %w", cfg.Collection, cfg.Field, err)
		}
		res.Pages = append(res.Pages, pages...)
		res.Registry.Add(entry)
	}
	g.logger.Debug("Generation complete", logfields.Pages(len(res.Pages)))
	return res, nil
}

// Assemble builds the pages and registry entry of one entry from docs.
func (g *Generator) Assemble(cfg Config, docs []Document) (Entry, []*Page, error) {
	tmpl, err := pathtmpl.Compile(cfg.Path, cfg.Field, cfg.Collection, cfg.Paginated())
	if err != nil {
		return Entry{}, nil, err
	}
	groups, err := GroupByTag(docs, cfg.Field)
	if err != nil {
		return Entry{}, nil, err
	}

	entry := Entry{
		Collection: cfg.Collection,
		Field:      cfg.Field,
		Template:   tmpl.String(),
		Permalink:  tmpl.Literal(pathtmpl.FieldPlaceholder).URLFor(1),
		Labels:     make(map[string]Label, len(groups)),
		Pages:      make(map[string][]Document, len(groups)),
	}

	var all []*Page
	owners := make(map[string]string)
	for _, group := range groups {
		tagPath := tmpl.For(group.Tag)
		if prev, ok := owners[tagPath.Tag()]; ok {
			g.logger.Warn("Tags share a slug, their pages overwrite each other",
				logfields.Collection(cfg.Collection),
				logfields.Tag(group.Tag),
				slog.String("other_tag", prev),
				slog.String("slug", tagPath.Tag()))
		}
		owners[tagPath.Tag()] = group.Tag

		pages, err := g.tagPages(cfg, group, tagPath)
		if err != nil {
			return Entry{}, nil, fmt.Errorf("tag '%s': %w", group.Tag, err)
		}

		label := Label{
			Pages:  pages,
			Index:  pages[0],
			Path:   tagPath.DirFor(1),
			Layout: cfg.Layout,
		}
		if cfg.Paginated() {
			perPage := cfg.PerPage
			label.Paginate = &perPage
		}
		entry.Labels[group.Tag] = label
		entry.Pages[group.Tag] = group.Documents
		all = append(all, pages...)

		g.logger.Debug("Generated tag pages",
			logfields.Collection(cfg.Collection),
			logfields.Tag(group.Tag),
			logfields.Pages(len(pages)))
	}

	g.logger.Info("Generated tag pages for collection",
		logfields.Collection(cfg.Collection),
		logfields.Field(cfg.Field),
		logfields.Template(entry.Template),
		slog.Int("tags", len(groups)),
		logfields.Pages(len(all)))

	return entry, all, nil
}

func (g *Generator) tagPages(cfg Config, group TagGroup, tagPath pathtmpl.TagPath) ([]*Page, error) {
	count := pager.TotalPages(len(group.Documents), cfg.PerPage)
	pages := make([]*Page, 0, count)
	for num := 1; num <= count; num++ {
		pg, err := pager.New(num, cfg.PerPage, group.Documents)
		if err != nil {
			return nil, err
		}
		page := &Page{
			Dir:     tagPath.DirFor(num),
			Name:    tagPath.FilenameFor(num),
			URL:     tagPath.URLFor(num),
			Layout:  cfg.Layout,
			Tag:     group.Tag,
			Slug:    tagPath.Tag(),
			Title:   group.Tag,
			Posts:   pg.Items,
			PageNum: num,
		}
		if cfg.Paginated() {
			page.Paginator = &Paginator{
				Page:             pg.Page,
				PerPage:          pg.PerPage,
				Posts:            pg.Items,
				TotalPosts:       pg.TotalItems,
				TotalPages:       pg.TotalPages,
				PreviousPage:     pg.PreviousPage,
				NextPage:         pg.NextPage,
				PreviousPagePath: tagPath.NavURL(pg.PreviousPage),
				NextPagePath:     tagPath.NavURL(pg.NextPage),
			}
		}
		pages = append(pages, page)
	}
	return pages, nil
}
