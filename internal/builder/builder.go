// internal/builder/builder.go
package builder

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"tagshelf/internal/config"
	"tagshelf/internal/content"
	"tagshelf/internal/logfields"
	"tagshelf/internal/tagpages"
)

type BuildOptions struct {
	CleanDestination bool
	Unsafe           bool
	// BuildID tags every log line of one build.
	BuildID string
	Logger  *slog.Logger
}

func (o BuildOptions) logger() *slog.Logger {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if o.BuildID != "" {
		logger = logger.With(logfields.BuildID(o.BuildID))
	}
	return logger
}

// Stats summarises one build.
type Stats struct {
	ContentPages int
	TagPages     int
	Tags         int
}

// BuildSite renders the content directory and the configured tag pages into
// the output directory, then copies static assets. Tag page generation runs
// before anything is written, so a configuration error leaves the output
// directory untouched.
func BuildSite(site config.SiteConfig, tmpl *template.Template, opts BuildOptions) (Stats, error) {
	logger := opts.logger()

	docs, err := content.Load(site.ContentDir, content.Options{Unsafe: opts.Unsafe, Logger: logger})
	if err != nil {
		return Stats{}, err
	}
	plan, err := PlanTagPages(site, docs, logger)
	if err != nil {
		return Stats{}, err
	}

	if err := prepareOutput(site.OutputDir, opts.CleanDestination, logger); err != nil {
		return Stats{}, err
	}

	siteData := map[string]any{"collection_pages": plan.Registry.Data()}
	written := make(map[string]bool, len(docs.Documents))
	stats := Stats{}

	for _, doc := range docs.Documents {
		meta := doc.Meta()
		baseHref := relativeRoot(doc.OutputPath())
		pageData := PageData{
			Content:     template.HTML(doc.HTML()),
			Title:       meta.Title,
			BaseHref:    baseHref,
			Description: meta.Description,
			Site:        site,
			ShowEditML:  meta.ShowEditML,
			StoryTitle:  meta.StoryTitle,
			Params:      doc.Data(),
			Data:        siteData,
		}
		if meta.StoryAuthor != "" {
			pageData.Author = meta.StoryAuthor
		} else {
			pageData.Author = site.Author
		}
		if pageData.Description == "" {
			pageData.Description = site.Description
		}

		outputPath := filepath.Join(site.OutputDir, filepath.FromSlash(doc.OutputPath()))
		if err := renderPage(tmpl, "main", outputPath, pageData); err != nil {
			return stats, fmt.Errorf("failed to render page %s: %w", doc.Path(), err)
		}
		written[doc.OutputPath()] = true
		stats.ContentPages++
	}

	for _, page := range plan.Pages {
		if written[page.OutputPath()] {
			logger.Warn("Tag page overwrites a content page", logfields.Path(page.OutputPath()))
		}
		name := layoutPrefix + page.Layout
		if tmpl.Lookup(name) == nil {
			logger.Warn("Layout not found, using the default collection layout",
				logfields.Layout(page.Layout), logfields.Path(page.OutputPath()))
			name = layoutPrefix + tagpages.DefaultLayout
		}

		outputPath := filepath.Join(site.OutputDir, filepath.FromSlash(page.OutputPath()))
		if err := renderPage(tmpl, name, outputPath, tagPageData(site, page, siteData)); err != nil {
			return stats, fmt.Errorf("failed to render tag page %s: %w", page.OutputPath(), err)
		}
		written[page.OutputPath()] = true
		stats.TagPages++
	}
	stats.Tags = countTags(plan.Registry)

	if err := copyStaticAssets(site.StaticDir, site.OutputDir, logger); err != nil {
		return stats, err
	}
	logger.Info("Build finished",
		slog.Int("content_pages", stats.ContentPages),
		slog.Int("tag_pages", stats.TagPages))
	return stats, nil
}

// PlanTagPages generates the tag pages of site without rendering them.
func PlanTagPages(site config.SiteConfig, docs *content.Site, logger *slog.Logger) (tagpages.Result, error) {
	configs, err := tagpages.ParseConfigs(site.CollectionPages, logger)
	if err != nil {
		return tagpages.Result{}, err
	}
	return tagpages.NewGenerator(logger).Generate(collectionsOf(docs), configs)
}

// relativeRoot returns the "../" prefix leading from the page at outputPath
// (slash separated, relative to the output dir) back to the site root.
func relativeRoot(outputPath string) string {
	dir := path.Dir(outputPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}

// countTags counts tags across every collection and field.
func countTags(reg tagpages.Registry) int {
	n := 0
	for _, fields := range reg {
		for _, entry := range fields {
			n += len(entry.Labels)
		}
	}
	return n
}

func collectionsOf(docs *content.Site) tagpages.Collections {
	collections := make(tagpages.Collections)
	for _, name := range docs.CollectionNames() {
		members, _ := docs.Collection(name)
		list := make([]tagpages.Document, len(members))
		for i, d := range members {
			list[i] = d
		}
		collections[name] = list
	}
	return collections
}

func tagPageData(site config.SiteConfig, page *tagpages.Page, siteData map[string]any) PageData {
	baseHref := relativeRoot(page.OutputPath())
	pageMap := page.Data()
	data := PageData{
		Title:       page.Title,
		BaseHref:    baseHref,
		Author:      site.Author,
		Description: site.Description,
		Site:        site,
		Page:        pageMap,
		Posts:       make([]PostLink, 0, len(page.Posts)),
		Data:        siteData,
	}
	if p, ok := pageMap["paginator"].(map[string]any); ok {
		data.Paginator = p
	}
	for _, d := range page.Posts {
		data.Posts = append(data.Posts, postLink(d, baseHref))
	}
	return data
}

func postLink(d tagpages.Document, baseHref string) PostLink {
	link := PostLink{Params: d.Data()}
	if doc, ok := d.(*content.Document); ok {
		link.Title = doc.Title()
		link.URL = doc.URL()
		link.Description = doc.Meta().Description
		link.Date = doc.Meta().Date
	} else {
		link.Title, _ = d.Data()["title"].(string)
		link.URL = "/" + d.Path()
	}
	link.Href = baseHref + link.URL[1:]
	return link
}

func prepareOutput(outputDir string, clean bool, logger *slog.Logger) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	if !clean {
		return nil
	}
	logger.Info("Cleaning destination directory", logfields.Path(outputDir))
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// copyStaticAssets copies files from the static directory to the output directory.
func copyStaticAssets(staticDir, outputDir string, logger *slog.Logger) error {
	// Extensions considered static assets.
	allowedExts := map[string]bool{
		".css": true, ".js": true, ".txt": true, ".svg": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".ico": true, ".woff": true, ".woff2": true,
	}
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		logger.Debug("No static directory", logfields.Path(staticDir))
		return nil
	}
	return filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !allowedExts[filepath.Ext(info.Name())] {
			return nil
		}

		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		return copyFile(path, filepath.Join(outputDir, rel))
	})
}

func copyFile(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return err
	}
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(to)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

// renderPage executes the named template and writes the output to a file.
func renderPage(tmpl *template.Template, name, outPath string, data PageData) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	return tmpl.ExecuteTemplate(outFile, name, data)
}
