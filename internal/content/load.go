// Package content reads the content directory into rendered documents grouped
// by collection.
package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"tagshelf/internal/logfields"
)

type Options struct {
	// Unsafe disables HTML sanitizing of rendered bodies.
	Unsafe bool
	Logger *slog.Logger
}

// Site is every published document of a content directory.
type Site struct {
	Documents   []*Document
	collections map[string][]*Document
}

// Collection returns the documents of a top-level content directory in path order.
func (s *Site) Collection(name string) ([]*Document, bool) {
	docs, ok := s.collections[name]
	return docs, ok
}

// CollectionNames returns the collection names in sorted order.
func (s *Site) CollectionNames() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load walks contentDir and parses every .md and .html file. Drafts are
// skipped, except for the index, about and menu pages.
func Load(contentDir string, opts Options) (*Site, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	site := &Site{collections: make(map[string][]*Document)}
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if ext != ".html" && ext != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		doc, err := readDocument(path, filepath.ToSlash(relPath), ext == ".md", opts.Unsafe)
		if err != nil {
			return err
		}
		if doc.meta.Draft && !isExceptionPage(strings.TrimSuffix(doc.relPath, ext)) {
			logger.Debug("Skipping draft", logfields.Path(doc.relPath))
			return nil
		}

		site.Documents = append(site.Documents, doc)
		if doc.collection != "" {
			site.collections[doc.collection] = append(site.collections[doc.collection], doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded content",
		logfields.Path(contentDir),
		slog.Int("documents", len(site.Documents)),
		slog.Int("collections", len(site.collections)))
	return site, nil
}

func readDocument(path, relPath string, markdown, unsafe bool) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("content file is not valid UTF-8: %s", path)
	}

	fm, body, _, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to split front matter of %s: %w", path, err)
	}
	meta, data, err := parseFrontMatter(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse front matter of %s: %w", path, err)
	}
	html, err := renderBody(body, markdown, unsafe)
	if err != nil {
		return nil, fmt.Errorf("failed to process content for %s: %w", path, err)
	}

	collection := ""
	if dir, _, found := strings.Cut(relPath, "/"); found {
		collection = dir
	}
	return &Document{
		relPath:    relPath,
		collection: collection,
		meta:       meta,
		data:       data,
		html:       html,
	}, nil
}

// isExceptionPage reports pages that are published even when marked draft.
func isExceptionPage(slug string) bool {
	return slug == "index" || slug == "about" || slug == "menu"
}
