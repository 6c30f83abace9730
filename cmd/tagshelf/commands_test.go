package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagshelf/internal/config"
	"tagshelf/internal/tagpages"
)

type testDoc struct {
	path string
	data map[string]any
}

func (d testDoc) Path() string         { return d.path }
func (d testDoc) Data() map[string]any { return d.data }

func TestPrintPlan(t *testing.T) {
	docs := tagpages.Collections{"docs": {
		testDoc{"docs/a.md", map[string]any{"tags": []any{"go", "web"}}},
		testDoc{"docs/b.md", map[string]any{"tags": "go"}},
	}}
	cfg := tagpages.Config{Collection: "docs", Field: "tags", Path: "/docs/:field/page:num/", Layout: "collection_layout", PerPage: 1}
	res, err := tagpages.NewGenerator(nil).Generate(docs, []tagpages.Config{cfg})
	require.NoError(t, err)

	var out bytes.Buffer
	printPlan(&out, res.Registry)
	s := out.String()
	assert.Contains(t, s, "docs · tags")
	assert.Contains(t, s, "(2 posts)")
	assert.Contains(t, s, "/docs/go/\n")
	assert.Contains(t, s, "/docs/go/page2/\n")
	assert.Contains(t, s, "/docs/web/\n")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("/docs/go/")), bytes.Index(out.Bytes(), []byte("/docs/web/")))
}

func TestPrintPlan_Empty(t *testing.T) {
	var out bytes.Buffer
	printPlan(&out, tagpages.Registry{})
	assert.Contains(t, out.String(), "No collection_pages configured.")
}

func TestStoryOutputDir(t *testing.T) {
	assert.Equal(t, "content", storyOutputDir("content", "site.biff"))
	assert.Equal(t, filepath.Join("content", "garden"), storyOutputDir("content", filepath.Join("stories", "garden.biff")))
}

func TestListFields(t *testing.T) {
	site := config.SiteConfig{CollectionPages: []any{
		map[string]any{"collection": "docs", "field": "tags"},
		map[string]any{"collection": "posts", "field": "tags"},
		map[string]any{"collection": "posts", "field": "category"},
	}}
	fields, err := listFields(site, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tags", "category"}, fields)

	_, err = listFields(config.SiteConfig{CollectionPages: "nope"}, nil)
	require.Error(t, err)
}
