package story

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verkaro/bigif/bigif"
	"gopkg.in/yaml.v3"
)

const sampleBiff = `// title: Garden
=== index ===
// title: Home
// tags: start, intro
You are at the start.
* Go outside -> outside

=== the_outside ===
// Mood : Calm
# The Great Outdoors
Sunny.
`

func TestKnotMetadata(t *testing.T) {
	meta, err := knotMetadata([]byte(sampleBiff))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"title": "Home", "tags": "start, intro"}, meta["index"])
	assert.Equal(t, map[string]string{"mood": "Calm"}, meta["the_outside"])
	assert.Len(t, meta, 2)
}

func TestSplitTitle(t *testing.T) {
	t.Run("metadata wins", func(t *testing.T) {
		title, body := splitTitle("index", "# Heading\nBody", map[string]string{"title": "Home"})
		assert.Equal(t, "Home", title)
		assert.Equal(t, "Body", body)
	})
	t.Run("first heading", func(t *testing.T) {
		title, body := splitTitle("x", "# One\ntext\n# Two\n", nil)
		assert.Equal(t, "One", title)
		assert.Equal(t, "text", body)
	})
	t.Run("knot name", func(t *testing.T) {
		title, _ := splitTitle("the_great_hall", "text", nil)
		assert.Equal(t, "The Great Hall", title)
	})
}

func TestFrontMatter(t *testing.T) {
	fm, err := frontMatter(
		map[string]string{"title": "Garden", "author": "A. Writer"},
		`Say "yes"`,
		map[string]string{"title": "ignored", "tags": "start, , intro", "mood": "true"},
		map[string]bool{"tags": true},
	)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(fm, []byte("---\n")))
	require.True(t, bytes.HasSuffix(fm, []byte("---\n")))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(bytes.Trim(fm, "-\n"), &got))
	assert.Equal(t, map[string]any{
		"title":        `Say "yes"`,
		"story_title":  "Garden",
		"story_author": "A. Writer",
		"tags":         []any{"start", "intro"},
		"mood":         "true",
		"draft":        false,
	}, got)

	var order yaml.Node
	require.NoError(t, yaml.Unmarshal(bytes.Trim(fm, "-\n"), &order))
	var keys []string
	for i, n := range order.Content[0].Content {
		if i%2 == 0 {
			keys = append(keys, n.Value)
		}
	}
	assert.Equal(t, []string{"title", "story_title", "story_author", "mood", "tags", "draft"}, keys)
}

func TestBuildPaths(t *testing.T) {
	nodes := map[string]*bigif.StoryNode{
		"a": {KnotName: "index"},
		"b": {KnotName: "Dark Room", Scene: "Act 1/Cellar", State: map[string]bool{"lamp": true, "key": true, "door": false}},
	}
	paths := buildPaths(nodes, "content")
	assert.Equal(t, filepath.Join("content", "index.md"), paths["a"])
	assert.Equal(t, filepath.Join("content", "act-1", "cellar", "dark-room-key-lamp.md"), paths["b"])
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello-world", sanitize("Hello  World!"))
	assert.Equal(t, "a-b", sanitize("a--b"))
}

func TestCompile_MissingFile(t *testing.T) {
	_, err := Compile(filepath.Join(t.TempDir(), "nope.biff"), t.TempDir(), Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}
