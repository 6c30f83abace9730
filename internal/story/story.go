// internal/story/story.go
package story

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/verkaro/bigif/bigif"
	"github.com/verkaro/editml-go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"tagshelf/internal/logfields"
)

type Options struct {
	// ListFields are knot metadata keys written as YAML lists, split on commas.
	// Pass the fields configured in collection_pages so knots can be grouped.
	ListFields []string
	Logger     *slog.Logger
}

var (
	knotRegex    = regexp.MustCompile(`^\s*===\s*([\w-]+)\s*===\s*$`)
	unsafeChars  = regexp.MustCompile(`[^\w- ]+`)
	repeatedDash = regexp.MustCompile(`-+`)
)

// knotMetadata reads the comment metadata ("// key: value") that follows each
// knot header. bigif drops comments, so this runs on the raw source.
func knotMetadata(biffData []byte) (map[string]map[string]string, error) {
	data := make(map[string]map[string]string)
	var currentKnot string

	scanner := bufio.NewScanner(bytes.NewReader(biffData))
	for scanner.Scan() {
		line := strings.TrimFunc(scanner.Text(), unicode.IsSpace)

		if matches := knotRegex.FindStringSubmatch(line); len(matches) > 1 {
			currentKnot = matches[1]
			if data[currentKnot] == nil {
				data[currentKnot] = make(map[string]string)
			}
			continue
		}

		if currentKnot != "" && strings.HasPrefix(line, "//") {
			comment := strings.TrimSpace(strings.TrimPrefix(line, "//"))
			if key, value, ok := strings.Cut(comment, ":"); ok {
				data[currentKnot][strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// cleanView resolves EditML markup in a knot body into plain markdown.
func cleanView(raw string) (string, error) {
	nodes, parseIssues := editml.Parse(raw)
	if len(parseIssues) > 0 && parseIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml parsing error: %s", parseIssues[0].Message)
	}
	clean, transformIssues := editml.TransformCleanView(nodes)
	if len(transformIssues) > 0 && transformIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml transformation error: %s", transformIssues[0].Message)
	}
	return clean, nil
}

// splitTitle picks the page title (metadata, then the first H1, then the knot
// name) and returns the body without its H1 lines.
func splitTitle(knotName, content string, knotMeta map[string]string) (string, string) {
	title := knotMeta["title"]
	var h1 string
	var lines []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimFunc(line, unicode.IsSpace)
		if strings.HasPrefix(trimmed, "# ") {
			if h1 == "" {
				h1 = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			}
			continue
		}
		lines = append(lines, line)
	}
	body := strings.TrimSpace(strings.Join(lines, "\n"))

	if title == "" {
		title = h1
	}
	if title == "" {
		title = cases.Title(language.Und).String(strings.ReplaceAll(knotName, "_", " "))
	}
	return title, body
}

// Compile turns a .biff story into one markdown document per story node under
// outDir and returns the number of files written.
func Compile(biffPath, outDir string, opts Options) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	biffData, err := os.ReadFile(biffPath)
	if err != nil {
		return 0, err
	}

	meta, err := knotMetadata(biffData)
	if err != nil {
		return 0, fmt.Errorf("failed to pre-parse biff for front matter: %w", err)
	}

	jsonBytes, err := bigif.Compile(string(biffData))
	if err != nil {
		return 0, fmt.Errorf("biff syntax error: %w", err)
	}

	var story struct {
		Metadata map[string]string `json:"metadata"`
		Graph    struct {
			Nodes map[string]*bigif.StoryNode `json:"nodes"`
		} `json:"graph"`
	}
	if err := json.Unmarshal(jsonBytes, &story); err != nil {
		return 0, fmt.Errorf("internal error: failed to unmarshal story json: %w", err)
	}

	listFields := make(map[string]bool, len(opts.ListFields))
	for _, f := range opts.ListFields {
		listFields[strings.ToLower(f)] = true
	}

	paths := buildPaths(story.Graph.Nodes, outDir)
	ids := make([]string, 0, len(story.Graph.Nodes))
	for id := range story.Graph.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	written := 0
	for _, id := range ids {
		node := story.Graph.Nodes[id]
		targetPath := paths[id]

		knotMeta := meta[node.KnotName]
		if knotMeta == nil {
			knotMeta = make(map[string]string)
		}
		title, rawBody := splitTitle(node.KnotName, node.Content, knotMeta)
		body, err := cleanView(rawBody)
		if err != nil {
			return written, fmt.Errorf("failed to process content for knot %s: %w", node.KnotName, err)
		}
		fm, err := frontMatter(story.Metadata, title, knotMeta, listFields)
		if err != nil {
			return written, fmt.Errorf("failed to write front matter for knot %s: %w", node.KnotName, err)
		}

		var buf bytes.Buffer
		buf.Write(fm)
		fmt.Fprintf(&buf, "## %s\n\n%s\n\n", title, body)
		for _, edge := range node.Edges {
			rel, err := filepath.Rel(filepath.Dir(targetPath), paths[edge.TargetNodeID])
			if err != nil {
				return written, err
			}
			fmt.Fprintf(&buf, "* [%s](%s)\n", edge.Text, filepath.ToSlash(rel))
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
			return written, fmt.Errorf("failed to create directory for story file: %w", err)
		}
		if err := os.WriteFile(targetPath, buf.Bytes(), 0644); err != nil {
			return written, fmt.Errorf("failed to create story file %s: %w", targetPath, err)
		}
		logger.Debug("Wrote story page", logfields.Path(targetPath))
		written++
	}

	logger.Info("Compiled story", logfields.Path(biffPath), logfields.Pages(written))
	return written, nil
}

// frontMatter renders a knot's YAML front matter block. Keys come out in a
// fixed order: title, story_title, story_author, knot metadata sorted by key,
// then draft.
func frontMatter(storyMeta map[string]string, title string, knotMeta map[string]string, listFields map[string]bool) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
	}

	add("title", strNode(title))
	if st, ok := storyMeta["title"]; ok {
		add("story_title", strNode(st))
	}
	if sa, ok := storyMeta["author"]; ok {
		add("story_author", strNode(sa))
	}

	keys := make([]string, 0, len(knotMeta))
	for k := range knotMeta {
		if k != "title" && k != "draft" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if listFields[k] {
			add(k, listNode(knotMeta[k]))
		} else {
			add(k, strNode(knotMeta[k]))
		}
	}
	add("draft", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"})

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append(append([]byte("---\n"), out...), "---\n"...), nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// listNode splits a comma separated value into a flow sequence, dropping
// empty items.
func listNode(value string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			seq.Content = append(seq.Content, strNode(item))
		}
	}
	return seq
}

// buildPaths maps every node to <outDir>/<scene dirs>/<knot>[-<flags>].md.
// Flags are the node's true states in sorted order.
func buildPaths(nodes map[string]*bigif.StoryNode, outDir string) map[string]string {
	paths := make(map[string]string, len(nodes))
	for id, node := range nodes {
		dirs := []string{outDir}
		if node.Scene != "" {
			for _, seg := range strings.Split(node.Scene, "/") {
				dirs = append(dirs, sanitize(seg))
			}
		}
		parts := []string{sanitize(node.KnotName)}
		var flags []string
		for k, v := range node.State {
			if v {
				flags = append(flags, sanitize(k))
			}
		}
		sort.Strings(flags)
		parts = append(parts, flags...)
		paths[id] = filepath.Join(append(dirs, strings.Join(parts, "-")+".md")...)
	}
	return paths
}

func sanitize(s string) string {
	s = strings.ToLower(s)
	s = unsafeChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	return repeatedDash.ReplaceAllString(s, "-")
}
