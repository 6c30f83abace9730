package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"tagshelf/internal/builder"
	"tagshelf/internal/config"
	"tagshelf/internal/content"
	"tagshelf/internal/logfields"
	"tagshelf/internal/scaffold"
	"tagshelf/internal/server"
	"tagshelf/internal/story"
	"tagshelf/internal/tagpages"
)

const storyFile = "site.biff"

// Global is shared with every command's Run method.
type Global struct {
	Logger *slog.Logger
}

type CLI struct {
	Config  string           `short:"c" help:"Site configuration file" default:"site.yaml" env:"TAGSHELF_CONFIG"`
	Debug   bool             `help:"Enable debug logging" env:"TAGSHELF_DEBUG"`
	Unsafe  bool             `help:"Disable HTML sanitization. Allows all raw HTML." env:"TAGSHELF_UNSAFE"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Gen   GenCmd   `cmd:"" help:"Generate the site from existing content"`
	Tags  TagsCmd  `cmd:"" help:"List the tag pages a build would write, without writing them"`
	Story StoryCmd `cmd:"" help:"Compile a .biff story into content and build the site"`
	Serve ServeCmd `cmd:"" help:"Run a local dev server with auto-rebuild"`
	New   NewCmd   `cmd:"" help:"Create a new site or content"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// siteRoot is the directory holding the configuration file.
func (c *CLI) siteRoot() string {
	return filepath.Dir(c.Config)
}

func (c *CLI) loadSite() (config.SiteConfig, error) {
	site, err := config.LoadSiteConfig(c.Config)
	if err != nil {
		return config.SiteConfig{}, err
	}
	return site.Within(c.siteRoot()), nil
}

func (c *CLI) buildOptions(g *Global, clean bool) builder.BuildOptions {
	return builder.BuildOptions{
		CleanDestination: clean,
		Unsafe:           c.Unsafe,
		BuildID:          uuid.NewString(),
		Logger:           g.Logger,
	}
}

func build(site config.SiteConfig, opts builder.BuildOptions) (builder.Stats, error) {
	tmpl, err := builder.LoadTemplates(site.TemplateDir, site.Template)
	if err != nil {
		return builder.Stats{}, fmt.Errorf("failed to load templates: %w", err)
	}
	stats, err := builder.BuildSite(site, tmpl, opts)
	if err != nil {
		return stats, fmt.Errorf("site generation failed: %w", err)
	}
	return stats, nil
}

func printStats(w io.Writer, stats builder.Stats) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✅ Success! Generated %d pages.", stats.ContentPages+stats.TagPages)))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("   %d content pages, %d tag pages for %d tags",
		stats.ContentPages, stats.TagPages, stats.Tags)))
}

type GenCmd struct {
	Clean bool `help:"Empty the output directory first" default:"true" negatable:""`
}

func (g *GenCmd) Run(global *Global, cli *CLI) error {
	site, err := cli.loadSite()
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("--- Generating site from content ---"))
	stats, err := build(site, cli.buildOptions(global, g.Clean))
	if err != nil {
		return err
	}
	printStats(os.Stdout, stats)
	return nil
}

type TagsCmd struct{}

func (t *TagsCmd) Run(global *Global, cli *CLI) error {
	site, err := cli.loadSite()
	if err != nil {
		return err
	}
	docs, err := content.Load(site.ContentDir, content.Options{Unsafe: cli.Unsafe, Logger: global.Logger})
	if err != nil {
		return err
	}
	plan, err := builder.PlanTagPages(site, docs, global.Logger)
	if err != nil {
		return err
	}
	printPlan(os.Stdout, plan.Registry)
	return nil
}

// printPlan lists every tag page per collection and field, sorted by name.
func printPlan(w io.Writer, reg tagpages.Registry) {
	if len(reg) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No collection_pages configured."))
		return
	}
	for _, collection := range sortedKeys(reg) {
		fields := reg[collection]
		for _, field := range sortedKeys(fields) {
			entry := fields[field]
			fmt.Fprintln(w, boxStyle.Render(fmt.Sprintf("%s · %s  %s",
				collection, field, dimStyle.Render(entry.Template))))
			for _, tag := range sortedKeys(entry.Labels) {
				label := entry.Labels[tag]
				urls := make([]string, len(label.Pages))
				for i, p := range label.Pages {
					urls[i] = p.URL
				}
				fmt.Fprintf(w, "  %s %s\n", tagStyle.Render(tag),
					dimStyle.Render(fmt.Sprintf("(%d posts)", len(entry.Pages[tag]))))
				for _, u := range urls {
					fmt.Fprintf(w, "    %s\n", u)
				}
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type StoryCmd struct {
	Input       string `short:"i" help:"Input story file (*.biff)" default:"site.biff"`
	Output      string `short:"o" help:"Output directory for generated content. Defaults to the content dir for site.biff, or content/<story_name> for other input files."`
	ContentOnly bool   `name:"content-only" help:"Generate content only, do not build the site"`
}

func (s *StoryCmd) Run(global *Global, cli *CLI) error {
	site, err := cli.loadSite()
	if err != nil {
		return err
	}

	input := s.Input
	if !filepath.IsAbs(input) {
		input = filepath.Join(cli.siteRoot(), input)
	}
	outDir := s.Output
	if outDir == "" {
		outDir = storyOutputDir(site.ContentDir, s.Input)
	}

	fmt.Println(titleStyle.Render("--- Compiling story ---"))
	knots, err := compileStory(site, input, outDir, global.Logger)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("story file '%s' not found", input)
		}
		return fmt.Errorf("biff compilation failed: %w", err)
	}
	fmt.Printf("📖 Story: %d knots processed into %s.\n", knots, outDir)

	if s.ContentOnly {
		fmt.Println(successStyle.Render("✅ Success! Content-only generation complete."))
		return nil
	}
	stats, err := build(site, cli.buildOptions(global, true))
	if err != nil {
		return err
	}
	printStats(os.Stdout, stats)
	return nil
}

// storyOutputDir compiles site.biff into the content root and any other
// story into a collection named after the file.
func storyOutputDir(contentDir, input string) string {
	if filepath.Base(input) == storyFile {
		return contentDir
	}
	base := filepath.Base(input)
	return filepath.Join(contentDir, strings.TrimSuffix(base, filepath.Ext(base)))
}

func compileStory(site config.SiteConfig, input, outDir string, logger *slog.Logger) (int, error) {
	fields, err := listFields(site, logger)
	if err != nil {
		return 0, err
	}
	return story.Compile(input, outDir, story.Options{ListFields: fields, Logger: logger})
}

// listFields returns the distinct fields grouped by collection_pages.
func listFields(site config.SiteConfig, logger *slog.Logger) ([]string, error) {
	configs, err := tagpages.ParseConfigs(site.CollectionPages, logger)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var fields []string
	for _, c := range configs {
		if !seen[c.Field] {
			seen[c.Field] = true
			fields = append(fields, c.Field)
		}
	}
	return fields, nil
}

type ServeCmd struct {
	Port int `short:"p" help:"Port for the local development server" default:"1313" env:"TAGSHELF_PORT"`
}

func (s *ServeCmd) Run(global *Global, cli *CLI) error {
	site, err := cli.loadSite()
	if err != nil {
		return err
	}
	biff := filepath.Join(cli.siteRoot(), storyFile)
	logger := global.Logger

	rebuild := func(opts builder.BuildOptions) error {
		// The config may have changed on disk since the last build.
		site, err := cli.loadSite()
		if err != nil {
			return err
		}
		opts.BuildID = uuid.NewString()
		knots, err := compileStory(site, biff, site.ContentDir, logger)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Debug("No story file, skipping story compilation", logfields.Path(biff))
		case err != nil:
			return fmt.Errorf("biff compilation failed: %w", err)
		default:
			logger.Info("Story compiled", slog.Int("knots", knots))
		}
		stats, err := build(site, opts)
		if err != nil {
			return err
		}
		printStats(os.Stdout, stats)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println(dimStyle.Render("Press Ctrl+C to stop"))
	return server.Run(ctx, server.Options{
		Port:      s.Port,
		OutputDir: site.OutputDir,
		WatchPaths: []string{
			site.ContentDir, site.TemplateDir, site.StaticDir, cli.Config, biff,
		},
		Logger: logger,
	}, rebuild, cli.buildOptions(global, true))
}

type NewCmd struct {
	Site    NewSiteCmd    `cmd:"" help:"Create a new site scaffold"`
	Content NewContentCmd `cmd:"" help:"Create new content from the default archetype"`
}

type NewSiteCmd struct {
	Name string `arg:"" help:"Directory to create the site in"`
}

func (n *NewSiteCmd) Run(_ *Global, _ *CLI) error {
	if err := scaffold.CreateNewSite(n.Name); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Site scaffolded in " + n.Name + ". You can now:"))
	fmt.Println("  cd", n.Name)
	fmt.Println("  tagshelf tags")
	fmt.Println("  tagshelf serve")
	return nil
}

type NewContentCmd struct {
	Type  string `arg:"" help:"Content type, the collection directory under content/"`
	Title string `arg:"" help:"Title of the new page"`
}

func (n *NewContentCmd) Run(_ *Global, cli *CLI) error {
	path, err := scaffold.CreateNewContent(n.Type, n.Title, cli.Config)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Created: " + path))
	return nil
}
