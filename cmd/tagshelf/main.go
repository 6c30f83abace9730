// cmd/tagshelf/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	loadEnv(".env", ".env.local")

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tagshelf"),
		kong.Description("A static site generator with per-tag listing pages for content collections."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(&Global{Logger: slog.Default()}, &cli); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("❌ Operation failed: %v", err)))
		os.Exit(1)
	}
}

// loadEnv reads TAGSHELF_* defaults from dotenv files when present. Values
// already in the environment win.
func loadEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", f, err)
		}
	}
}
