package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/quiz/core"
	"github.com/go-barry/quiz/web"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print configuration, view and cache summary",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Value: core.DefaultConfigFile, Usage: "path to the YAML config file"},
	},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		fmt.Println("🌐 Port:", config.Port)
		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println()

		views := core.DirOrEmbedded(config.ViewsDir, web.Views())
		public := core.DirOrEmbedded(config.PublicDir, web.Public())

		names, err := core.NewViewRenderer(views, nil).Views()
		if err != nil {
			return fmt.Errorf("failed to list views: %w", err)
		}
		partials, _ := fs.Glob(views, "partials/*.html")

		assetCount := 0
		fs.WalkDir(public, ".", func(path string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() {
				assetCount++
			}
			return nil
		})

		cacheCount := 0
		filepath.Walk(config.OutputDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				cacheCount++
			}
			return nil
		})

		fmt.Println("🗂️  Views Source:", source(config.ViewsDir))
		fmt.Println("🗂️  Views Found:", len(names))
		fmt.Println("📦 Partials Found:", len(partials))
		fmt.Println("🎨 Public Assets Found:", assetCount)
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}

func source(dir string) string {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return "embedded"
}
