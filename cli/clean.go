package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/quiz/core"
	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete cached pages and minified assets from the output directory",
	ArgsUsage: "[path (optional)]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Value: core.DefaultConfigFile, Usage: "path to the YAML config file"},
	},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))
		target := config.OutputDir

		if c.Args().Len() > 0 {
			sub := strings.TrimPrefix(c.Args().Get(0), "/")
			if strings.Contains(sub, "..") {
				return fmt.Errorf("invalid path: %s", sub)
			}
			target = filepath.Join(config.OutputDir, sub)
		}

		info, err := os.Stat(target)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("🧼 Nothing to clean:", target)
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}

		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", target)
		}

		fmt.Println("🧹 Cleaning:", target)
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}

		fmt.Println("✅ Done.")
		return nil
	},
}
