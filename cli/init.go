package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-barry/quiz/web"
	"github.com/urfave/cli/v2"
)

var projectFS = web.Files()

var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Write the default config, views and public assets into the current directory",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "force", Usage: "overwrite files that already exist"},
	},
	Action: func(c *cli.Context) error {
		targetDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		fmt.Println("🚀 Creating quiz project in:", targetDir)

		written, skipped, err := copyEmbeddedDir(projectFS, ".", targetDir, c.Bool("force"))
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		for _, rel := range skipped {
			fmt.Println("⏭  Skipped existing:", rel)
		}
		fmt.Printf("✅ Project created successfully (%d files written).\n", written)
		fmt.Println("▶  Run: quiz dev")
		return nil
	},
}

// copyEmbeddedDir mirrors sourceDir of source into targetDir. Existing files
// are left alone unless force is set; their relative paths are returned.
func copyEmbeddedDir(source fs.FS, sourceDir string, targetDir string, force bool) (int, []string, error) {
	written := 0
	var skipped []string

	err := fs.WalkDir(source, sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		targetPath := filepath.Join(targetDir, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0755)
		}

		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				skipped = append(skipped, rel)
				return nil
			}
		}

		data, err := fs.ReadFile(source, path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
			return err
		}

		if err := os.WriteFile(targetPath, data, 0644); err != nil {
			return err
		}
		written++
		return nil
	})

	return written, skipped, err
}
