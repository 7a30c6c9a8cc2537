package cli

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/go-barry/quiz/core"
	"github.com/go-barry/quiz/web"
	"github.com/urfave/cli/v2"
)

// sampleContexts mirror what the router hands each view.
var sampleContexts = map[string]core.ViewContext{
	core.ViewMain:   {},
	core.ViewQuiz:   {"category": "math", "difficulty": "easy"},
	core.ViewResult: {"score": 0},
}

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Parse and render every view with a sample context",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Value: core.DefaultConfigFile, Usage: "path to the YAML config file"},
	},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		views := core.DirOrEmbedded(config.ViewsDir, web.Views())
		public := core.DirOrEmbedded(config.PublicDir, web.Public())
		renderer := core.NewViewRenderer(views, core.TemplateFuncs("dev", public, config.OutputDir))

		names, err := renderer.Views()
		if err != nil {
			return fmt.Errorf("failed to list views: %w", err)
		}

		var failed bool
		for _, required := range []string{core.ViewMain, core.ViewQuiz, core.ViewResult} {
			if !slices.Contains(names, required) {
				failed = true
				fmt.Printf("❌ %s → missing view\n", required)
			}
		}

		for _, name := range names {
			if _, err := renderer.Parse(name); err != nil {
				failed = true
				fmt.Printf("❌ %s → parse error: %v\n", name, errors.Unwrap(err))
				continue
			}

			var buf bytes.Buffer
			if err := renderer.Render(&buf, name, sampleContexts[name]); err != nil {
				failed = true
				fmt.Printf("❌ %s → exec error: %v\n", name, errors.Unwrap(err))
				continue
			}
			fmt.Printf("✅ %s\n", name)
		}

		if failed {
			return cli.Exit("some views failed to compile", 1)
		}

		fmt.Println("✅ All views validated successfully.")
		return nil
	},
}
