package cli

import (
	"github.com/go-barry/quiz"
	"github.com/go-barry/quiz/core"

	"github.com/urfave/cli/v2"
)

var serveFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "port",
		Usage: "port to listen on (default: port in the config file, 9000 when unset)",
	},
	&cli.StringFlag{
		Name:  "config",
		Value: core.DefaultConfigFile,
		Usage: "path to the YAML config file",
	},
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the quiz app in dev mode (no caching, live reload)",
	Flags: serveFlags,
	Action: func(c *cli.Context) error {
		quiz.Start(quiz.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
		return nil
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start the quiz app in production mode (caching on by default)",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "disable the landing page cache",
		},
	}, serveFlags...),
	Action: func(c *cli.Context) error {
		quiz.Start(quiz.RuntimeConfig{
			Env:         "prod",
			EnableCache: !c.Bool("no-cache"),
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		})
		return nil
	},
}
