package main

import (
	"log"
	"os"

	quizcli "github.com/go-barry/quiz/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "quiz",
		Usage: "Serve the quiz web application",
		Commands: []*clilib.Command{
			quizcli.InitCommand,
			quizcli.DevCommand,
			quizcli.ProdCommand,
			quizcli.CleanCommand,
			quizcli.CheckCommand,
			quizcli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
