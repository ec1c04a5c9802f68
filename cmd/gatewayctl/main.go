package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	loadDotEnv()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "gatewayctl",
		Usage: "Operate the workflow gateway from the command line",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Aliases:   []string{"a"},
				Usage:     "Send a query through the same decision path as POST /query",
				ArgsUsage: "<user query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prompt",
						Usage: "Custom prompt sent upstream instead of the query",
					},
				},
				Action: ask,
			},
			{
				Name:      "extract",
				Aliases:   []string{"x"},
				Usage:     "Print the text extracted from a local PDF",
				ArgsUsage: "<file.pdf>",
				Action:    extract,
			},
			{
				Name:    "migrate",
				Aliases: []string{"m"},
				Usage:   "Create the documents, workflows and chatlogs tables",
				Action:  migrate,
			},
		},
	}
}

// loadDotEnv carga .env si existe; igual que la API, su ausencia solo se avisa.
func loadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
}
