package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "paperctl",
		Usage: "summarize research papers and inspect the paper store",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: MigrateAction,
			},
			{
				Name:      "summarize",
				Usage:     "summarize a PDF or text paper and print the result as JSON",
				ArgsUsage: "--file paper.pdf",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the paper", Required: true},
					&cli.BoolFlag{Name: "save", Usage: "persist the result to the database"},
				},
				Action: SummarizeAction,
			},
			{
				Name:   "recent",
				Usage:  "list the most recently processed papers",
				Action: RecentAction,
			},
			{
				Name:   "stats",
				Usage:  "show aggregate processing statistics",
				Action: StatsAction,
			},
			{
				Name:  "categories",
				Usage: "list categories, or the papers in one category",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "list papers in this category"},
				},
				Action: CategoriesAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
