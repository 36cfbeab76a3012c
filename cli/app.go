// Package cli contains all business logic needed by the hppmanip command.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	configFlag = "config"
	debugFlag  = "debug"

	// Graph flags.
	definitionFlag = "definition"
	displayFlag    = "display"
	dotFlag        = "dot"
	pdfFlag        = "pdf"
	viewFlag       = "view"
)

var app = &cli.App{
	Name:            "hppmanip",
	Usage:           "build and inspect constraint graphs on a remote manipulation planner",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "check",
			Usage:  "resolve the planner services and report where they are served",
			Action: CheckAction,
		},
		{
			Name:            "graph",
			Usage:           "work with constraint graphs",
			HideHelpCommand: true,
			Subcommands: []*cli.Command{
				{
					Name:      "build",
					Usage:     "create a constraint graph from a definition file",
					UsageText: "hppmanip graph build --definition <FILE> [--display]",
					Flags: []cli.Flag{
						&cli.PathFlag{
							Name:     definitionFlag,
							Aliases:  []string{"f"},
							Required: true,
							Usage:    "YAML graph definition",
						},
						&cli.BoolFlag{
							Name:  displayFlag,
							Usage: "write, render and open the graph once it is built",
						},
						&cli.PathFlag{
							Name:  dotFlag,
							Usage: "where the planner writes the dot file when displaying",
						},
						&cli.PathFlag{
							Name:  pdfFlag,
							Usage: "where the rendered graph is written when displaying",
						},
					},
					Action: BuildGraphAction,
				},
				{
					Name:      "render",
					Usage:     "render an existing dot file locally",
					ArgsUsage: "<dot file> <output file>",
					Flags: []cli.Flag{
						&cli.BoolFlag{
							Name:  viewFlag,
							Usage: "open the rendered file in the configured viewer",
						},
					},
					Action: RenderGraphAction,
				},
			},
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
