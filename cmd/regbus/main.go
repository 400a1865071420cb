package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regbus/config"
)

var version string
var commit string
var date string

const metaConfig = "config"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := cli.NewApp()
	app.Name = "regbus"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "I2C register access cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging and bus frame dumps",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "yaml file with transport settings",
			EnvVars: []string{"REGBUS_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "transport to use: mcp2221, periph or gobot (overrides config)",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		cfg := config.Default()
		if path := ctx.String("config"); path != "" {
			var err error
			cfg, err = config.Load(path)
			if err != nil {
				return err
			}
		}
		if ctx.IsSet("adapter") {
			cfg.Adapter = ctx.String("adapter")
		}
		if ctx.Bool("verbose") {
			cfg.Verbose = true
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		ctx.App.Metadata[metaConfig] = cfg

		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
			Prefix:          "regbus",
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if cfg.Verbose {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	app.Commands = cli.Commands{
		&regCmd,
		&tempReadCmd,
		&pressureCmd,
		&motionCmd,
		&gpioCmd,
		&mcp2221Cmd,
		&usbCmd,
	}
	err := app.Run(args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			return exerr.ExitCode()
		}
		slog.Error("unexpected error", "error", err)
		return 1
	}
	return 0
}

func configFrom(c *cli.Context) *config.Config {
	cfg, ok := c.App.Metadata[metaConfig].(*config.Config)
	if !ok {
		return config.Default()
	}
	return cfg
}
