package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"

	"github.com/duskforge/voxelcore/config"
)

const (
	ServiceName      = "voxelcore"
	ServiceNamespace = "duskforge"
)

var (
	version        = "0.0.0"
	commit         = "hash"
	commitDate     = time.Now().String()
	branch         = "branch"
	buildTimestamp = ""
)

// Run builds and executes the CLI, mirroring the teacher's single-command
// cli.App with a "server" subcommand; a "tui" subcommand is added for the
// live operator dashboard.
func Run() error {
	app := &cli.App{
		Name:  ServiceName,
		Usage: "Connection-lifecycle core for a voxel game server",
		Commands: []*cli.Command{
			serverCmd(),
			tuiCmd(),
		},
	}

	return app.Run(os.Args)
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	fs := pflag.NewFlagSet(c.Command.Name, pflag.ContinueOnError)
	config.Flags(fs)
	_ = fs.Set("config", c.String("config"))
	cfg, _, err := config.Load(fs)
	return cfg, err
}

func serverCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Run the connection-lifecycle core",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			app := NewApp(cfg)

			if err := app.Start(c.Context); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			slog.Info("shutting down")
			return app.Stop(context.Background())
		},
	}
}
