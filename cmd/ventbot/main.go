// Command ventbot serves the vent map solver as a Telegram bot.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ArminGh02/ventmap/pkg/config"
	"github.com/ArminGh02/ventmap/pkg/logging"
	"github.com/ArminGh02/ventmap/pkg/ventbot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalln(err)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "ventbot",
		Short:         "Serve the vent map solver as a Telegram bot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			log.SetFlags(0)
			log.SetOutput(logging.Writer{Loc: loc})

			bot, err := ventbot.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return bot.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", os.Getenv("VENTMAP_CONFIG"), "path of the YAML config file")
	return cmd
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
