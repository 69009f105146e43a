package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"quorum/internal/app/bootstrap"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the poll relay bot",
	Long: `Start the bot process: poll the chat gateway for updates, relay
member polls and serve the read API.

The process keeps running until it receives SIGINT or SIGTERM.

Examples:
  # Run with defaults plus QUORUM_* environment variables
  quorumbot run

  # Run with an explicit config file
  quorumbot run --config config.yaml`,
	RunE: runBot,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to the YAML config file (defaults plus environment when omitted)")
	rootCmd.AddCommand(runCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.BuildBot(runConfigPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			warning.Printf("⚠ shutdown close failed: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	success.Println("✓ quorum bot started")
	if err := app.Run(ctx); err != nil {
		return err
	}
	success.Println("✓ quorum bot stopped")
	return nil
}
