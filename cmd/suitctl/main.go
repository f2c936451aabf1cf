package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/config"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, "text"))

	rootCmd := &cobra.Command{
		Use:          "suitctl",
		Short:        "Inspect the precomputed pasture suitability tables",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(districtsCmd(cfg))
	rootCmd.AddCommand(summaryCmd(cfg))
	rootCmd.AddCommand(insightCmd(cfg))
	rootCmd.AddCommand(snapshotCmd(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
