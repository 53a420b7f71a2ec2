// Package cmd wires the autobake command line interface.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "autobake",
	Short: "Bake PBR texture maps for scene objects",
	Long: `Autobake bakes the texture maps of a principled material to PNG files.

Given a scene document with a mesh object and its material, it bakes the
enabled maps (Diffuse, Roughness, Normal, AO) at the configured
resolution and restores every render setting it touched afterwards.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env if present (ignore errors)
		_ = godotenv.Load()

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// Execute runs the root command.
func Execute(version string) {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
