// Package main provides the stormdesk CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/ptgrid/stormdesk/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider string
	model    string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "stormdesk",
		Short: "E-REDES Storm Kristin customer-support chat backend",
		Long: `Backend for the E-REDES virtual assistant during the Storm Kristin event.

Two modes available:
- serve: run the HTTP API and the static frontend
- chat: talk to the assistant interactively from the terminal`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "Completion provider (groq, openai, anthropic, gemini)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model name override")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Serve(cli.Options{
				Provider: provider,
				Model:    model,
				Addr:     addr,
				Verbose:  verbose,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8000)")

	return cmd
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive terminal session with the assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), cli.Options{
				Provider: provider,
				Model:    model,
				Verbose:  verbose,
			})
		},
	}
}
