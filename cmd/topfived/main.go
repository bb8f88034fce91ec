package main

import (
	"fmt"
	"os"
	"topfived/internal/structures"

	"github.com/spf13/cobra"
)

var flags structures.CliFlags

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "topfived",
		Short:        "Ranked-list scoring and group voting daemon",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "config.yaml", "config file")
	root.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "debug mode")

	root.AddCommand(serveCmd())
	root.AddCommand(scoreCmd())

	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(&flags)
		},
	}
}

func scoreCmd() *cobra.Command {
	var (
		sort string
		tag  string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print ranked lists with their scores as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), cmd.OutOrStdout(), &flags, sort, tag)
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "trending", "trending, engagement, newest or likes")
	cmd.Flags().StringVar(&tag, "tag", "", "only lists with this tag")
	return cmd
}
