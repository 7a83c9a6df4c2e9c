package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "beatpulse",
		Short: "Engagement analytics for your beat catalog",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(statsCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func statsCmd() *cobra.Command {
	var (
		jsonOutput bool
		top        int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the producer dashboard in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(jsonOutput, top)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&top, "top", 10, "max posts to show")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the CSV stats report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default: <producer>-stats.csv)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "server port")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "server port")
	return cmd
}
