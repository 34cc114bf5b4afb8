package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"gobenford/app"
	"gobenford/domain/benford"
	"gobenford/internal/analysis"
	"gobenford/internal/config"
	"gobenford/internal/container"
	"gobenford/internal/report"
	"gobenford/ui"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "benford",
		Short:         "Test numeric datasets against Benford's Law",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newAnalyzeCmd() *cobra.Command {
	var format string
	var plotDir string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyse the leading digits of one or more files",
		Long: `Analyse the leading digits of one or more files.

Each file starts with a header line; the last whitespace-separated field of
every following row is read as an integer. Files are analysed concurrently and
reported in the order given.

Example: benford analyze --format markdown --plot charts/ ledger.csv payments.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := container.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			subs, err := c.AnalysisService.SubmitFiles(cmd.Context(), args, concurrency)
			if err != nil {
				return err
			}
			return writeSubmissions(cmd, subs, f, plotDir)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: text, json or markdown")
	cmd.Flags().StringVar(&plotDir, "plot", "", "directory to write one comparison chart PNG per file")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "files analysed at once (default: number of CPUs)")
	return cmd
}

func writeSubmissions(cmd *cobra.Command, subs []*app.Submission, f report.Format, plotDir string) error {
	if plotDir != "" {
		if err := os.MkdirAll(plotDir, 0o755); err != nil {
			return fmt.Errorf("create plot directory: %w", err)
		}
	}

	charts := chartNames{}
	failed := 0
	for _, sub := range subs {
		if err := report.Write(cmd.OutOrStdout(), f, report.NewDocument(sub.ID, sub.Filename, sub.Outcome, false)); err != nil {
			return err
		}
		success, ok := sub.Outcome.(benford.Success)
		if !ok {
			failed++
			continue
		}
		if plotDir != "" {
			path, err := writeChart(plotDir, charts.next(sub.Filename), success.Result.Image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(subs))
	}
	return nil
}

// chartNames hands out one PNG name per chart in a run. Inputs sharing a
// label get -2, -3, ... suffixes so no chart overwrites another.
type chartNames map[string]bool

func (used chartNames) next(filename string) string {
	label := analysis.DatasetLabel(filename)
	name := label
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s-%d", label, i)
	}
	used[name] = true
	return name + ".png"
}

func writeChart(dir, name string, img benford.EncodedImage) (string, error) {
	data, err := base64.StdEncoding.DecodeString(string(img))
	if err != nil {
		return "", fmt.Errorf("decode chart %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web upload interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return ui.Run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "benford %s\n", version)
		},
	}
}
