// Package main provides the CLI entry point for pipebench, a
// single-shot benchmark of OS pipe throughput between one producer
// and one concurrent consumer.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/weiihann/pipebench/report"
	"github.com/weiihann/pipebench/transfer"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "pipebench",
		Short: "OS pipe throughput benchmark",
		Long: `Pipebench pushes a fixed payload through an anonymous OS pipe from
a producer to a concurrently running consumer and reports the sustained
end-to-end throughput in MB/s.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		totalBytes string
		chunkSize  string
		outputJSON bool
		progress   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipe throughput benchmark",
		Long: `Create a pipe, spawn a consumer, and push the configured payload
through it in fixed-size chunks, timing the whole transfer.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), logger, runConfig{
				totalBytes: totalBytes,
				chunkSize:  chunkSize,
				outputJSON: outputJSON,
				progress:   progress,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&totalBytes, "total-bytes", "8GiB",
		"Total payload to push through the pipe")
	flags.StringVar(&chunkSize, "chunk-size", "1MiB",
		"Bytes per pipe write/read call")
	flags.BoolVar(&outputJSON, "json", false,
		"Output the result as JSON instead of text")
	flags.BoolVar(&progress, "progress", false,
		"Show a progress bar on stderr")

	return cmd
}

type runConfig struct {
	totalBytes string
	chunkSize  string
	outputJSON bool
	progress   bool
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
) error {
	total, err := humanize.ParseBytes(cfg.totalBytes)
	if err != nil {
		return fmt.Errorf("parse --total-bytes %q: %w", cfg.totalBytes, err)
	}

	chunk, err := humanize.ParseBytes(cfg.chunkSize)
	if err != nil {
		return fmt.Errorf("parse --chunk-size %q: %w", cfg.chunkSize, err)
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.String("total", humanize.IBytes(total)),
		slog.String("chunk", humanize.IBytes(chunk)),
	)

	opts := transfer.Options{}

	var bar *pb.ProgressBar
	if cfg.progress {
		bar = pb.Start64(int64(total))
		bar.Set(pb.Bytes, true)
		bar.SetWriter(os.Stderr)
		opts.Progress = func(n int) { bar.Add(n) }
	}

	res, runErr := transfer.Run(ctx, logger, transfer.Config{
		TotalBytes: total,
		ChunkSize:  chunk,
	}, opts)

	if bar != nil {
		bar.Finish()
	}

	if runErr != nil {
		logger.ErrorContext(ctx, "benchmark failed",
			slog.String("phase", phase(runErr)),
			slog.String("error", runErr.Error()),
		)

		return runErr
	}

	logger.InfoContext(ctx, "benchmark complete")

	if cfg.outputJSON {
		return report.GenerateJSON(os.Stdout, res)
	}

	return report.Generate(os.Stdout, res)
}

// phase maps a run error to the step of the benchmark that failed.
func phase(err error) string {
	switch {
	case errors.Is(err, transfer.ErrChannelCreation):
		return "create-pipe"
	case errors.Is(err, transfer.ErrSpawn):
		return "spawn-consumer"
	case errors.Is(err, transfer.ErrWrite):
		return "produce"
	case errors.Is(err, transfer.ErrRead):
		return "consume"
	case errors.Is(err, transfer.ErrJoin):
		return "join-consumer"
	default:
		return "run"
	}
}
