package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/weiihann/pipebench/pipe"
)

// Options carries the optional knobs of a run.
type Options struct {
	// Progress receives the producer's per-chunk byte counts.
	Progress ProgressFunc
}

// Run measures one producer/consumer transfer over a fresh OS pipe.
// The consumer runs on its own goroutine; the producer runs on the
// calling one. The clock starts just before production begins and
// stops after both sides have finished. Both pipe endpoints are
// released on every exit path.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	cfg Config,
	opts Options,
) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := pipe.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChannelCreation, err)
	}
	defer p.Close()

	logger.InfoContext(ctx, "starting transfer",
		slog.Uint64("total_bytes", cfg.TotalBytes),
		slog.Uint64("chunk_size", cfg.ChunkSize),
	)

	res, err := runTransfer(cfg, opts, p.WriteEnd(), p.ReadEnd())
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "transfer finished",
		slog.Duration("elapsed",
			time.Duration(res.ElapsedSeconds*float64(time.Second))),
	)

	return res, nil
}

// runTransfer brackets the transfer between two timestamps. It always
// waits for the consumer before returning, even when the producer
// fails, so the spawned goroutine never outlives the run and its
// completion is observed exactly once.
func runTransfer(
	cfg Config,
	opts Options,
	w io.WriteCloser,
	r io.Reader,
) (*Result, error) {
	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- Consume(r, cfg)
	}()

	start := time.Now()

	produceErr := Produce(w, cfg, opts.Progress)

	// Closing the write end unblocks a consumer stuck on an empty
	// pipe after a producer failure; on success the consumer has
	// already read its total or is draining buffered bytes.
	closeErr := w.Close()

	consumeErr := <-consumerDone

	elapsed := time.Since(start)

	if produceErr != nil {
		return nil, produceErr
	}
	if consumeErr != nil {
		return nil, consumeErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, closeErr)
	}

	return newResult(cfg, elapsed), nil
}
