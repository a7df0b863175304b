// Package transfer implements the producer/consumer pair of a pipe
// throughput run and the orchestration that times it.
package transfer

import (
	"fmt"
	"io"
)

// Config holds the parameters of a single transfer. Both sides read
// it; neither mutates it once the run starts.
type Config struct {
	TotalBytes uint64
	ChunkSize  uint64
}

// Validate reports whether the config can drive a transfer.
func (c Config) Validate() error {
	if c.ChunkSize == 0 {
		return fmt.Errorf("chunk size must be positive")
	}

	return nil
}

// ProgressFunc receives the byte count of each completed write.
// Used by the CLI progress bar; may be nil.
type ProgressFunc func(n int)

// Produce pushes cfg.TotalBytes of zeroed payload into w in chunks
// of at most cfg.ChunkSize, stopping at exactly the configured total.
// Accounting follows the count actually accepted by each call: a
// short write is not an error, it just leaves more remaining. Any
// write error or negative count aborts immediately with ErrWrite.
func Produce(w io.Writer, cfg Config, progress ProgressFunc) error {
	buf := make([]byte, cfg.ChunkSize)

	remaining := cfg.TotalBytes
	for remaining > 0 {
		n := cfg.ChunkSize
		if remaining < n {
			n = remaining
		}

		written, err := w.Write(buf[:n])
		if written < 0 {
			return fmt.Errorf("%w: negative write count %d", ErrWrite, written)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}

		remaining -= uint64(written)

		if progress != nil && written > 0 {
			progress(written)
		}
	}

	return nil
}

// Consume drains exactly cfg.TotalBytes from r in chunks of at most
// cfg.ChunkSize, discarding the data. Short reads are accounted and
// retried; a read error (including EOF) before the total is reached
// aborts with ErrRead.
func Consume(r io.Reader, cfg Config) error {
	buf := make([]byte, cfg.ChunkSize)

	remaining := cfg.TotalBytes
	for remaining > 0 {
		n := cfg.ChunkSize
		if remaining < n {
			n = remaining
		}

		read, err := r.Read(buf[:n])
		if read < 0 {
			return fmt.Errorf("%w: negative read count %d", ErrRead, read)
		}

		remaining -= uint64(read)

		// A Read may return data together with EOF; the error only
		// matters if the total has not been reached yet.
		if err != nil && remaining > 0 {
			return fmt.Errorf("%w: %v", ErrRead, err)
		}
	}

	return nil
}
