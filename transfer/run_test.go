package transfer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weiihann/pipebench/pipe"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEndToEnd(t *testing.T) {
	cfg := Config{TotalBytes: 64 << 20, ChunkSize: 1 << 20}

	res, err := Run(context.Background(), testLogger(), cfg, Options{})
	require.NoError(t, err)
	require.Equal(t, cfg.TotalBytes, res.TotalBytes)
	require.Equal(t, cfg.ChunkSize, res.ChunkSize)

	if res.Measured {
		require.Greater(t, res.ThroughputMBps, 0.0)
		require.InEpsilon(t, 64.0/res.ElapsedSeconds, res.ThroughputMBps, 1e-9)
	}
}

func TestRunChunkLargerThanTotal(t *testing.T) {
	cfg := Config{TotalBytes: 4 << 10, ChunkSize: 1 << 20}

	res, err := Run(context.Background(), testLogger(), cfg, Options{})
	require.NoError(t, err)
	require.Equal(t, cfg.TotalBytes, res.TotalBytes)
}

func TestRunZeroTotal(t *testing.T) {
	cfg := Config{TotalBytes: 0, ChunkSize: 1 << 10}

	res, err := Run(context.Background(), testLogger(), cfg, Options{})
	require.NoError(t, err)
	require.Zero(t, res.ThroughputMBps)
}

func TestRunInvalidChunkSize(t *testing.T) {
	cfg := Config{TotalBytes: 1 << 10, ChunkSize: 0}

	_, err := Run(context.Background(), testLogger(), cfg, Options{})
	require.Error(t, err)
}

func TestRunProgress(t *testing.T) {
	cfg := Config{TotalBytes: 1 << 20, ChunkSize: 64 << 10}

	var reported uint64
	_, err := Run(context.Background(), testLogger(), cfg, Options{
		Progress: func(n int) { reported += uint64(n) },
	})
	require.NoError(t, err)
	require.Equal(t, cfg.TotalBytes, reported)
}

// failingEnd wraps a write end and starts failing after limit bytes.
type failingEnd struct {
	w       io.WriteCloser
	limit   uint64
	written uint64
}

func (f *failingEnd) Write(p []byte) (int, error) {
	if f.written >= f.limit {
		return 0, errors.New("injected write failure")
	}
	f.written += uint64(len(p))

	return f.w.Write(p)
}

func (f *failingEnd) Close() error { return f.w.Close() }

func TestRunTransferProducerFailure(t *testing.T) {
	p, err := pipe.New()
	require.NoError(t, err)
	defer p.Close()

	cfg := Config{TotalBytes: 1 << 20, ChunkSize: 1 << 10}
	w := &failingEnd{w: p.WriteEnd(), limit: 8 << 10}

	// runTransfer must surface the write failure and still reap the
	// consumer goroutine; returning at all proves the join happened.
	_, err = runTransfer(cfg, Options{}, w, p.ReadEnd())
	require.ErrorIs(t, err, ErrWrite)
}

// failAfterReader forwards reads until limit bytes, then errors.
type failAfterReader struct {
	r     io.Reader
	limit uint64
	read  uint64
}

func (f *failAfterReader) Read(p []byte) (int, error) {
	if f.read >= f.limit {
		return 0, errors.New("injected read failure")
	}
	n, err := f.r.Read(p)
	f.read += uint64(n)

	return n, err
}

func TestRunTransferConsumerFailure(t *testing.T) {
	p, err := pipe.New()
	require.NoError(t, err)
	defer p.Close()

	// Small enough to fit in the pipe buffer, so the producer
	// completes and the consumer's failure is what propagates.
	cfg := Config{TotalBytes: 16 << 10, ChunkSize: 1 << 10}
	r := &failAfterReader{r: p.ReadEnd(), limit: 4 << 10}

	_, err = runTransfer(cfg, Options{}, p.WriteEnd(), r)
	require.ErrorIs(t, err, ErrRead)
}

func TestNewResultZeroElapsed(t *testing.T) {
	cfg := Config{TotalBytes: 8 << 30, ChunkSize: 1 << 20}

	res := newResult(cfg, 0)
	require.False(t, res.Measured)
	require.True(t, res.LowConfidence)
	require.Zero(t, res.ThroughputMBps)
}

func TestNewResultSubSecond(t *testing.T) {
	cfg := Config{TotalBytes: 512 << 20, ChunkSize: 1 << 20}

	res := newResult(cfg, 500*time.Millisecond)
	require.True(t, res.Measured)
	require.True(t, res.LowConfidence)
	require.InDelta(t, 1024.0, res.ThroughputMBps, 1e-9)
}

func TestNewResultThroughput(t *testing.T) {
	cfg := Config{TotalBytes: 2 << 30, ChunkSize: 1 << 20}

	res := newResult(cfg, 2*time.Second)
	require.True(t, res.Measured)
	require.False(t, res.LowConfidence)
	require.InDelta(t, 1024.0, res.ThroughputMBps, 1e-9)
	require.InDelta(t, 2.0, res.ElapsedSeconds, 1e-9)
}
