package transfer

import "time"

const megabyte = 1024 * 1024

// Result holds the measured outcome of a single run.
type Result struct {
	TotalBytes     uint64  `json:"total_bytes"`
	ChunkSize      uint64  `json:"chunk_size"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	ThroughputMBps float64 `json:"throughput_mb_per_s"`

	// Measured is false when the clock bracketed no observable time;
	// ThroughputMBps is then meaningless and left zero.
	Measured bool `json:"measured"`

	// LowConfidence marks sub-second runs, where measurement noise
	// dominates the figure.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// newResult derives the throughput figures from the bracketed wall
// time. A zero elapsed time yields a degenerate result instead of a
// division by zero.
func newResult(cfg Config, elapsed time.Duration) *Result {
	res := &Result{
		TotalBytes:     cfg.TotalBytes,
		ChunkSize:      cfg.ChunkSize,
		ElapsedSeconds: elapsed.Seconds(),
	}

	if res.ElapsedSeconds < 1.0 {
		res.LowConfidence = true
	}

	if res.ElapsedSeconds == 0 {
		return res
	}

	res.Measured = true
	res.ThroughputMBps = float64(cfg.TotalBytes) / megabyte / res.ElapsedSeconds

	return res
}
