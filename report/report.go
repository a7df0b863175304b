// Package report formats run results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/weiihann/pipebench/transfer"
)

// Generate writes the human-readable result lines for a run. A
// sub-second run gets a warning first; a run that bracketed no
// measurable time gets no throughput line at all.
func Generate(w io.Writer, res *transfer.Result) error {
	if res == nil {
		return fmt.Errorf("no result to report")
	}

	if res.LowConfidence {
		fmt.Fprintln(w, "WARNING: run long enough to get meaningful results")
	}

	if !res.Measured {
		return nil
	}

	_, err := fmt.Fprintf(w, "Throughput of pipe is %.2f MB/s\n",
		res.ThroughputMBps)

	return err
}

// GenerateJSON writes the result as indented JSON to w.
func GenerateJSON(w io.Writer, res *transfer.Result) error {
	if res == nil {
		return fmt.Errorf("no result to report")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(res)
}
