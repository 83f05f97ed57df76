package bench

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const ruleWidth = 60

func rule(c string) string { return strings.Repeat(c, ruleWidth) }

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// PrintHeader writes the harness banner.
func PrintHeader(w io.Writer, deviceMode string) {
	fmt.Fprintln(w, rule("="))
	fmt.Fprintln(w, "ELEMENTWISE ADD BENCHMARK")
	fmt.Fprintf(w, "Device mode: %s\n", deviceMode)
}

// Print writes one size's measurements in the per-phase format of the
// harness: timing lines in milliseconds, output samples, the maximum
// difference versus the reference, and a pass/fail verdict. A mismatch
// is reported as a warning, not an error.
func (r Result) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule("="))
	fmt.Fprintf(w, "TEST SIZE: %d elements\n", r.N)
	fmt.Fprintf(w, "Tensor dtype: float32\n")
	fmt.Fprintf(w, "Memory size per tensor: %.2f KB\n", float64(r.BytesPerTensor)/1024)

	fmt.Fprintln(w, rule("-"))
	fmt.Fprintln(w, "FIRST RUN (includes JIT compilation)")
	fmt.Fprintf(w, "[TIMING] First run total: %.3f ms\n", toMillis(r.FirstRun))

	fmt.Fprintln(w, rule("-"))
	fmt.Fprintln(w, "SECOND RUN (uses cached kernel)")
	fmt.Fprintf(w, "[TIMING] Second run total: %.3f ms\n", toMillis(r.SecondRun))
	fmt.Fprintf(w, "[TIMING] Compilation overhead: %.3f ms\n", toMillis(r.CompileOverhead))

	fmt.Fprintln(w, rule("-"))
	fmt.Fprintln(w, "BENCHMARK")
	fmt.Fprintf(w, "[TIMING] Average kernel time: %.3f ms (stddev %.3f ms)\n",
		toMillis(r.AvgKernel), toMillis(r.StdDevKernel))

	fmt.Fprintln(w, rule("-"))
	fmt.Fprintln(w, "RESULT VERIFICATION")
	fmt.Fprintf(w, "Device output (first %d): %v\n", len(r.Sample), r.Sample)
	fmt.Fprintf(w, "Reference output (first %d): %v\n", len(r.Reference), r.Reference)
	fmt.Fprintf(w, "Max difference: %.2e\n", r.MaxDiff)
	if r.Match {
		fmt.Fprintln(w, "Results match: YES")
	} else {
		fmt.Fprintln(w, "Results match: NO")
		fmt.Fprintln(w, "WARNING: results do not match within tolerance")
	}
}
