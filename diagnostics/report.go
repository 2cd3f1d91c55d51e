package diagnostics

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/icgen/cosmicic/errs"
)

// Report bundles the statistics a run wants to inspect before handing
// fields to a downstream simulator, mirroring the teacher's
// OutputManager's role of collecting several related CSV streams under
// one struct.
type Report struct {
	WhiteNoise []FieldStats
	Source     []FieldStats
}

// WriteCSV dumps stats as a CSV with a header row, the same
// gocsv.Marshal call the teacher's telemetry.OutputManager.WriteTelemetry
// uses for its first write per file.
func WriteCSV(w io.Writer, stats []FieldStats) error {
	if len(stats) == 0 {
		return nil
	}
	if err := gocsv.Marshal(stats, w); err != nil {
		return errs.New(errs.IOFailure, "diagnostics: marshal CSV: %v", err)
	}
	return nil
}

// String renders a one-line-per-level human-readable summary for
// terminal output.
func (r Report) String() string {
	s := "white noise:\n"
	for _, st := range r.WhiteNoise {
		s += fmt.Sprintf("  level %d: n=%d mean=%.6g stddev=%.6g min=%.6g max=%.6g\n", st.Level, st.N, st.Mean, st.StdDev, st.Min, st.Max)
	}
	s += "source:\n"
	for _, st := range r.Source {
		s += fmt.Sprintf("  level %d: n=%d mean=%.6g stddev=%.6g min=%.6g max=%.6g\n", st.Level, st.N, st.Mean, st.StdDev, st.Min, st.Max)
	}
	return s
}
