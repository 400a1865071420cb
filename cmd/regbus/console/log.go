package console

import (
	"fmt"
	"io"
	"os"
)

// Pictograms prefixing PInfof lines.
const (
	PictoThermometer = "🌡"
	PictoGauge       = "🧭"
	PictoChip        = "🔌"
	PictoPin         = "📌"
	PictoStop        = "🚫"
)

var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// SetOutput redirects regular and diagnostic output, mostly for tests.
func SetOutput(w, errw io.Writer) {
	out, errOut = w, errw
}

// Warnf prints a non fatal problem to the diagnostic stream.
func Warnf(msg string, args ...interface{}) {
	_, _ = fmt.Fprintln(errOut, Yellow("warning:"), fmt.Sprintf(msg, args...))
}

// PInfof prints a line prefixed with a pictogram.
func PInfof(picto, msg string, args ...interface{}) {
	_, _ = fmt.Fprintln(out, picto, fmt.Sprintf(msg, args...))
}

func Printf(msg string, args ...interface{}) {
	_, _ = fmt.Fprintf(out, msg, args...)
}

func Writer() io.Writer {
	return out
}
