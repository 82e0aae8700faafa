package terminal

import "fmt"

// ANSI colors for tagged status segments, kept visually distinct from raw
// process passthrough.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
)

// Status writes a tagged progress line, e.g. "[preview] installing dependencies"
func (t *Terminal) Status(format string, args ...interface{}) {
	t.WriteString(ansiBold + ansiCyan + "[preview] " + ansiReset + fmt.Sprintf(format, args...) + "\r\n")
}

// Success writes a tagged success line
func (t *Terminal) Success(format string, args ...interface{}) {
	t.WriteString(ansiBold + ansiGreen + "[preview] " + ansiReset + fmt.Sprintf(format, args...) + "\r\n")
}

// Failure writes a tagged error line
func (t *Terminal) Failure(format string, args ...interface{}) {
	t.WriteString(ansiBold + ansiRed + "[preview] " + ansiReset + ansiRed + fmt.Sprintf(format, args...) + ansiReset + "\r\n")
}

// Warn writes a tagged warning line
func (t *Terminal) Warn(format string, args ...interface{}) {
	t.WriteString(ansiBold + ansiYellow + "[preview] " + ansiReset + fmt.Sprintf(format, args...) + "\r\n")
}
