package terminal

import (
	"fmt"
	"io"
	"os"
)

// Colors for diagnostic messages.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Yellow = "\033[33m"
)

// Diag is where user-facing messages go. Stdout is reserved for the
// selected option so the tool stays usable in pipelines.
var Diag io.Writer = os.Stderr

// Error prints a red error message.
func Error(msg string) {
	fmt.Fprintf(Diag, "%s%s✗%s %s\n", Bold, Red, Reset, msg)
}

// Warning prints a yellow warning message.
func Warning(msg string) {
	fmt.Fprintf(Diag, "%s%s!%s %s\n", Bold, Yellow, Reset, msg)
}
