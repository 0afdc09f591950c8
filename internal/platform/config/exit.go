package config

import (
	"fmt"
	"os"
)

// Exitf reports a fatal error on stderr and terminates the process
// with exit code 1. Command entry points use it for startup failures.
func Exitf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
