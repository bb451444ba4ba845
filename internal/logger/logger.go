package logger

import (
	"time"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level.

// Info logs informational messages in green color.
// Green is typically used for success or normal info to catch user attention pleasantly.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
// Magenta is bright and stands out, signaling caution without being too alarming.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
// Red is commonly associated with errors or critical problems to draw immediate attention.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// This is a function variable that is assigned dynamically during Init based on debug flag.
// It starts as a no-op so packages are safe to use before Init runs.
var Debug = func(format string, a ...any) {}

// banner prints the start/end banner lines in bold blue.
var banner = color.New(color.FgBlue, color.Bold).PrintfFunc()

// Init initializes the logger package, specifically enabling or disabling debug logging.
// When enabled, Debug will print messages in cyan color.
// When disabled, Debug will be a no-op function that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}

// Start prints the start banner for a named task with a timestamp.
// Every top-level command brackets its run with Start and End.
func Start(task string) {
	banner("=== %s: start %s ===\n", task, time.Now().Format("2006-01-02 15:04:05"))
}

// End prints the end banner for a named task with a timestamp.
func End(task string) {
	banner("=== %s: end %s ===\n", task, time.Now().Format("2006-01-02 15:04:05"))
}
