package macos

import (
	"os/exec"
	"strings"

	"github.com/fbzwsqualitasag/qmactools/internal/logger"
)

// Runner abstracts external command execution so invocations can be recorded
// in tests instead of touching the real system.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands through os/exec, capturing combined output.
type ExecRunner struct{}

// Run executes the command and returns its combined stdout/stderr.
func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.CombinedOutput()
}
