package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer asks the operator a yes/no question before a destructive or
// user-visible action. Implementations other than Stdin exist so commands can
// run unattended (--yes) and be exercised in tests.
type Confirmer interface {
	Confirm(question string) bool
}

// Stdin prompts on stdout and reads a single line from the reader. Only the
// exact answer "y" confirms; any other input, including "Y" or "yes",
// declines. There is no retry.
type Stdin struct {
	in *bufio.Reader
}

// NewStdin creates a Stdin confirmer reading from os.Stdin.
func NewStdin() *Stdin {
	return &Stdin{in: bufio.NewReader(os.Stdin)}
}

// NewReader creates a Stdin confirmer reading from r.
func NewReader(r io.Reader) *Stdin {
	return &Stdin{in: bufio.NewReader(r)}
}

// Confirm prints the question and reads one line of input.
func (s *Stdin) Confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimRight(line, "\r\n") == "y"
}

// Always answers every question with a fixed value. Used for --yes and as a
// test stub.
type Always struct {
	Answer bool
}

// Confirm returns the fixed answer without prompting.
func (a Always) Confirm(string) bool {
	return a.Answer
}
