// Package prompt asks the user how to handle files that already
// exist at an extraction destination.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const question = "This file already exist, wanna override it ? y/n/Y/N (Y: yes all, N: no all) "

// move the cursor up one line, to column 1, and clear the line
const clearLine = "\033[F\033[1G\033[K"

// Terminal asks questions on Out and reads answers from In. When In
// is a terminal, a single key press answers; otherwise the first
// character of each line is the answer.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	lines *bufio.Reader
}

// NewTerminal returns a Terminal on the process's stdin and stdout.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

// Ask shows which entry is being extracted and asks whether to
// override it. It returns the raw answer without validating it.
func (t *Terminal) Ask(name string) (string, error) {
	fmt.Fprintln(t.Out, "Extracting", baseName(name))
	fmt.Fprint(t.Out, question)

	var answer string
	var err error
	if f, ok := t.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		answer, err = readKey(f)
		fmt.Fprintln(t.Out)
	} else {
		answer, err = t.readLine()
	}
	if err != nil {
		return "", err
	}

	// remove the question and its answer
	fmt.Fprint(t.Out, strings.Repeat(clearLine, 2))
	return answer, nil
}

// readKey reads one key press with the terminal in raw mode.
func readKey(f *os.File) (string, error) {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("failed to set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	var buf [1]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return "", err
	}
	if buf[0] == 0x03 || buf[0] == 0x04 {
		// ctrl-c and ctrl-d do not interrupt in raw mode
		return "", io.EOF
	}
	return string(buf[:]), nil
}

func (t *Terminal) readLine() (string, error) {
	if t.lines == nil {
		t.lines = bufio.NewReader(t.In)
	}
	line, err := t.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func baseName(name string) string {
	name = strings.TrimSuffix(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
