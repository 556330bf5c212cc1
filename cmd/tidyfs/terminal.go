package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
)

// terminal reports progress of the renamer on a writer, colouring output when
// the writer is a terminal.
type terminal struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out, colorize: isTerminal(out)}
}

func (t *terminal) paint(colors text.Colors, s string) string {
	if !t.colorize {
		return s
	}
	return colors.Sprint(s)
}

func (t *terminal) println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, s)
}

func (t *terminal) Output(message string) {
	t.println(message)
}

func (t *terminal) Warning(message string) {
	t.println(t.paint(text.Colors{text.FgYellow}, "warning: "+message))
}

func (t *terminal) Error(message string, err error) {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	t.println(t.paint(text.Colors{text.FgRed}, "error: "+message))
}

func (t *terminal) StartSpinner(message string) {
	t.println(t.paint(text.Colors{text.FgCyan}, "... "+message))
}

func (t *terminal) StopSpinner(success bool, message string) {
	if success {
		t.println(t.paint(text.Colors{text.FgGreen}, "ok  "+message))
		return
	}
	t.println(t.paint(text.Colors{text.FgRed, text.Bold}, "err "+message))
}
