// Package prompt is the blocking question/answer capability used by the
// list store for quantity entry, price entry and duplicate confirmation.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/shoplist/internal/ui"
)

// Prompter asks the user something and waits for the answer.
type Prompter interface {
	// Ask returns the typed answer, or ok=false when the user dismissed the
	// question. An empty answer is returned as defaultValue.
	Ask(message, defaultValue string) (answer string, ok bool)
	// Confirm returns true only on an explicit yes.
	Confirm(message string) bool
	// Alert shows a message that needs no answer.
	Alert(message string)
}

// Terminal prompts on a line-oriented terminal. End of input counts as a
// dismissal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (t *Terminal) Ask(message, defaultValue string) (string, bool) {
	if defaultValue != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", message, defaultValue)
	} else {
		fmt.Fprintf(t.out, "%s: ", message)
	}
	line, ok := t.readLine()
	if !ok {
		fmt.Fprintln(t.out)
		return "", false
	}
	if strings.TrimSpace(line) == "" {
		return defaultValue, true
	}
	return line, true
}

func (t *Terminal) Confirm(message string) bool {
	fmt.Fprintf(t.out, "%s [y/N]: ", message)
	line, ok := t.readLine()
	if !ok {
		fmt.Fprintln(t.out)
		return false
	}
	return IsYes(line)
}

func (t *Terminal) Alert(message string) {
	fmt.Fprintln(t.out, ui.C(ui.Current().Error, "! "+message))
}

// IsYes accepts y/yes and the Portuguese s/sim.
func IsYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "s", "sim":
		return true
	}
	return false
}

// Queue answers from pre-recorded responses, in order. It backs the TUI,
// which collects answers through its own inputs before calling the store,
// and it makes store tests deterministic. An exhausted queue dismisses
// questions and declines confirmations.
type Queue struct {
	answers  []answer
	confirms []bool
	alerts   []string
}

type answer struct {
	text   string
	cancel bool
}

// PushAnswer queues text as the next Ask result.
func (q *Queue) PushAnswer(text ...string) *Queue {
	for _, s := range text {
		q.answers = append(q.answers, answer{text: s})
	}
	return q
}

// PushCancel queues a dismissal of the next Ask.
func (q *Queue) PushCancel() *Queue {
	q.answers = append(q.answers, answer{cancel: true})
	return q
}

// PushConfirm queues the next Confirm results.
func (q *Queue) PushConfirm(v ...bool) *Queue {
	q.confirms = append(q.confirms, v...)
	return q
}

// Reset drops anything not consumed yet.
func (q *Queue) Reset() {
	q.answers, q.confirms, q.alerts = nil, nil, nil
}

// Alerts returns the messages shown so far.
func (q *Queue) Alerts() []string { return append([]string(nil), q.alerts...) }

// Pending reports how many answers and confirmations are left.
func (q *Queue) Pending() (answers, confirms int) { return len(q.answers), len(q.confirms) }

func (q *Queue) Ask(_, defaultValue string) (string, bool) {
	if len(q.answers) == 0 {
		return "", false
	}
	a := q.answers[0]
	q.answers = q.answers[1:]
	if a.cancel {
		return "", false
	}
	if strings.TrimSpace(a.text) == "" {
		return defaultValue, true
	}
	return a.text, true
}

func (q *Queue) Confirm(string) bool {
	if len(q.confirms) == 0 {
		return false
	}
	v := q.confirms[0]
	q.confirms = q.confirms[1:]
	return v
}

func (q *Queue) Alert(message string) { q.alerts = append(q.alerts, message) }
