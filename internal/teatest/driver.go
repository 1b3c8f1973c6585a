// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run in place of a
// tea.Program. Cmds that block on timers (cursor blink, spinner ticks)
// are given a short deadline and skipped when they miss it, so the async
// work under test must be backed by fakes that return immediately.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one input may trigger.
const MaxDrainDepth = 100

// cmdTimeout separates instant Cmds (fake collaborators, message
// factories) from timer Cmds such as cursor blinks (~530ms) and spinner
// ticks (~100ms).
const cmdTimeout = 10 * time.Millisecond

// Driver feeds input to a tea.Model and settles every resulting Cmd
// before returning.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg is produced. A real program
	// would stop there; the driver ignores further input instead.
	Quitting bool

	// Msgs records every message fed through Update, in order.
	Msgs []tea.Msg
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New creates a Driver. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs Init and settles the Cmds it returns.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.settle(d.Model.Init(), 0)
}

// Send feeds msg through Update and settles the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.deliver(msg, 0)
}

// Received reports whether a message of the same dynamic type as sample
// went through Update.
func (d *Driver) Received(sample tea.Msg) bool {
	want := fmt.Sprintf("%T", sample)
	for _, m := range d.Msgs {
		if fmt.Sprintf("%T", m) == want {
			return true
		}
	}
	return false
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// Keys

// PressKey sends a single printable rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter() { d.T.Helper(); d.press(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.press(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.press(tea.KeyCtrlC) }
func (d *Driver) PressUp()    { d.T.Helper(); d.press(tea.KeyUp) }
func (d *Driver) PressDown()  { d.T.Helper(); d.press(tea.KeyDown) }
func (d *Driver) PressTab()   { d.T.Helper(); d.press(tea.KeyTab) }
func (d *Driver) PressSpace() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func (d *Driver) press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// Cmd settling

func (d *Driver) deliver(msg tea.Msg, depth int) {
	d.T.Helper()
	d.Msgs = append(d.Msgs, msg)
	next, cmd := d.Model.Update(msg)
	d.Model = next
	if _, quit := msg.(tea.QuitMsg); quit {
		d.Quitting = true
		return
	}
	d.settle(cmd, depth+1)
}

func (d *Driver) settle(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: gave up after %d chained commands", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.settle(sub, depth+1)
		}
		return
	}
	if isCursorBlink(msg) {
		return
	}
	d.deliver(msg, depth)
}

// runWithTimeout runs cmd and returns its message, or nil when it does
// not finish within cmdTimeout.
func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor,
// which would otherwise chain into further timer Cmds.
func isCursorBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
