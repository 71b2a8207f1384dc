package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeConsole struct {
	connectErr error
	closed     bool
	sent       []string
	data       chan string
}

func newFakeConsole() *fakeConsole {
	return &fakeConsole{data: make(chan string, 4)}
}

func (f *fakeConsole) Connect() error { return f.connectErr }
func (f *fakeConsole) Close()         { f.closed = true }
func (f *fakeConsole) Send(p []byte) error {
	f.sent = append(f.sent, string(p))
	return nil
}
func (f *fakeConsole) Data() <-chan string { return f.data }
func (f *fakeConsole) Port() string        { return "/dev/ttyACM0" }
func (f *fakeConsole) Baud() int           { return 115200 }

func TestMonitorShowsIncomingData(t *testing.T) {
	c := newFakeConsole()
	m := NewMonitor(c)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(connectedMsg{})

	model, _ := m.Update(dataMsg{chunk: "hello from target\r\n"})
	m = model.(*MonitorModel)

	if !strings.Contains(m.viewport.View(), "hello from target") {
		t.Error("expected incoming data in viewport")
	}
}

func TestMonitorSendsInputLine(t *testing.T) {
	c := newFakeConsole()
	m := NewMonitor(c)
	m.Update(connectedMsg{})
	m.input.SetValue("reset")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(c.sent) != 1 || c.sent[0] != "reset\r\n" {
		t.Errorf("unexpected sent data %q", c.sent)
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after send")
	}
}

func TestMonitorQuitClosesConsole(t *testing.T) {
	c := newFakeConsole()
	m := NewMonitor(c)
	m.Update(connectedMsg{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if !c.closed {
		t.Error("console must be closed on quit")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestMonitorConnectError(t *testing.T) {
	c := newFakeConsole()
	c.connectErr = errors.New("port busy")
	m := NewMonitor(c)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	msg := m.connect()
	errMsg, ok := msg.(connectErrMsg)
	if !ok {
		t.Fatalf("expected connectErrMsg, got %T", msg)
	}

	m.Update(errMsg)
	if !strings.Contains(m.View(), "ERROR") {
		t.Error("expected error badge in view")
	}
}
