// Package tui holds the interactive serial monitor.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"

	"github.com/pmadden/ember/internal/ui"
)

// Console is the serial connection the monitor drives.
type Console interface {
	Connect() error
	Close()
	Send(data []byte) error
	Data() <-chan string
	Port() string
	Baud() int
}

type connectedMsg struct{}

type dataMsg struct {
	chunk string
}

type connectErrMsg struct {
	err error
}

// MonitorModel is a full-screen serial console: scrollback viewport on top,
// send line at the bottom.
type MonitorModel struct {
	console   Console
	viewport  viewport.Model
	input     textinput.Model
	output    strings.Builder
	connected bool
	err       error

	width, height int
}

// NewMonitor creates the monitor model; the console is opened by Init.
func NewMonitor(c Console) *MonitorModel {
	input := textinput.New()
	input.Placeholder = "send a line..."
	input.CharLimit = 256
	input.Prompt = "> "
	input.Focus()

	return &MonitorModel{
		console:  c,
		viewport: viewport.New(0, 0),
		input:    input,
	}
}

func (m *MonitorModel) Init() tea.Cmd {
	return m.connect
}

func (m *MonitorModel) connect() tea.Msg {
	if err := m.console.Connect(); err != nil {
		return connectErrMsg{err: err}
	}
	return connectedMsg{}
}

// waitForData blocks on the console's data channel and forwards one chunk.
func (m *MonitorModel) waitForData() tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-m.console.Data()
		if !ok {
			return nil
		}
		return dataMsg{chunk: chunk}
	}
}

func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		m.connected = true
		return m, m.waitForData()

	case connectErrMsg:
		m.err = msg.err
		return m, nil

	case dataMsg:
		m.output.WriteString(msg.chunk)
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, m.waitForData()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 4 // title, input, status bar
		m.input.Width = msg.Width - 4
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.console.Close()
			return m, tea.Quit
		case "enter":
			if m.connected {
				line := m.input.Value()
				m.console.Send([]byte(line + "\r\n"))
				m.input.SetValue("")
			}
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *MonitorModel) View() string {
	title := ui.Title(fmt.Sprintf("Monitor %s @ %d", m.console.Port(), m.console.Baud()))
	switch {
	case m.err != nil:
		title += "  " + ui.ErrorBadge("ERROR") + " " + ui.DimStyle.Render(m.err.Error())
	case m.connected:
		title += "  " + ui.SuccessBadge("CONNECTED")
	default:
		title += "  " + ui.DimStyle.Render("connecting...")
	}

	status := ui.StatusKey("enter", "send") + " " + ui.StatusKey("esc", "quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		m.input.View(),
		status,
	)
}

func (m *MonitorModel) updateViewportContent() {
	if m.viewport.Width <= 0 {
		m.viewport.SetContent(m.output.String())
		return
	}

	// Hard wrap handles long unbroken lines; truncate is an ANSI-aware
	// backstop for anything still too wide.
	wrapped := wrap.String(m.output.String(), m.viewport.Width)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		if ansi.PrintableRuneWidth(line) > m.viewport.Width {
			lines[i] = truncate.String(line, uint(m.viewport.Width))
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}
