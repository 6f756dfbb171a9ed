package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxHistory = 500

type logMsg string

type Model struct {
	commander *Commander
	logs      <-chan string
	viewport  viewport.Model
	textInput textinput.Model
	history   []string
	ready     bool
}

// NewModel creates the TUI. logs may be nil.
func NewModel(commander *Commander, logs <-chan string) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command... (/help)"
	ti.Focus()
	ti.Width = 80

	return Model{
		commander: commander,
		logs:      logs,
		textInput: ti,
		history:   []string{},
	}
}

func (m Model) Init() bubbletea.Cmd {
	return bubbletea.Batch(textinput.Blink, m.waitForLog())
}

func (m Model) waitForLog() bubbletea.Cmd {
	if m.logs == nil {
		return nil
	}
	return func() bubbletea.Msg {
		line, ok := <-m.logs
		if !ok {
			return nil
		}
		return logMsg(line)
	}
}

func (m Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	var (
		cmd  bubbletea.Cmd
		cmds []bubbletea.Cmd
	)

	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case logMsg:
		m.appendLines(dimStyle.Render(strings.TrimRight(string(msg), "\n")))
		cmds = append(cmds, m.waitForLog())
	case bubbletea.KeyMsg:
		switch msg.Type {
		case bubbletea.KeyEnter:
			input := m.textInput.Value()
			m.textInput.Reset()
			m.appendLines(m.commander.Execute(context.Background(), input)...)
		case bubbletea.KeyCtrlC, bubbletea.KeyEsc:
			return m, bubbletea.Quit
		}
	case bubbletea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		footerHeight := lipgloss.Height(m.footerView())
		viewportHeight := msg.Height - headerHeight - footerHeight - 1
		if viewportHeight < 5 {
			viewportHeight = 5
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.viewport.SetContent(strings.Join(m.history, "\n"))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}
		m.textInput.Width = msg.Width - 4
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, bubbletea.Batch(cmds...)
}

func (m *Model) appendLines(lines ...string) {
	if len(lines) == 0 {
		return
	}
	m.history = append(m.history, lines...)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	var style = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	return style.Render("Machi Koro Supply")
}

func (m Model) footerView() string {
	return m.textInput.View()
}
