package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/mxbridge"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const headerLines = 2

type interactiveModel struct {
	ctx     context.Context
	bridge  *mxbridge.Bridge
	eng     mx.Engine
	label   string
	input   textinput.Model
	history viewport.Model
	lines   []string
	busy    bool
	closing bool
	ready   bool
}

type resultMsg struct {
	input  string
	output string
	err    error
}

func newInteractiveModel(ctx context.Context, b *mxbridge.Bridge, eng mx.Engine, label string) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(">> ")
	ti.Placeholder = "x = [1 2; 3 4];"
	ti.Focus()
	return &interactiveModel{
		ctx:    ctx,
		bridge: b,
		eng:    eng,
		label:  label,
		input:  ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - headerLines - 3
		if !m.ready {
			m.history = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.history.Width = msg.Width
			m.history.Height = height
		}
		m.input.Width = msg.Width - 4
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			// The engine is not safe to close under a running command.
			if m.busy {
				m.closing = true
				return m, nil
			}
			return m, tea.Quit
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.busy {
				return m, nil
			}
			m.input.SetValue("")
			if line == ":q" || line == ":quit" {
				return m, tea.Quit
			}
			m.busy = true
			return m, m.execute(line)
		}

	case resultMsg:
		m.busy = false
		if m.closing {
			return m, tea.Quit
		}
		m.lines = append(m.lines, promptStyle.Render(">> ")+msg.input)
		if msg.err != nil {
			m.lines = append(m.lines, errorStyle.Render(msg.err.Error()))
		} else if msg.output != "" {
			m.lines = append(m.lines, resultStyle.Render(msg.output))
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) refresh() {
	if !m.ready {
		return
	}
	m.history.SetContent(strings.Join(m.lines, "\n"))
	m.history.GotoBottom()
}

// execute runs one prompt line. Lines starting with ':' are client
// commands; anything else goes to the engine.
func (m *interactiveModel) execute(line string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.dispatch(line)
		return resultMsg{input: line, output: out, err: err}
	}
}

func (m *interactiveModel) dispatch(line string) (string, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case ":show":
		var parts []string
		for _, name := range splitNames(arg) {
			v, err := m.bridge.Decode(m.ctx, name)
			if err != nil {
				return "", err
			}
			parts = append(parts, nameStyle.Render(name)+" =\n"+indent(host.Format(v)))
		}
		return strings.Join(parts, "\n"), nil

	case ":help":
		if arg == "" {
			return helpText, nil
		}
		return m.bridge.Help(m.ctx, arg)

	case ":vars":
		n, ok := m.eng.(namer)
		if !ok {
			return "", fmt.Errorf("%s engine cannot list its workspace", m.label)
		}
		names := n.Names()
		sort.Strings(names)
		return strings.Join(names, "  "), nil

	case ":stats":
		st := m.bridge.Stats()
		return fmt.Sprintf("acquired %d  released %d  live %d", st.Acquired, st.Released, st.Live), nil
	}

	if strings.HasPrefix(cmd, ":") {
		return "", fmt.Errorf("unknown command %s", cmd)
	}
	if err := m.bridge.Eval(m.ctx, line); err != nil {
		return "", err
	}
	if o, ok := m.eng.(outputter); ok {
		return strings.TrimSpace(o.Output()), nil
	}
	return "", nil
}

const helpText = `:show x[,y]  decode and print variables
:help name   engine documentation for a function
:vars        list workspace variables
:stats       handle accounting
:q           quit`

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Starting engine..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("mxrun"))
	b.WriteString(" ")
	b.WriteString(m.label)
	b.WriteString("\n\n")
	b.WriteString(m.history.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	status := ":help commands • pgup/pgdown scroll • ctrl+c quit"
	switch {
	case m.closing:
		status = "quitting after the running command..."
	case m.busy:
		status = "running..."
	}
	b.WriteString(helpStyle.Render(status))
	return b.String()
}

func runInteractive(ctx context.Context, b *mxbridge.Bridge, eng mx.Engine, label string) error {
	p := tea.NewProgram(newInteractiveModel(ctx, b, eng, label), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
