// Package repl is the interactive front end: a line editor over a
// persistent evaluation environment.
package repl

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wabznasm/wabznasm/lib/kernel"
	"github.com/wabznasm/wabznasm/lib/lang"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const (
	banner = "wabznasm REPL: enter expressions, assignments, or function definitions. Type 'exit' to quit"
	hint   = "Examples: 1+2, f: {[x] x+1}, add: {[x;y] x+y}, f[5], add[2;3]"
)

// entry is one evaluated input and its rendered outcome.
type entry struct {
	input  string
	output string
	failed bool
}

type model struct {
	input   textinput.Model
	history []entry
	env     *lang.Environment
}

func newModel() model {
	ti := textinput.New()
	ti.Prompt = "wabz> "
	ti.Focus()
	return model{
		input: ti,
		env:   lang.NewEnvironment(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
				return m, tea.Quit
			}
			m.history = append(m.history, m.evaluate(line))
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) evaluate(line string) entry {
	value, err := lang.Eval(line, m.env)
	if err != nil {
		return entry{input: line, output: err.Error(), failed: true}
	}
	if value == nil {
		return entry{input: line}
	}
	return entry{input: line, output: kernel.Render(value)["text/plain"]}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(bannerStyle.Render(banner))
	b.WriteByte('\n')
	b.WriteString(hintStyle.Render(hint))
	b.WriteString("\n\n")
	for _, e := range m.history {
		b.WriteString("wabz> " + e.input + "\n")
		switch {
		case e.failed:
			b.WriteString(errorStyle.Render("Error: "+e.output) + "\n")
		case e.output != "":
			b.WriteString(resultStyle.Render("= "+e.output) + "\n")
		}
	}
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	return b.String()
}

// Run starts the interactive loop and blocks until the user exits.
func Run() error {
	_, err := tea.NewProgram(newModel()).Run()
	return err
}
