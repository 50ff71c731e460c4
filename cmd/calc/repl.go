package main

import (
	"fmt"
	"strings"

	"calcforge/internal/calculator"
	"calcforge/internal/ui"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// maxScrollback is the number of output lines kept on screen.
const maxScrollback = 15

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive calculator prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := newCalculator()
			p := tea.NewProgram(newReplModel(calc, ui.DefaultStyles()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("repl: %w", err)
			}
			persist(cmd.Context(), calc)
			return nil
		},
	}
}

type replModel struct {
	calc   *calculator.Advanced
	styles ui.Styles
	input  textinput.Model
	lines  []string
	done   bool
}

func newReplModel(calc *calculator.Advanced, styles ui.Styles) replModel {
	ti := textinput.New()
	ti.Placeholder = "2 + 3, sqrt 16, 5!, 15% of 200"
	ti.Prompt = styles.Prompt.Render("calc> ")
	ti.CharLimit = 256
	ti.Focus()

	return replModel{calc: calc, styles: styles, input: ti}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			return m.exec(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) exec(line string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(line) {
	case "quit", "exit", "q":
		m.done = true
		return m, tea.Quit
	case "history":
		h := m.calc.History()
		if len(h) == 0 {
			m.push(m.styles.Muted.Render("(no calculations yet)"))
		}
		for _, e := range h {
			m.push("  " + e.String())
		}
		return m, nil
	case "clear":
		m.calc.ClearHistory()
		m.push(m.styles.Muted.Render("history cleared"))
		return m, nil
	case "help", "?":
		m.push(m.styles.Muted.Render("operators: + - * / ^   sqrt x   n!   p% of n   commands: history, clear, quit"))
		return m, nil
	}

	result, err := m.calc.Evaluate(line)
	if err != nil {
		m.push(m.styles.Error.Render("error: ") + err.Error())
		return m, nil
	}
	m.push(line + " = " + m.styles.Result.Render(calculator.FormatNumber(result)))
	return m, nil
}

func (m *replModel) push(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxScrollback {
		m.lines = m.lines[len(m.lines)-maxScrollback:]
	}
}

func (m replModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Banner("CALCULATOR - " + strings.ToUpper(m.calc.Name())))
	b.WriteString("\n\n")
	for _, l := range m.lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("enter to evaluate · help for syntax · esc to quit"))
	b.WriteString("\n")
	return b.String()
}
