package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/umbralabs/gstring"
	"github.com/umbralabs/gstring/lsm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	missStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB347"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type queryModel struct {
	tree    *lsm.Tree
	dir     string
	input   textinput.Model
	result  string
	missed  bool
	err     error
	queries int
}

func newQueryModel(dir string, tree *lsm.Tree) *queryModel {
	ti := textinput.New()
	ti.Placeholder = "key"
	ti.Prompt = "query> "
	ti.Width = 48
	ti.Focus()
	return &queryModel{tree: tree, dir: dir, input: ti}
}

func (m *queryModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *queryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			key := m.input.Value()
			if key == "" {
				return m, nil
			}
			m.lookup(key)
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *queryModel) lookup(key string) {
	m.queries++
	m.err = nil
	m.result = ""
	m.missed = false

	k, err := gstring.FromString(key)
	if err != nil {
		m.err = err
		return
	}
	v, ok, err := m.tree.Get(&k)
	if err != nil {
		m.err = err
		return
	}
	if !ok {
		m.missed = true
		m.result = key
		return
	}
	m.result = fmt.Sprintf("%s = %s", key, v.String())
}

func (m *queryModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("LSM Query"))
	b.WriteString(" ")
	b.WriteString(m.dir)
	b.WriteString("\n\n")

	s := m.tree.Stats()
	b.WriteString(statStyle.Render(fmt.Sprintf(
		"memtable: %d entries / %d bytes   sstables: %d   queries: %d",
		s.MemEntries, s.MemBytes, len(s.Tables), m.queries)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.missed:
		b.WriteString(missStyle.Render(fmt.Sprintf("%s: not found", m.result)))
		b.WriteString("\n")
	case m.result != "":
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter query • esc quit"))
	return b.String()
}

func runInteractive(dir string, memBytes int) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}

	tree, err := lsm.Open(dir, memBytes)
	if err != nil {
		return err
	}
	defer tree.Close()

	p := tea.NewProgram(newQueryModel(dir, tree), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
