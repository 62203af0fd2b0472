package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wippyai/iso20-exi/wpt"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateInput modelState = iota
	stateShowResult
	stateElements
)

type interactiveModel struct {
	err      error
	codec    *wpt.Codec
	filename string
	input    textinput.Model
	title    string
	lines    []string
	offset   int
	selected int
	height   int
	state    modelState
}

type loadedMsg struct {
	err   error
	codec *wpt.Codec
	text  string
}

type decodedMsg struct {
	err   error
	title string
	lines []string
}

func newInteractiveModel(filename string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "hex document, e.g. 80 6c ..."
	ti.Prompt = "EXI: "
	ti.Width = 72
	ti.CharLimit = 0
	ti.Focus()
	return &interactiveModel{
		filename: filename,
		input:    ti,
		height:   24,
		state:    stateInput,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.load, textinput.Blink)
}

func (m *interactiveModel) load() tea.Msg {
	codec, err := wpt.Default()
	if err != nil {
		return loadedMsg{err: err}
	}
	if m.filename == "" {
		return loadedMsg{codec: codec}
	}
	data, err := readInput(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	buf, err := documentBytes(data)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{codec: codec, text: hex.EncodeToString(buf)}
}

func (m *interactiveModel) decode() tea.Msg {
	buf, err := documentBytes([]byte(m.input.Value()))
	if err != nil {
		return decodedMsg{err: err}
	}
	msg, err := m.codec.Decode(buf)
	if err != nil {
		return decodedMsg{err: err}
	}
	return decodedMsg{
		title: fmt.Sprintf("%s (code %d, %s)", msg.Element, int(msg.Element), humanize.Bytes(uint64(len(buf)))),
		lines: treeLines("", msg.Body)[1:],
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 20)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			switch m.state {
			case stateShowResult:
				m.offset = max(m.offset-1, 0)
			case stateElements:
				m.selected = max(m.selected-1, 0)
			}

		case "down", "j":
			switch m.state {
			case stateShowResult:
				m.offset = min(m.offset+1, max(len(m.lines)-m.pageSize(), 0))
			case stateElements:
				m.selected = min(m.selected+1, len(wpt.Elements())-1)
			}

		case "tab":
			if m.state == stateInput && m.codec != nil {
				m.state = stateElements
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateInput:
				if m.codec != nil {
					return m, m.decode
				}
			case stateShowResult, stateElements:
				m.back()
			}
			return m, nil

		case "esc":
			if m.state == stateInput {
				return m, tea.Quit
			}
			m.back()
			return m, nil
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.codec = msg.codec
		if msg.text != "" {
			m.input.SetValue(msg.text)
			return m, m.decode
		}

	case decodedMsg:
		m.title = msg.title
		m.lines = msg.lines
		m.err = msg.err
		m.offset = 0
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) back() {
	m.state = stateInput
	m.err = nil
	m.input.Focus()
}

// pageSize is the number of tree lines that fit below the header.
func (m *interactiveModel) pageSize() int {
	return max(m.height-6, 1)
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if m.codec == nil {
		return "Loading schema..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("WPT EXI Inspector"))
	if m.filename != "" {
		b.WriteString(" ")
		b.WriteString(m.filename)
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter decode • tab elements • esc quit"))

	case stateElements:
		roots := m.codec.EXI().Schema().Roots
		elems := wpt.Elements()
		start := max(min(m.selected-m.pageSize()/2, len(elems)-m.pageSize()), 0)
		end := min(start+m.pageSize(), len(elems))
		for _, e := range elems[start:end] {
			line := fmt.Sprintf("%2d  %s %s", int(e), nameStyle.Render(fmt.Sprintf("%-34s", e)), typeStyle.Render(roots[e].Type.Name))
			if int(e) == m.selected {
				line = selectedStyle.Render(fmt.Sprintf("%2d  %-34s %s", int(e), e, roots[e].Type.Name))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • enter back • q quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("enter back • q quit"))
			break
		}
		b.WriteString(nameStyle.Render(m.title))
		b.WriteString("\n\n")
		end := min(m.offset+m.pageSize(), len(m.lines))
		b.WriteString(resultStyle.Render(strings.Join(m.lines[m.offset:end], "\n")))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓ scroll (%d/%d) • enter back • q quit", end, len(m.lines))))
	}

	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
