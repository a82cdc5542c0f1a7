package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasi-trampoline-bindgen/errors"
	"github.com/wippyai/wasi-trampoline-bindgen/hooks"
	"github.com/wippyai/wasi-trampoline-bindgen/idl"
	"github.com/wippyai/wasi-trampoline-bindgen/trampoline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	hookStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	stubStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type previewModel struct {
	err       error
	gen       *trampoline.Generator
	stub      string
	filter    textinput.Model
	all       []funcEntry
	visible   []funcEntry
	selected  int
	variant   trampoline.AbiVariant
	hooksOnly bool
	state     previewState
}

type funcEntry struct {
	module *idl.Module
	fn     *idl.Function
	hook   bool
}

type previewState int

const (
	stateSelectFunc previewState = iota
	stateFilter
	stateShowStub
)

func newPreviewModel(doc *idl.Document, set hooks.Set, variant trampoline.AbiVariant) *previewModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter functions"
	ti.Width = 40

	m := &previewModel{
		gen:     trampoline.New(set.Contains),
		filter:  ti,
		variant: variant,
		state:   stateSelectFunc,
	}
	for _, mod := range doc.Modules {
		for _, f := range mod.Funcs {
			m.all = append(m.all, funcEntry{module: mod, fn: f, hook: set.Contains(f.Name)})
		}
	}
	m.refilter()
	return m
}

func runInteractive(cfg *config) error {
	doc, err := loadDocument(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newPreviewModel(doc, cfg.hooks, cfg.variant), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, e := range m.all {
		if m.hooksOnly && !e.hook {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.fn.Name), query) {
			continue
		}
		m.visible = append(m.visible, e)
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

// renderStub renders the selected function, capturing invariant violations
// as errors so the preview stays up.
func (m *previewModel) renderStub() (stub string, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*errors.Error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	e := m.visible[m.selected]
	return m.gen.RenderFunction(e.module, e.fn, m.variant), nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateFilter {
		switch key.String() {
		case "enter", "esc":
			m.filter.Blur()
			m.state = stateSelectFunc
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.refilter()
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.state == stateSelectFunc && m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.state == stateSelectFunc && m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "/":
		if m.state == stateSelectFunc {
			m.state = stateFilter
			return m, m.filter.Focus()
		}

	case "h":
		if m.state == stateSelectFunc {
			m.hooksOnly = !m.hooksOnly
			m.refilter()
		}

	case "tab":
		if m.variant == trampoline.Latest {
			m.variant = trampoline.Legacy
		} else {
			m.variant = trampoline.Latest
		}
		if m.state == stateShowStub {
			m.stub, m.err = m.renderStub()
		}

	case "enter":
		switch m.state {
		case stateSelectFunc:
			if len(m.visible) > 0 {
				m.stub, m.err = m.renderStub()
				m.state = stateShowStub
			}
		case stateShowStub:
			m.state = stateSelectFunc
		}

	case "esc":
		if m.state == stateShowStub {
			m.state = stateSelectFunc
			m.stub = ""
			m.err = nil
		}
	}

	return m, nil
}

func (m *previewModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Trampoline Preview"))
	b.WriteString(" abi ")
	b.WriteString(m.variant.String())
	if m.hooksOnly {
		b.WriteString(" (hooks only)")
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.visible) == 0 {
			b.WriteString("No functions match.\n")
		}
		for i, e := range m.visible {
			line := m.formatEntry(e)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter render • / filter • h hooks only • tab abi • q quit"))

	case stateShowStub:
		e := m.visible[m.selected]
		fmt.Fprintf(&b, "%s.%s\n\n", moduleStyle.Render(e.module.Name), hookStyle.Render(e.fn.Name))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(stubStyle.Render(m.stub))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("tab abi • enter/esc back • q quit"))
	}

	return b.String()
}

func (m *previewModel) formatEntry(e funcEntry) string {
	params, results := e.fn.WasmSignature()
	mark := "  "
	name := e.fn.Name
	if e.hook {
		mark = "* "
		name = hookStyle.Render(name)
	}
	return fmt.Sprintf("%s%s.%s %s", mark, moduleStyle.Render(e.module.Name), name,
		trampoline.FormatSignature(params, results))
}
