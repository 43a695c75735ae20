// Package browse implements an interactive terminal symbol browser over
// a completed firmware.FirmwareInfo, built with bubbletea/bubbles.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zboralski/vxhunter/internal/firmware"
	"github.com/zboralski/vxhunter/internal/present"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC800")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC800"))
	dataStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
)

// item adapts a firmware.Symbol to list.Item.
type item struct {
	sym firmware.Symbol
}

func (i item) Title() string {
	if i.sym.IsFunction() {
		return funcStyle.Render(i.sym.Name)
	}
	return dataStyle.Render(i.sym.Name)
}

func (i item) Description() string {
	return fmt.Sprintf("name=0x%08x value=0x%08x type=0x%02x", i.sym.NameVAddr, i.sym.ValueVAddr, i.sym.Type)
}

func (i item) FilterValue() string { return i.sym.Name }

type model struct {
	list list.Model
	info *firmware.FirmwareInfo
}

// New builds the browser's initial model for info. Symbols are listed in
// the order FirmwareInfo.Symbols returns them (image order).
func New(info *firmware.FirmwareInfo) tea.Model {
	items := make([]list.Item, len(info.Symbols))
	for i, s := range info.Symbols {
		items[i] = item{sym: s}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("#FFC800"))

	l := list.New(items, delegate, 0, 0)
	l.Title = fmt.Sprintf("symbols (%d)", len(info.Symbols))
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "demangle")),
		}
	}

	return model{list: l, info: info}
}

// Run starts the interactive browser on the default terminal program.
func Run(info *firmware.FirmwareInfo) error {
	p := tea.NewProgram(New(info), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				demangled := present.DemangleFull(it.sym.Name)
				if demangled != it.sym.Name {
					m.list.NewStatusMessage(statusStyle.Render(demangled))
				} else {
					m.list.NewStatusMessage(statusStyle.Render("(not a mangled name)"))
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	header := fmt.Sprintf("load=0x%08x endian=%s version=%d",
		m.info.LoadAddress, endianName(m.info.BigEndian), m.info.Version)
	var b strings.Builder
	b.WriteString(statusStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.list.View())
	return b.String()
}

func endianName(bigEndian bool) string {
	if bigEndian {
		return "big"
	}
	return "little"
}
