package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// GroupPickerModel - Interactive group selection
// =============================================================================

// GroupPickerModel is the bubbletea model behind `import --pick`.
type GroupPickerModel struct {
	Groups    []asset.Group
	Options   asset.Options
	Cursor    int
	Chosen    map[int]bool
	Confirmed bool
}

// NewGroupPickerModel creates a picker with every group selected.
func NewGroupPickerModel(groups []asset.Group, opts asset.Options) GroupPickerModel {
	chosen := make(map[int]bool, len(groups))
	for i := range groups {
		chosen[i] = true
	}
	return GroupPickerModel{Groups: groups, Options: opts, Chosen: chosen}
}

func (m GroupPickerModel) Init() tea.Cmd {
	return nil
}

func (m GroupPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Groups)-1 {
			m.Cursor++
		}
	case " ", "x":
		m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
	case "a":
		all := len(m.Selected()) == len(m.Groups)
		for i := range m.Groups {
			m.Chosen[i] = !all
		}
	case "enter":
		if len(m.Selected()) > 0 {
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// Selected returns the names of the chosen groups in payload order.
func (m GroupPickerModel) Selected() []string {
	var names []string
	for i, g := range m.Groups {
		if m.Chosen[i] {
			names = append(names, g.Name)
		}
	}
	return names
}

func (m GroupPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Groups"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ import  q quit"))
	b.WriteString("\n\n")

	for i, g := range m.Groups {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Chosen[i] {
			box = "[x]"
		}
		detail := fmt.Sprintf("%s · %d parts", g.Type, len(g.PartsToImport()))
		if g.MergesSkeletons(m.Options) {
			detail += " · merge"
		}
		line := fmt.Sprintf("%s%s %-24s %s", cursor, box, g.Name, listDimStyle.Render(detail))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Chosen[i]:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selected()), len(m.Groups))))
	return b.String()
}

// pickGroups runs the picker and returns the chosen group names.
func pickGroups(p *asset.Payload) ([]string, error) {
	final, err := tea.NewProgram(NewGroupPickerModel(p.Data, p.Options)).Run()
	if err != nil {
		return nil, fmt.Errorf("group picker: %w", err)
	}
	m := final.(GroupPickerModel)
	if !m.Confirmed {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no groups selected")
	}
	return m.Selected(), nil
}
