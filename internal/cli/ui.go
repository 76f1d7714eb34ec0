package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rigport/rigport/pkg/assembly"
	"github.com/rigport/rigport/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file, marking artifacts served from the cache.
func printFile(path string, cached bool) {
	status := styleComputed.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path) + StyleDim.Render(" · ") + status)
}

// =============================================================================
// Reports
// =============================================================================

// groupSummary returns one line per group: loaded parts, merge stage and
// master bone count.
func groupSummary(r *assembly.Report) []string {
	var lines []string
	for _, g := range r.Groups {
		parts := []string{fmt.Sprintf("%d/%d parts", g.Loaded(), len(g.Parts))}
		if m := g.Merge; m != nil {
			parts = append(parts, "merge "+m.Stage.String())
			if m.Hierarchy != nil {
				parts = append(parts, fmt.Sprintf("%d bones", m.Hierarchy.Len()))
			}
			if n := len(m.Attachments); n > 0 {
				parts = append(parts, fmt.Sprintf("%d attached", n))
			}
		}
		lines = append(lines, fmt.Sprintf("%s (%s): %s", g.Name, g.Type, strings.Join(parts, ", ")))
	}
	return lines
}

// printResult prints the outcome of one import run.
func printResult(res *pipeline.Result) {
	r := res.Report
	for _, line := range groupSummary(r) {
		printInfo("%s", line)
	}
	m := r.Materials
	printDetail("materials: %d synthesized, %d reused, %d uncached", m.Syntheses, m.Hits, m.Uncachable)
	for _, w := range r.Warnings {
		printWarning("%s %s: %s", w.Code, w.Path, w.Message)
	}
}

// previewTable renders an inspection preview as one table per group.
func previewTable(p assembly.Preview) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	var b strings.Builder
	for i, g := range p.Groups {
		if i > 0 {
			b.WriteString("\n")
		}
		title := fmt.Sprintf("%s (%s)", g.Name, g.Type)
		if g.Merges {
			title += " · merges skeletons"
		}
		b.WriteString(StyleTitle.Render(title))
		b.WriteString("\n")

		rows := make([][]string, 0, len(g.Parts))
		for _, pp := range g.Parts {
			note := pp.Socket
			if pp.Error != "" {
				note = pp.Error
			}
			if pp.Path == g.Primary {
				note = "primary"
			}
			rows = append(rows, []string{pp.Role, pp.Kind, pp.Path, fmt.Sprint(pp.Materials), note})
		}
		parts := g.Parts
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Role", "Kind", "Path", "Materials", "Note").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if row < 0 || row >= len(parts) {
					return lipgloss.NewStyle()
				}
				switch {
				case parts[row].Error != "":
					return StyleWarning
				case parts[row].Role == assembly.RoleSkipped:
					return StyleDim
				}
				return lipgloss.NewStyle()
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}
