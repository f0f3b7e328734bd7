package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

// The node colors mirror the diagram's classification: amber for active
// nodes, teal for siblings, dim gray for faded ones.
var (
	colorCyan   = lipgloss.Color("36")  // siblings, titles
	colorGreen  = lipgloss.Color("35")  // success, cursor
	colorYellow = lipgloss.Color("220") // active nodes, warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values, plain nodes
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text, faded nodes
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

	// StyleWarning for warnings and errors on stderr.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	nodeActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	nodeSiblingStyle = lipgloss.NewStyle().Foreground(colorCyan)
	nodeNormalStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	nodeFadedStyle   = lipgloss.NewStyle().Foreground(colorDim)
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	contentStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	pathSep     = " › "
)

// =============================================================================
// Status Output
// =============================================================================

// stdout receives all status lines. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func printLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, ""))
}

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess.Render(iconSuccess), " ", fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError.Render(iconError), " ", fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo.Render(iconInfo), " ", fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	printLine("  ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	printLine("  ", StyleDim.Render(iconArrow), " ", StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	printLine(styleKey.Render(key), " ", StyleValue.Render(value))
}

// printStats prints a frame summary, e.g. "14 nodes · 13 links · desktop".
func printStats(nodes, links int, breakpoint string) {
	sep := StyleDim.Render(" · ")
	printLine("  ", StyleDim.Render(fmt.Sprintf("%d nodes", nodes)), sep,
		StyleDim.Render(fmt.Sprintf("%d links", links)), sep,
		StyleDim.Render(breakpoint))
}

// printBreadcrumb prints the labels from the root to the selected node.
func printBreadcrumb(labels []string) {
	if len(labels) == 0 {
		return
	}
	last := len(labels) - 1
	printLine("  ", StyleDim.Render(strings.Join(labels[:last], pathSep)+pathSep), nodeActiveStyle.Render(labels[last]))
}

func printNextStep(description, cmd string) {
	printLine(StyleDim.Render(description+":"), " ", styleCommand.Render(cmd))
}
