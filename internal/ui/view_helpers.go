package ui

// view_helpers.go provides common View() rendering helpers.
// Use these to build consistent bordered layouts across all TUI pages.

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewHeader renders title + full-width divider + spacing.
// Use at the start of View() content for consistent headers.
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}

// BuildTwoBoxView wraps content in the main bordered box and appends a help
// line below it.
//
// Layout:
//
//	┌────────────────────────┐
//	│ Main content           │
//	│                        │
//	└────────────────────────┘
//	 help text
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	boxHeight := layout.ViewportHeight - 4
	if boxHeight < MinTableHeight+4 {
		boxHeight = MinTableHeight + 4
	}

	box := BorderStyle.
		Width(layout.InnerWidth).
		Height(boxHeight).
		Render(content)

	var b strings.Builder
	b.WriteString(box)
	b.WriteString("\n ")
	b.WriteString(HintStyle.Render(helpText))
	return b.String()
}

// TruncateCell trims a value to fit a table column, appending "..." when it
// was cut.
func TruncateCell(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
