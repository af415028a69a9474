package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Terminal palette. ANSI 256 codes so the output degrades on basic terminals.
var (
	colorAccent = lipgloss.Color("37")
	colorOK     = lipgloss.Color("71")
	colorWarn   = lipgloss.Color("179")
	colorRed    = lipgloss.Color("168")
	colorCmd    = lipgloss.Color("110")
	colorText   = lipgloss.Color("253")
	colorGray   = lipgloss.Color("246")
	colorDim    = lipgloss.Color("241")
)

// Exported styles, shared with the explorer view.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
)

var (
	styleText        = lipgloss.NewStyle().Foreground(colorText)
	styleWarnText    = lipgloss.NewStyle().Foreground(colorWarn)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// statusLine is one kind of prefixed status message.
type statusLine struct {
	icon  string
	style lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	lineError   = statusLine{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	lineWarning = statusLine{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (l statusLine) print(msg string) {
	fmt.Println(l.style.Render(l.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { lineSuccess.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any) { lineError.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any) { lineInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	lineWarning.print(styleWarnText.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleText.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleText.Render(value))
}

// printStats prints the segment and polyline counts of a pattern and whether
// it came from the cache, e.g. "412 segments · 38 polylines · cached".
func printStats(segments, polylines int, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d segments", segments))}
	if polylines > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d polylines", polylines)))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render(cacheLabel(cached)))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render(cacheLabel(cached)))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// cacheLabel names where a result came from.
func cacheLabel(cached bool) string {
	if cached {
		return "cached"
	}
	return "fresh"
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printTable prints rows under headers in a rounded table. Columns listed in
// numeric are right-aligned.
func printTable(headers []string, rows [][]string, numeric ...int) {
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1).Foreground(colorText)
	number := cell.Foreground(colorAccent).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case slices.Contains(numeric, col):
				return number
			default:
				return cell
			}
		})
	fmt.Println(t.Render())
}

func printNewline() { fmt.Println() }
