package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
)

var (
	styleArrow   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	styleTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	styleDesc    = lipgloss.NewStyle().Faint(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	styleFailLbl = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleWarnLbl = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	styleWarnTxt = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	colorEnabled = true
)

// InitConsole enables color when stderr is a terminal and noColor is unset.
func InitConsole(noColor bool) {
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	colorEnabled = tty && !noColor
}

func r(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// GroupHeader renders a group name and the number of sources it maps.
func GroupHeader(name string, sources, operations int) string {
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s %s %s\n",
		r(styleArrow, "→"),
		r(styleTitle, name),
		r(styleDesc, fmt.Sprintf("%d source(s), %d operation(s)", sources, operations)),
	)
}

// RecordLine renders the outcome of one record.
func RecordLine(index int, label string, err error) string {
	if label == "" {
		label = fmt.Sprintf("#%d", index)
	}
	if err == nil {
		return fmt.Sprintf("  %s %s\n", r(styleOK, "ok"), label)
	}
	return fmt.Sprintf("  %s %s %s\n", r(styleFailLbl, "failed"), label, r(styleDesc, ShortError(err)))
}

// Summary renders the totals of a run.
func Summary(total, failed int, elapsed time.Duration) string {
	st := styleOK
	if failed > 0 {
		st = styleFailLbl
	}
	return r(st, fmt.Sprintf("%d record(s), %d failed", total, failed)) +
		r(styleDesc, fmt.Sprintf(" in %s", elapsed.Round(time.Millisecond))) + "\n"
}

// Warnf returns a single-line colored warning string with a standard prefix.
func Warnf(format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	return r(styleWarnLbl, "Warning:") + " " + r(styleWarnTxt, msg)
}

// ShortError condenses a multi-line error, such as an aggregated or Vault
// HTTP error, to its last meaningful line.
func ShortError(err error) string {
	if err == nil {
		return ""
	}
	lines := strings.Split(err.Error(), "\n")
	var candidate string
	for _, ln := range lines {
		t := strings.TrimSpace(ln)
		if t == "" || strings.HasPrefix(t, "URL:") || strings.HasPrefix(t, "Code:") || strings.HasPrefix(t, "Errors:") {
			continue
		}
		if strings.HasSuffix(t, "error occurred:") || strings.HasSuffix(t, "errors occurred:") {
			continue
		}
		candidate = strings.TrimPrefix(t, "* ")
	}
	if strings.Contains(strings.ToLower(candidate), "permission denied") {
		return "permission denied"
	}
	if candidate == "" {
		candidate = strings.TrimSpace(lines[0])
	}
	return candidate
}
