package smoke

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func renderHuman(w io.Writer, title string, results []Result, err error) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, r := range results {
		mark := passStyle.Render("PASS")
		if !r.OK {
			mark = failStyle.Render("FAIL")
		}
		fmt.Fprintf(&b, "%s %-30s %s\n", mark, r.Name, dimStyle.Render(r.Duration.Round(1e6).String()))
		if r.Error != "" {
			fmt.Fprintf(&b, "     %s\n", dimStyle.Render(r.Error))
		}
	}
	summary := passStyle.Render(fmt.Sprintf("%d checks passed", len(results)))
	if err != nil {
		summary = failStyle.Render("smoke failed: " + err.Error())
	}
	b.WriteString(summary)
	fmt.Fprintln(w, boxStyle.Render(b.String()))
}

type ciResult struct {
	OK      bool     `json:"ok"`
	Title   string   `json:"title"`
	Results []Result `json:"results"`
	Error   string   `json:"error,omitempty"`
}

func renderCI(w io.Writer, title string, results []Result, err error) {
	out := ciResult{OK: err == nil, Title: title, Results: results}
	if err != nil {
		out.Error = err.Error()
	}
	_ = json.NewEncoder(w).Encode(out)
}
