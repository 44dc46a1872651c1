package smoke

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg struct{}

type doneMsg struct {
	results []Result
	err     error
}

type progressModel struct {
	title   string
	frame   int
	run     func() ([]Result, error)
	done    bool
	results []Result
	err     error
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg {
		results, err := m.run()
		return doneMsg{results: results, err: err}
	}, tick())
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case doneMsg:
		m.done = true
		m.results = msg.results
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", passStyle.Render(spinnerFrames[m.frame]), dimStyle.Render(m.title))
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// runWithProgress shows a spinner on out while fn runs.
func runWithProgress(ctx context.Context, out io.Writer, title string, fn func(context.Context) ([]Result, error)) ([]Result, error) {
	model := progressModel{title: title, run: func() ([]Result, error) { return fn(ctx) }}
	final, err := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		return nil, fmt.Errorf("progress ui: %w", err)
	}
	fm := final.(progressModel)
	return fm.results, fm.err
}
