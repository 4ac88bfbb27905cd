package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brickforge/brickmap/pkg/mosaic"
	"github.com/brickforge/brickmap/pkg/pipeline"
)

// progressBarWidth is the character width of the rendered bar.
const progressBarWidth = 40

// =============================================================================
// ProgressModel - Live conversion progress
// =============================================================================

type progressFractionMsg float64

type progressDoneMsg struct{}

// ProgressModel is the bubbletea model showing merge progress as a bar.
type ProgressModel struct {
	fraction  float64
	cancelled bool
	cancel    context.CancelFunc
}

func newProgressModel(cancel context.CancelFunc) ProgressModel {
	return ProgressModel{cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressFractionMsg:
		m.fraction = float64(msg)
		return m, nil
	case progressDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.cancelled {
		return StyleWarning.Render("Cancelling...") + "\n"
	}

	filled := int(m.fraction * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := styleIconSpinner.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", progressBarWidth-filled))

	return fmt.Sprintf("%s %s %s\n",
		StyleDim.Render("Generating bricks"),
		bar,
		StyleNumber.Render(fmt.Sprintf("%3.0f%%", m.fraction*100)))
}

// runWithProgress executes fn while rendering a live progress bar. The
// callback handed to fn feeds the bar; pressing q or ctrl+c cancels the
// conversion through the derived context.
func runWithProgress(ctx context.Context, fn func(progress mosaic.ProgressFunc) (*pipeline.Result, error)) (*pipeline.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(cancel),
		tea.WithOutput(os.Stderr),
		tea.WithoutSignalHandler())

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	resCh := make(chan outcome, 1)

	go func() {
		progress := func(fraction float64) bool {
			p.Send(progressFractionMsg(fraction))
			return runCtx.Err() == nil
		}
		result, err := fn(progress)
		p.Send(progressDoneMsg{})
		resCh <- outcome{result, err}
	}()

	// A terminal UI failure is not fatal, the conversion continues
	// without a bar.
	_, _ = p.Run()

	out := <-resCh
	if runCtx.Err() != nil && out.err == nil {
		return nil, context.Canceled
	}
	return out.result, out.err
}
