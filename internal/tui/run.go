package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork drives a progress table while workFn executes in the
// background. workFn streams RowUpdateMsg values through send as clips move
// through the render stages; when it returns, the program receives
// WorkDoneMsg (or ErrorMsg if workFn failed) and exits. The returned error is
// workFn's error, the model's fatal error, or the program's own failure.
func RunWithWork(out io.Writer, model ProgressModel, workFn func(send func(tea.Msg)) error) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		err := workFn(func(msg tea.Msg) {
			p.Send(msg)
			// Small yield between sends so the renderer can draw frames.
			// Negligible next to ffmpeg encode time.
			time.Sleep(5 * time.Millisecond)
		})
		if err != nil {
			p.Send(ErrorMsg{Err: err})
			return
		}
		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(ProgressModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
