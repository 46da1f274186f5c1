package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"wordclip/internal/render"
)

// RenderReporter adapts bubbletea message sending to the render.ProgressReporter
// interface. Callers supply the field mappings so the tui package doesn't need
// to know about specific column layouts.
type RenderReporter struct {
	send           func(tea.Msg)
	startFields    func(render.Job) map[string]string
	completeFields func(render.Result) map[string]string
}

// NewRenderReporter constructs a reporter with the given mapping functions.
func NewRenderReporter(
	send func(tea.Msg),
	startFields func(render.Job) map[string]string,
	completeFields func(render.Result) map[string]string,
) *RenderReporter {
	return &RenderReporter{
		send:           send,
		startFields:    startFields,
		completeFields: completeFields,
	}
}

// Start implements render.ProgressReporter.
func (r *RenderReporter) Start(job render.Job) {
	r.send(RowUpdateMsg{
		Key:    job.Name,
		Fields: r.startFields(job),
	})
}

// Complete implements render.ProgressReporter.
func (r *RenderReporter) Complete(res render.Result) {
	r.send(RowUpdateMsg{
		Key:    res.Name,
		Fields: r.completeFields(res),
	})
}
