package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// renderTableModel builds the column layout the render command uses, with
// one pending row per clip name.
func renderTableModel(names ...string) ProgressModel {
	m := NewProgressModel("render", []Column{
		{Header: "NAME", Width: 16},
		{Header: "STATUS", Width: 10},
		{Header: "OUTPUT", Width: 20},
		{Header: "ERROR", Width: 24},
	})
	for _, name := range names {
		m.AddRow(name, []string{name, "pending", "", ""})
	}
	return m
}

func applyMsg(t *testing.T, m ProgressModel, msg tea.Msg) (ProgressModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(ProgressModel)
	if !ok {
		t.Fatalf("Update returned %T; want ProgressModel", updated)
	}
	return next, cmd
}

func TestInitStartsAnimation(t *testing.T) {
	m := renderTableModel("intro")
	if m.Init() == nil {
		t.Fatal("Init should schedule the marquee tick and spinner")
	}
}

func TestRowUpdateByKey(t *testing.T) {
	m := renderTableModel("intro", "chorus")

	m, cmd := applyMsg(t, m, RowUpdateMsg{
		Key:    "chorus",
		Fields: map[string]string{"STATUS": "rendering"},
	})
	if cmd != nil {
		t.Fatalf("row update should not emit a command, got %v", cmd)
	}

	if got := m.rows[1].Fields[1]; got != "rendering" {
		t.Fatalf("chorus STATUS = %q; want %q", got, "rendering")
	}
	// Partial update: untouched columns keep their values.
	if got := m.rows[1].Fields[0]; got != "chorus" {
		t.Fatalf("chorus NAME = %q; want unchanged", got)
	}
	if got := m.rows[0].Fields[1]; got != "pending" {
		t.Fatalf("intro STATUS = %q; want untouched %q", got, "pending")
	}

	// Unregistered keys and unknown columns are dropped silently.
	m, _ = applyMsg(t, m, RowUpdateMsg{Key: "bridge", Fields: map[string]string{"STATUS": "rendered"}})
	m, _ = applyMsg(t, m, RowUpdateMsg{Key: "intro", Fields: map[string]string{"CODEC": "libx264"}})
	if got := m.rows[0].Fields[1]; got != "pending" {
		t.Fatalf("intro STATUS = %q after bogus updates; want %q", got, "pending")
	}
}

func TestSpinnerAdvancesUntilDone(t *testing.T) {
	m := renderTableModel("intro")

	m, cmd := applyMsg(t, m, spinner.TickMsg{})
	if cmd == nil {
		t.Fatal("spinner tick should schedule the next frame")
	}

	m, _ = applyMsg(t, m, WorkDoneMsg{})
	if _, cmd = applyMsg(t, m, spinner.TickMsg{}); cmd != nil {
		t.Fatal("spinner must stop once the batch is done")
	}
}

func TestMarqueeTickStopsAfterDone(t *testing.T) {
	m := renderTableModel("intro")

	m, cmd := applyMsg(t, m, tickMsg{})
	if m.tick != 1 || cmd == nil {
		t.Fatalf("tick = %d, cmd = %v; want advancing tick with a reschedule", m.tick, cmd)
	}

	m, _ = applyMsg(t, m, WorkDoneMsg{})
	if _, cmd = applyMsg(t, m, tickMsg{}); cmd != nil {
		t.Fatal("marquee must not reschedule once the batch is done")
	}
}

func TestFooterCountsProcessedRows(t *testing.T) {
	m := renderTableModel("intro", "chorus", "outro")
	m, _ = applyMsg(t, m, RowUpdateMsg{Key: "intro", Fields: map[string]string{"STATUS": "rendered"}})
	m, _ = applyMsg(t, m, RowUpdateMsg{Key: "chorus", Fields: map[string]string{"STATUS": "rendering"}})

	// Both the finished and the in-flight row count as processed; only
	// pending rows do not.
	processed, total := m.progressCounts()
	if processed != 2 || total != 3 {
		t.Fatalf("progressCounts = %d/%d; want 2/3", processed, total)
	}
	if !strings.Contains(m.View(), "Processing 2/3") {
		t.Fatalf("footer missing progress counter:\n%s", m.View())
	}
}

func TestFooterGoneAfterDone(t *testing.T) {
	m := renderTableModel("intro")
	if !strings.Contains(m.View(), "Processing") {
		t.Fatal("footer expected while work is running")
	}

	m, _ = applyMsg(t, m, WorkDoneMsg{})
	if strings.Contains(m.View(), "Processing") {
		t.Fatal("footer must disappear in the final frame")
	}
}

func TestViewRendersTable(t *testing.T) {
	m := renderTableModel("intro", "chorus")
	m, _ = applyMsg(t, m, RowUpdateMsg{
		Key:    "chorus",
		Fields: map[string]string{"STATUS": "rendered", "OUTPUT": "chorus.mp4"},
	})

	view := m.View()
	for _, want := range []string{"NAME", "STATUS", "OUTPUT", "ERROR", "intro", "pending", "chorus.mp4"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestLongOutputTruncatedInFinalFrame(t *testing.T) {
	m := renderTableModel("intro")
	m, _ = applyMsg(t, m, RowUpdateMsg{
		Key:    "intro",
		Fields: map[string]string{"OUTPUT": "a-very-long-output-file-name.mp4"},
	})
	m, _ = applyMsg(t, m, WorkDoneMsg{})

	// Done frames never animate; overlong cells collapse to an ellipsis.
	view := m.View()
	if !strings.Contains(view, "...") {
		t.Fatalf("expected ellipsis in final frame:\n%s", view)
	}
	if strings.Contains(view, "a-very-long-output-file-name.mp4") {
		t.Fatalf("overlong value should not render in full:\n%s", view)
	}
}

func TestErrorReplacesTable(t *testing.T) {
	m := renderTableModel("intro")

	m, cmd := applyMsg(t, m, ErrorMsg{Err: errors.New("base visual unreadable")})
	if cmd == nil {
		t.Fatal("fatal error should quit the program")
	}
	if !m.Done() || m.Err() == nil {
		t.Fatalf("Done = %t, Err = %v; want finished with error", m.Done(), m.Err())
	}

	view := m.View()
	if !strings.Contains(view, "base visual unreadable") {
		t.Fatalf("error view missing message:\n%s", view)
	}
	if strings.Contains(view, "NAME") {
		t.Fatalf("error view should replace the table:\n%s", view)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		m := renderTableModel("intro")
		m, cmd := applyMsg(t, m, key)
		if !m.Done() || cmd == nil {
			t.Fatalf("key %s: Done = %t, cmd = %v; want quit", key, m.Done(), cmd)
		}
	}
}

func TestMarqueeSlidesOverlongText(t *testing.T) {
	const text = "rickroll-compilation"

	if got := marqueeText(text, 30, 4); got != text {
		t.Fatalf("fitting text must not scroll, got %q", got)
	}

	first := marqueeText(text, 8, 0)
	second := marqueeText(text, 8, 1)
	if first != text[:8] {
		t.Fatalf("tick 0 window = %q; want %q", first, text[:8])
	}
	if second != text[1:9] {
		t.Fatalf("tick 1 window = %q; want %q", second, text[1:9])
	}

	// After a full cycle (text plus gap) the window repeats.
	cycle := len(text) + len(marqueeGap)
	if again := marqueeText(text, 8, cycle); again != first {
		t.Fatalf("window after full cycle = %q; want %q", again, first)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	cases := map[string]struct {
		value string
		max   int
		want  string
	}{
		"fits":         {"clip.mp4", 10, "clip.mp4"},
		"trimmed":      {"  clip.mp4  ", 10, "clip.mp4"},
		"ellipsized":   {"renders/out/clip.mp4", 10, "renders..."},
		"tiny-budget":  {"clip.mp4", 2, "cl"},
		"zero-budget":  {"clip.mp4", 0, ""},
		"empty-input":  {"", 8, ""},
		"exact-length": {"clip.mp4", 8, "clip.mp4"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := TruncateWithEllipsis(tc.value, tc.max); got != tc.want {
				t.Fatalf("TruncateWithEllipsis(%q, %d) = %q; want %q", tc.value, tc.max, got, tc.want)
			}
		})
	}
}

func TestNonEmptyOrDash(t *testing.T) {
	if got := NonEmptyOrDash("   "); got != "-" {
		t.Fatalf("blank value = %q; want dash", got)
	}
	if got := NonEmptyOrDash(" clip.mp4 "); got != "clip.mp4" {
		t.Fatalf("value = %q; want trimmed original", got)
	}
}
