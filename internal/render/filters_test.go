package render

import (
	"strings"
	"testing"

	"wordclip/internal/compose"
	"wordclip/internal/config"
	"wordclip/internal/overlay"
	"wordclip/pkg/wordplan"
)

func testComposite(t *testing.T, words []wordplan.Word) *compose.Composite {
	t.Helper()
	comp, err := compose.Compose(
		words,
		overlay.Size{Width: 1920, Height: 1080},
		10,
		compose.BaseVisual{Path: "/tmp/base.png"},
		compose.TextStyle{},
	)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	return comp
}

func TestBuildFilterGraphIncludesOverlays(t *testing.T) {
	cfg := config.Default()
	comp := testComposite(t, []wordplan.Word{
		{Word: "don't stop, believin'", Start: 1, End: 2.5},
		{Word: "journey", Start: 3, End: 4},
	})

	graph, err := BuildFilterGraph(comp, cfg)
	if err != nil {
		t.Fatalf("BuildFilterGraph error: %v", err)
	}

	expectations := []string{
		"scale=w=1920:h=1080",
		"pad=w=1920:h=1080",
		"color=black",
		"setsar=1",
		"fps=30",
		`drawtext=text='don''t stop\, believin'''`,
		"drawtext=text='journey'",
		"fontsize=50",
		"fontcolor=white",
		"bordercolor=black",
		"borderw=3",
		`enable='between(t\,1\,2.5)'`,
		`enable='between(t\,3\,4)'`,
		`alpha='if(lt(t\,1)`,
	}

	for _, expected := range expectations {
		if !strings.Contains(graph, expected) {
			t.Fatalf("expected filter graph to contain %q\ngraph: %s", expected, graph)
		}
	}
}

func TestBuildFilterGraphOverlayOrder(t *testing.T) {
	cfg := config.Default()
	comp := testComposite(t, []wordplan.Word{
		{Word: "first", Start: 0, End: 1},
		{Word: "second", Start: 1, End: 2},
	})

	graph, err := BuildFilterGraph(comp, cfg)
	if err != nil {
		t.Fatalf("BuildFilterGraph error: %v", err)
	}

	first := strings.Index(graph, "text='first'")
	second := strings.Index(graph, "text='second'")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("overlays out of stacking order\ngraph: %s", graph)
	}
}

func TestBuildFilterGraphRejectsBadInput(t *testing.T) {
	cfg := config.Default()

	if _, err := BuildFilterGraph(nil, cfg); err == nil {
		t.Fatal("expected error for nil composite")
	}

	comp := testComposite(t, []wordplan.Word{{Word: "hi", Start: 0, End: 1}})
	bad := cfg
	bad.Video.FPS = 0
	if _, err := BuildFilterGraph(comp, bad); err == nil {
		t.Fatal("expected error for zero fps")
	}
}

func TestElementFilters(t *testing.T) {
	duration := 2.0
	el := overlay.Element{
		Text:     "hello",
		Style:    overlay.Style{FontSize: 40, Color: "white", StrokeColor: "black"},
		Duration: &duration,

		BlackWhite: true,
		MirrorX:    true,
		Scale:      0.5,
	}

	filters := ElementFilters(el)
	joined := strings.Join(filters, ",")

	for _, expected := range []string{
		"drawtext=text='hello'",
		"hue=s=0",
		"hflip",
		"scale=w=iw*0.5:h=ih*0.5",
	} {
		if !strings.Contains(joined, expected) {
			t.Fatalf("expected %q in %q", expected, joined)
		}
	}
	if strings.Contains(joined, "vflip") {
		t.Fatalf("unexpected vflip in %q", joined)
	}
}

func TestBuildFFmpegCmd(t *testing.T) {
	cfg := config.Default()
	comp := testComposite(t, []wordplan.Word{{Word: "hello", Start: 0, End: 2}})

	graph, err := BuildFilterGraph(comp, cfg)
	if err != nil {
		t.Fatalf("BuildFilterGraph error: %v", err)
	}

	cmd, err := BuildFFmpegCmd(comp, "/tmp/out.mp4", graph, cfg)
	if err != nil {
		t.Fatalf("BuildFFmpegCmd error: %v", err)
	}

	includes := [][]string{
		{"-loop", "1"},
		{"-i", "/tmp/base.png"},
		{"-t", "10"},
		{"-vf", graph},
		{"-c:v", "libx264"},
		{"-pix_fmt", "yuv420p"},
		{"-an"},
		{"-movflags", "+faststart"},
		{"/tmp/out.mp4"},
	}

	for _, pair := range includes {
		if len(pair) == 1 {
			found := false
			for _, arg := range cmd {
				if arg == pair[0] {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected command to include %q\ncommand: %#v", pair[0], cmd)
			}
			continue
		}

		found := false
		for i := 0; i < len(cmd)-1; i++ {
			if cmd[i] == pair[0] && cmd[i+1] == pair[1] {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected command to include %q %q\ncommand: %#v", pair[0], pair[1], cmd)
		}
	}
}

func TestBuildFFmpegCmdVideoBaseKeepsAudio(t *testing.T) {
	cfg := config.Default()
	comp, err := compose.Compose(
		[]wordplan.Word{{Word: "hello", Start: 0, End: 2}},
		overlay.Size{Width: 1280, Height: 720},
		5,
		compose.BaseVisual{Path: "/tmp/base.mp4"},
		compose.TextStyle{},
	)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	graph, err := BuildFilterGraph(comp, cfg)
	if err != nil {
		t.Fatalf("BuildFilterGraph error: %v", err)
	}
	cmd, err := BuildFFmpegCmd(comp, "/tmp/out.mp4", graph, cfg)
	if err != nil {
		t.Fatalf("BuildFFmpegCmd error: %v", err)
	}

	for _, arg := range cmd {
		if arg == "-an" || arg == "-loop" {
			t.Fatalf("video base should not get %q\ncommand: %#v", arg, cmd)
		}
	}
}

func TestAlphaExpression(t *testing.T) {
	tests := []struct {
		name            string
		start, end      float64
		fadeIn, fadeOut float64
		contains        []string
		notContains     []string
	}{
		{
			name:  "no fades",
			start: 1, end: 3,
			contains:    []string{"if(lt(t,1),0,", "if(lt(t,3),1,0)"},
			notContains: []string{"(t-1)/"},
		},
		{
			name:  "fade in only",
			start: 0, end: 2, fadeIn: 0.5,
			contains: []string{"if(lt(t,0.5),(t-0)/0.5,"},
		},
		{
			name:  "fade out only",
			start: 0, end: 2, fadeOut: 0.5,
			contains: []string{"if(lt(t,1.5),1,", "(2-t)/0.5"},
		},
		{
			name:  "fades clamp to window",
			start: 0, end: 1, fadeIn: 5, fadeOut: 5,
			contains: []string{"(t-0)/1", "(1-t)/1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr := alphaExpression(tc.start, tc.end, tc.fadeIn, tc.fadeOut)
			for _, want := range tc.contains {
				if !strings.Contains(expr, want) {
					t.Fatalf("expected %q in %q", want, expr)
				}
			}
			for _, not := range tc.notContains {
				if strings.Contains(expr, not) {
					t.Fatalf("did not expect %q in %q", not, expr)
				}
			}
		})
	}
}

func TestEscapeDrawText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"a:b", `a\:b`},
		{"a,b", `a\,b`},
		{"it's", "it''s"},
		{"line1\nline2", `line1\nline2`},
		{"crlf\r\nend", `crlf\nend`},
	}

	for _, tc := range tests {
		if got := escapeDrawText(tc.input); got != tc.want {
			t.Fatalf("escapeDrawText(%q) = %q; want %q", tc.input, got, tc.want)
		}
	}
}

func TestIsImagePath(t *testing.T) {
	if !IsImagePath("/media/bg.PNG") {
		t.Fatal("expected PNG to be an image")
	}
	if IsImagePath("/media/clip.mp4") {
		t.Fatal("expected mp4 to not be an image")
	}
}
