package compose

import (
	"testing"

	"wordclip/internal/overlay"
	"wordclip/pkg/wordplan"
)

var testCanvas = overlay.Size{Width: 1280, Height: 720}

func testEntries() []wordplan.Word {
	return []wordplan.Word{
		{Word: "never", Start: 0.2, End: 0.55},
		{Word: "gonna", Start: 0.55, End: 0.9},
		{Word: "give", Start: 1.1, End: 1.4},
	}
}

func TestComposeLayerStack(t *testing.T) {
	entries := testEntries()

	comp, err := Compose(entries, testCanvas, 10, BaseVisual{Path: "bg.png"}, TextStyle{})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	if len(comp.Layers) != len(entries)+2 {
		t.Fatalf("layer count = %d; want %d", len(comp.Layers), len(entries)+2)
	}
	if comp.Layers[0].Kind != LayerBackground || comp.Layers[1].Kind != LayerBase {
		t.Fatalf("bottom layers out of order: %v %v", comp.Layers[0].Kind, comp.Layers[1].Kind)
	}
	if comp.Layers[1].MediaPath != "bg.png" || comp.Layers[1].End != 10 {
		t.Fatalf("base layer not stretched to total duration: %#v", comp.Layers[1])
	}

	overlays := comp.Overlays()
	if len(overlays) != len(entries) {
		t.Fatalf("overlay count = %d; want %d", len(overlays), len(entries))
	}
	for i, layer := range overlays {
		if layer.Element == nil {
			t.Fatalf("overlay %d missing element", i)
		}
		if layer.Start != entries[i].Start || layer.End != entries[i].End {
			t.Fatalf("overlay %d timing = %v..%v; want %v..%v",
				i, layer.Start, layer.End, entries[i].Start, entries[i].End)
		}
		if layer.Element.Text != entries[i].Word {
			t.Fatalf("overlay %d text = %q; want %q", i, layer.Element.Text, entries[i].Word)
		}
	}
}

func TestComposeStyleDefaults(t *testing.T) {
	comp, err := Compose(testEntries(), testCanvas, 5, BaseVisual{Path: "bg.png"}, TextStyle{})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	el := comp.Overlays()[0].Element
	if el.Style.FontSize != 50 || el.Style.StrokeWidth != 3 {
		t.Fatalf("style defaults: %#v", el.Style)
	}
	if el.Style.Color != "white" || el.Style.StrokeColor != "black" {
		t.Fatalf("style defaults: %#v", el.Style)
	}
	if el.FadeIn != 0.06 || el.FadeOut != 0.06 {
		t.Fatalf("word overlays should use fast fades, got %v/%v", el.FadeIn, el.FadeOut)
	}
	if el.Size != testCanvas {
		t.Fatalf("element size = %#v; want canvas %#v", el.Size, testCanvas)
	}
}

func TestComposeResolvedDurations(t *testing.T) {
	comp, err := Compose(testEntries(), testCanvas, 5, BaseVisual{Path: "bg.png"}, TextStyle{})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	for i, layer := range comp.Overlays() {
		duration, ok := layer.Element.DurationValue()
		if !ok {
			t.Fatalf("overlay %d has unresolved duration", i)
		}
		want := layer.End - layer.Start
		if diff := duration - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("overlay %d duration = %v; want %v", i, duration, want)
		}
	}
}

func TestComposeStyleOverrides(t *testing.T) {
	width := 0
	comp, err := Compose(testEntries(), testCanvas, 5, BaseVisual{Path: "bg.png"}, TextStyle{
		Font:        "NotoSans",
		FontSize:    72,
		Color:       "yellow",
		StrokeWidth: &width,
		StrokeColor: "navy",
	})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	style := comp.Overlays()[0].Element.Style
	if style.Font != "NotoSans" || style.FontSize != 72 || style.Color != "yellow" {
		t.Fatalf("overrides not applied: %#v", style)
	}
	if style.StrokeWidth != 0 || style.StrokeColor != "navy" {
		t.Fatalf("explicit zero stroke width ignored: %#v", style)
	}
}

func TestComposeWithPresetAppliesConfiguredEffects(t *testing.T) {
	preset := overlay.WordOverlay()
	preset.DefaultEffects = []overlay.EffectDescriptor{
		{Name: "fadein", Value: 0.25, HasValue: true},
		{Name: "blackwhite"},
	}

	comp, err := ComposeWithPreset(testEntries(), testCanvas, 5, BaseVisual{Path: "bg.png"}, TextStyle{}, preset)
	if err != nil {
		t.Fatalf("ComposeWithPreset error: %v", err)
	}

	for i, layer := range comp.Overlays() {
		el := layer.Element
		if el.FadeIn != 0.25 {
			t.Fatalf("overlay %d fade-in = %v; want configured 0.25", i, el.FadeIn)
		}
		if el.FadeOut != 0 {
			t.Fatalf("overlay %d fade-out = %v; want none, list had no fadeout", i, el.FadeOut)
		}
		if !el.BlackWhite {
			t.Fatalf("overlay %d missing blackwhite from configured list", i)
		}
		if len(el.Effects) != len(preset.DefaultEffects) {
			t.Fatalf("overlay %d applied %d effect(s); want %d", i, len(el.Effects), len(preset.DefaultEffects))
		}
	}
}

func TestComposeWithPresetIgnoresPresetTextField(t *testing.T) {
	// The composer fills the "word" key, so a preset carrying a different
	// text field must still resolve against it.
	preset := overlay.WordOverlay()
	preset.TextField = overlay.FieldText

	comp, err := ComposeWithPreset(testEntries(), testCanvas, 5, BaseVisual{Path: "bg.png"}, TextStyle{}, preset)
	if err != nil {
		t.Fatalf("ComposeWithPreset error: %v", err)
	}
	if got := comp.Overlays()[0].Element.Text; got != "never" {
		t.Fatalf("element text = %q; want %q", got, "never")
	}
}

func TestComposePrebuiltBaseLayer(t *testing.T) {
	pre := &Layer{MediaPath: "loop.mp4"}
	comp, err := Compose(testEntries(), testCanvas, 8, BaseVisual{Layer: pre}, TextStyle{})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	base, ok := comp.Base()
	if !ok {
		t.Fatal("composite missing base layer")
	}
	if base.MediaPath != "loop.mp4" || base.Start != 0 || base.End != 8 {
		t.Fatalf("pre-built base not normalized: %#v", base)
	}
	// The caller's layer must not be mutated.
	if pre.Kind == LayerBase || pre.End == 8 {
		t.Fatalf("input layer mutated: %#v", pre)
	}
}

func TestComposeRejectsBadInputs(t *testing.T) {
	entries := testEntries()

	if _, err := Compose(entries, overlay.Size{}, 5, BaseVisual{Path: "bg.png"}, TextStyle{}); err == nil {
		t.Fatal("expected canvas error")
	}
	if _, err := Compose(entries, testCanvas, 0, BaseVisual{Path: "bg.png"}, TextStyle{}); err == nil {
		t.Fatal("expected duration error")
	}
	if _, err := Compose(entries, testCanvas, 5, BaseVisual{}, TextStyle{}); err == nil {
		t.Fatal("expected base visual error")
	}

	bad := []wordplan.Word{{Word: "  ", Start: 0, End: 1}}
	if _, err := Compose(bad, testCanvas, 5, BaseVisual{Path: "bg.png"}, TextStyle{}); err == nil {
		t.Fatal("expected invalid word error")
	}
}

func TestComposeEmptyPlanYieldsNoOverlays(t *testing.T) {
	comp, err := Compose(nil, testCanvas, 5, BaseVisual{Path: "bg.png"}, TextStyle{})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if len(comp.Layers) != 2 || len(comp.Overlays()) != 0 {
		t.Fatalf("unexpected layers: %#v", comp.Layers)
	}
}
