package render

import (
	"errors"
	"fmt"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"wordclip/internal/compose"
	"wordclip/internal/config"
)

// BuildStream assembles the ffmpeg-go stream graph for a composite render.
// The graph mirrors BuildFilterGraph: condition the base visual to the
// canvas, then draw every overlay in stacking order. Raw filter values are
// passed unescaped; ffmpeg-go handles filter-argument quoting itself.
func BuildStream(comp *compose.Composite, outputPath string, cfg config.Config) (*ffmpeg.Stream, error) {
	if comp == nil {
		return nil, errors.New("composite is nil")
	}
	base, ok := comp.Base()
	if !ok || strings.TrimSpace(base.MediaPath) == "" {
		return nil, errors.New("composite missing base media path")
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New("output path is empty")
	}
	if comp.TotalDuration <= 0 {
		return nil, errors.New("composite missing duration")
	}
	width := comp.Canvas.Width
	height := comp.Canvas.Height
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid canvas dimensions")
	}
	if cfg.Video.FPS <= 0 {
		return nil, errors.New("invalid video fps")
	}

	inputArgs := ffmpeg.KwArgs{}
	if IsImagePath(base.MediaPath) {
		inputArgs["loop"] = 1
		inputArgs["t"] = formatFloat(comp.TotalDuration)
	}

	stream := ffmpeg.Input(base.MediaPath, inputArgs).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("w=%d:h=%d:force_original_aspect_ratio=1:flags=lanczos", width, height)}).
		Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2", width, height)}, ffmpeg.KwArgs{
			"color": backgroundColor(comp),
		}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("fps", ffmpeg.Args{fmt.Sprintf("%d", cfg.Video.FPS)})

	for _, layer := range comp.Overlays() {
		kwargs, ok := drawTextKwArgs(layer)
		if !ok {
			continue
		}
		stream = stream.Filter("drawtext", ffmpeg.Args{}, kwargs)
	}

	outputArgs := ffmpeg.KwArgs{
		"t":        formatFloat(comp.TotalDuration),
		"c:v":      fallback(cfg.Video.Codec, "libx264"),
		"pix_fmt":  "yuv420p",
		"movflags": "+faststart",
	}
	if IsImagePath(base.MediaPath) {
		outputArgs["an"] = ""
	}

	return stream.Output(outputPath, outputArgs).OverWriteOutput(), nil
}

// drawTextKwArgs maps an overlay layer onto drawtext filter arguments. The
// values here are raw: escaping is ffmpeg-go's job on this path.
func drawTextKwArgs(layer compose.Layer) (ffmpeg.KwArgs, bool) {
	el := layer.Element
	if el == nil || layer.End-layer.Start <= 0 {
		return nil, false
	}

	strokeWidth := el.Style.StrokeWidth
	if strokeWidth < 0 {
		strokeWidth = 0
	}
	x, y := positionExprs(el)

	kwargs := ffmpeg.KwArgs{
		"text":        el.Text,
		"fontsize":    el.Style.FontSize,
		"fontcolor":   fallback(el.Style.Color, "white"),
		"bordercolor": fallback(el.Style.StrokeColor, "black"),
		"borderw":     strokeWidth,
		"x":           x,
		"y":           y,
		"enable":      fmt.Sprintf("between(t,%s,%s)", formatFloat(layer.Start), formatFloat(layer.End)),
		"alpha":       alphaExpression(layer.Start, layer.End, el.FadeIn, el.FadeOut),
	}
	if font := strings.TrimSpace(el.Style.Font); font != "" {
		kwargs["font"] = font
	}
	if el.Style.Interline != 0 {
		kwargs["line_spacing"] = el.Style.Interline
	}
	if bg := strings.TrimSpace(el.Style.BGColor); bg != "" {
		kwargs["box"] = 1
		kwargs["boxcolor"] = bg
	}
	return kwargs, true
}
