// Package render translates composed clip structures into ffmpeg terms:
// filter graphs, CLI argument lists, and ffmpeg-go stream graphs. Building
// is pure string/graph assembly; execution happens only in Service.Render.
package render

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"wordclip/internal/compose"
	"wordclip/internal/config"
	"wordclip/internal/overlay"
)

// BuildFilterGraph constructs the ffmpeg video filter graph that conditions
// the base visual to the canvas and draws every word overlay on top of it,
// in stacking order.
func BuildFilterGraph(comp *compose.Composite, cfg config.Config) (string, error) {
	if comp == nil {
		return "", errors.New("composite is nil")
	}
	width := comp.Canvas.Width
	height := comp.Canvas.Height
	if width <= 0 || height <= 0 {
		return "", errors.New("invalid canvas dimensions")
	}
	if cfg.Video.FPS <= 0 {
		return "", errors.New("invalid video fps")
	}
	if comp.TotalDuration <= 0 {
		return "", errors.New("composite missing duration")
	}

	filters := []string{
		fmt.Sprintf("scale=w=%d:h=%d:force_original_aspect_ratio=1:flags=lanczos", width, height),
		fmt.Sprintf("pad=w=%d:h=%d:x=(ow-iw)/2:y=(oh-ih)/2:color=%s", width, height, backgroundColor(comp)),
		"setsar=1",
		fmt.Sprintf("fps=%d", cfg.Video.FPS),
	}

	for _, layer := range comp.Overlays() {
		if f := buildDrawText(layer); f != "" {
			filters = append(filters, f)
		}
	}

	return strings.Join(filters, ","), nil
}

// ElementFilters builds the filter chain for rendering a single element
// standalone, including its geometric and color transforms. Transforms apply
// to the element's own frame, which is why they only participate on the
// single-clip path.
func ElementFilters(el overlay.Element) []string {
	filters := []string{}
	if f := buildDrawText(compose.Layer{Element: &el, Start: el.Start, End: el.End()}); f != "" {
		filters = append(filters, f)
	}
	if el.BlackWhite {
		filters = append(filters, "hue=s=0")
	}
	if el.MirrorX {
		filters = append(filters, "hflip")
	}
	if el.MirrorY {
		filters = append(filters, "vflip")
	}
	if el.Scale > 0 && el.Scale != 1 {
		scale := formatFloat(el.Scale)
		filters = append(filters, fmt.Sprintf("scale=w=iw*%s:h=ih*%s", scale, scale))
	}
	return filters
}

// BuildFFmpegCmd assembles the ffmpeg CLI arguments for a composite render.
func BuildFFmpegCmd(comp *compose.Composite, outputPath, videoFilters string, cfg config.Config) ([]string, error) {
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
	if strings.TrimSpace(videoFilters) == "" {
		return nil, errors.New("video filter graph is empty")
	}
	if comp.TotalDuration <= 0 {
		return nil, errors.New("composite missing duration")
	}

	args := []string{
		"-hide_banner",
		"-y",
	}

	if IsImagePath(base.MediaPath) {
		args = append(args, "-loop", "1")
	}

	args = append(args,
		"-i", base.MediaPath,
		"-t", formatFloat(comp.TotalDuration),
		"-vf", videoFilters,
	)

	videoCodec := strings.TrimSpace(cfg.Video.Codec)
	if videoCodec == "" {
		videoCodec = "libx264"
	}
	args = append(args, "-c:v", videoCodec)

	args = append(args, "-pix_fmt", "yuv420p")

	if IsImagePath(base.MediaPath) {
		args = append(args, "-an")
	}

	args = append(args,
		"-movflags", "+faststart",
		outputPath,
	)

	return args, nil
}

// IsImagePath reports whether the path looks like a still image, which needs
// looping to fill the composite duration.
func IsImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".webp", ".gif":
		return true
	}
	return false
}

func buildDrawText(layer compose.Layer) string {
	el := layer.Element
	if el == nil {
		return ""
	}
	duration := layer.End - layer.Start
	if duration <= 0 {
		return ""
	}

	strokeWidth := el.Style.StrokeWidth
	if strokeWidth < 0 {
		strokeWidth = 0
	}

	x, y := positionExprs(el)

	values := []string{
		fmt.Sprintf("text='%s'", escapeDrawText(el.Text)),
		fmt.Sprintf("fontsize=%d", el.Style.FontSize),
		fmt.Sprintf("fontcolor=%s", fallback(el.Style.Color, "white")),
		fmt.Sprintf("bordercolor=%s", fallback(el.Style.StrokeColor, "black")),
		fmt.Sprintf("borderw=%d", strokeWidth),
		fmt.Sprintf("x=%s", x),
		fmt.Sprintf("y=%s", y),
	}

	if font := strings.TrimSpace(el.Style.Font); font != "" {
		values = append(values, fmt.Sprintf("font='%s'", escapeFilterValue(font)))
	}
	if el.Style.Interline != 0 {
		values = append(values, fmt.Sprintf("line_spacing=%d", el.Style.Interline))
	}
	if bg := strings.TrimSpace(el.Style.BGColor); bg != "" {
		values = append(values, "box=1", fmt.Sprintf("boxcolor=%s", bg))
	}

	enable := fmt.Sprintf("between(t,%s,%s)", formatFloat(layer.Start), formatFloat(layer.End))
	values = append(values, fmt.Sprintf("enable='%s'", escapeFilterValue(enable)))
	alpha := alphaExpression(layer.Start, layer.End, el.FadeIn, el.FadeOut)
	values = append(values, fmt.Sprintf("alpha='%s'", escapeFilterValue(alpha)))

	return "drawtext=" + strings.Join(values, ":")
}

// positionExprs maps the element's alignment and margin to drawtext x/y
// expressions.
func positionExprs(el *overlay.Element) (string, string) {
	margin := el.Style.Margin
	if margin < 0 {
		margin = 0
	}

	var x string
	switch strings.ToLower(strings.TrimSpace(el.Style.HorizontalAlign)) {
	case "left":
		x = strconv.Itoa(margin)
	case "right":
		x = subtractOffset("w-text_w", float64(margin))
	default:
		x = "(w-text_w)/2"
	}

	var y string
	switch strings.ToLower(strings.TrimSpace(el.Style.VerticalAlign)) {
	case "top":
		y = strconv.Itoa(margin)
	case "bottom":
		y = subtractOffset("h-text_h", float64(margin))
	default:
		y = "(h-text_h)/2"
	}

	return x, y
}

func backgroundColor(comp *compose.Composite) string {
	for _, layer := range comp.Layers {
		if layer.Kind == compose.LayerBackground {
			return fallback(layer.Color, "black")
		}
	}
	return "black"
}

// alphaExpression builds the time-dependent opacity expression realizing the
// element's fade-in and fade-out within its [start, end) window.
func alphaExpression(start, end, fadeIn, fadeOut float64) string {
	duration := end - start
	if duration <= 0 {
		return "0"
	}
	fadeIn = clamp(fadeIn, 0, duration)
	fadeOut = clamp(fadeOut, 0, duration)

	startStr := formatFloat(start)
	endStr := formatFloat(end)

	var builder strings.Builder
	builder.WriteString("if(lt(t,")
	builder.WriteString(startStr)
	builder.WriteString("),0,")

	if fadeIn > 0 {
		builder.WriteString("if(lt(t,")
		builder.WriteString(formatFloat(start + fadeIn))
		builder.WriteString("),(t-")
		builder.WriteString(startStr)
		builder.WriteString(")/")
		builder.WriteString(formatFloat(fadeIn))
		builder.WriteString(",")
	}

	if fadeOut > 0 {
		builder.WriteString("if(lt(t,")
		builder.WriteString(formatFloat(end - fadeOut))
		builder.WriteString("),1,if(lt(t,")
		builder.WriteString(endStr)
		builder.WriteString("),(")
		builder.WriteString(endStr)
		builder.WriteString("-t)/")
		builder.WriteString(formatFloat(fadeOut))
		builder.WriteString(",0))")
	} else {
		builder.WriteString("if(lt(t,")
		builder.WriteString(endStr)
		builder.WriteString("),1,0)")
	}

	if fadeIn > 0 {
		builder.WriteString(")")
	}
	builder.WriteString(")")

	return builder.String()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(maxVal, value))
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func subtractOffset(base string, offset float64) string {
	if math.Abs(offset) < 1e-6 {
		return base
	}
	return fmt.Sprintf("%s-%s", base, formatFloat(offset))
}

func escapeDrawText(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")

	const newlinePlaceholder = "\u0000"
	value = strings.ReplaceAll(value, "\n", newlinePlaceholder)

	value = escapeFilterValueNoQuotes(value)
	value = strings.ReplaceAll(value, newlinePlaceholder, `\n`)
	value = strings.ReplaceAll(value, "'", "''")
	return value
}

func escapeFilterValue(value string) string {
	value = escapeFilterValueNoQuotes(value)
	value = strings.ReplaceAll(value, "'", `\'`)
	return value
}

func escapeFilterValueNoQuotes(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ":", `\:`)
	value = strings.ReplaceAll(value, ",", `\,`)
	return value
}
