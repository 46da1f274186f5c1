package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wordclip/internal/config"
	"wordclip/internal/overlay"
	"wordclip/internal/render"
)

var (
	buildText     string
	buildDuration float64
	buildStart    float64
	buildEffects  []string
	buildFontSize int
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a standalone text clip and print its element and filter chain",
		RunE:  runBuild,
	}

	cmd.Flags().StringVar(&buildText, "text", "", "Clip text (required)")
	cmd.Flags().Float64Var(&buildDuration, "duration", 0, "Clip duration in seconds")
	cmd.Flags().Float64Var(&buildStart, "start", 0, "Clip start time in seconds")
	cmd.Flags().StringSliceVar(&buildEffects, "effect", nil, "Effect descriptor like fadein,0.2 (repeat flag for multiple)")
	cmd.Flags().IntVar(&buildFontSize, "font-size", 0, "Font size override")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	preset, err := presetFromConfig(overlay.SingleClip(), cfg.Effects.SingleClip)
	if err != nil {
		return err
	}

	params := overlay.Params{
		"text": buildText,
		"font": cfg.Style.Font,
	}
	if buildFontSize > 0 {
		params["font_size"] = buildFontSize
	} else if cfg.Style.FontSize > 0 {
		params["font_size"] = cfg.Style.FontSize
	}
	if buildStart > 0 {
		params["start_time"] = buildStart
	}
	if buildDuration > 0 {
		params["duration"] = buildDuration
	}
	if len(buildEffects) > 0 {
		params["effects"] = buildEffects
	}

	el, err := overlay.Build(params, preset)
	if err != nil {
		return err
	}

	filters := render.ElementFilters(el)

	if outputJSON {
		payload := struct {
			Element overlay.Element `json:"element"`
			Filters []string        `json:"filters"`
		}{Element: el, Filters: filters}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode build json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	data, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return fmt.Errorf("encode element: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	fmt.Fprintf(cmd.OutOrStdout(), "filters: %s\n", strings.Join(filters, ","))
	return nil
}

// presetFromConfig overlays the configured effect descriptors onto a preset's
// defaults.
func presetFromConfig(preset overlay.Preset, descriptors []string) (overlay.Preset, error) {
	if len(descriptors) == 0 {
		return preset, nil
	}
	effects := make([]overlay.EffectDescriptor, 0, len(descriptors))
	for _, raw := range descriptors {
		desc, err := overlay.ParseEffect(raw)
		if err != nil {
			return preset, fmt.Errorf("config effects: %w", err)
		}
		effects = append(effects, desc)
	}
	preset.DefaultEffects = effects
	return preset, nil
}
