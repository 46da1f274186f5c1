package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wordclip/internal/compose"
	"wordclip/internal/config"
	"wordclip/internal/overlay"
	"wordclip/pkg/wordplan"
)

var (
	composeBase     string
	composeOutPath  string
	composeDuration float64
	composeNoMerge  bool
)

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <plan>",
		Short: "Compose a word overlay stack and print the layer plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompose,
	}

	cmd.Flags().StringVar(&composeBase, "base", "", "Base visual media path (required)")
	cmd.Flags().StringVar(&composeOutPath, "out", "", "Write the composite as JSON to this path")
	cmd.Flags().Float64Var(&composeDuration, "duration", 0, "Total duration override in seconds")
	cmd.Flags().BoolVar(&composeNoMerge, "no-merge", false, "Skip merging adjacent same-timed words")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func runCompose(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	comp, err := composeFromPlan(args[0], composeBase, composeDuration, composeNoMerge, cfg)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(comp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode composite: %w", err)
	}

	if composeOutPath != "" {
		if err := os.WriteFile(composeOutPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write composite: %w", err)
		}
	}

	if outputJSON || composeOutPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "composed %d layer(s) over %s -> %s\n",
			len(comp.Layers), composeBase, composeOutPath)
	}
	return nil
}

// composeFromPlan runs the plan-to-composite pipeline shared by the compose
// and render commands.
func composeFromPlan(planPath, basePath string, durationOverride float64, noMerge bool, cfg config.Config) (*compose.Composite, error) {
	entries, err := wordplan.Load(planPath)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("plan has no entries")
	}

	if !noMerge && cfg.Compose.MergeAdjacentValue() {
		entries = wordplan.Merge(entries)
	}

	totalDuration := durationOverride
	if totalDuration <= 0 {
		totalDuration = cfg.Compose.TotalDurationSec
	}
	if totalDuration <= 0 {
		for _, entry := range entries {
			if entry.End > totalDuration {
				totalDuration = entry.End
			}
		}
	}

	canvas := overlay.Size{Width: cfg.Video.Width, Height: cfg.Video.Height}
	style := compose.TextStyle{
		Font:        cfg.Style.Font,
		FontSize:    cfg.Style.FontSize,
		Color:       cfg.Style.Color,
		StrokeWidth: cfg.Style.StrokeWidth,
		StrokeColor: cfg.Style.StrokeColor,
	}

	preset, err := presetFromConfig(overlay.WordOverlay(), cfg.Effects.WordOverlay)
	if err != nil {
		return nil, err
	}

	comp, err := compose.ComposeWithPreset(entries, canvas, totalDuration, compose.BaseVisual{Path: basePath}, style, preset)
	if err != nil {
		return nil, err
	}

	if bg := cfg.Compose.Background; bg != "" {
		for i := range comp.Layers {
			if comp.Layers[i].Kind == compose.LayerBackground {
				comp.Layers[i].Color = bg
			}
		}
	}
	return comp, nil
}
