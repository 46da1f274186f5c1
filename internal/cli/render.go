package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wordclip/internal/config"
	"wordclip/internal/logx"
	"wordclip/internal/render"
	"wordclip/internal/tui"
)

var (
	renderBase        string
	renderOutDir      string
	renderDuration    float64
	renderNoMerge     bool
	renderConcurrency int
	renderForce       bool
	renderNoProgress  bool
	renderLogDir      string
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <plan>...",
		Short: "Render word overlay clips from timing plans",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRender,
	}

	defaultConcurrency := runtime.NumCPU()
	if defaultConcurrency < 1 {
		defaultConcurrency = 1
	}

	cmd.Flags().StringVar(&renderBase, "base", "", "Base visual media path (required)")
	cmd.Flags().StringVar(&renderOutDir, "out-dir", "out", "Directory for rendered clips")
	cmd.Flags().Float64Var(&renderDuration, "duration", 0, "Total duration override in seconds")
	cmd.Flags().BoolVar(&renderNoMerge, "no-merge", false, "Skip merging adjacent same-timed words")
	cmd.Flags().IntVar(&renderConcurrency, "concurrency", defaultConcurrency, "Concurrent ffmpeg processes")
	cmd.Flags().BoolVar(&renderForce, "force", false, "Re-render even if the output already exists")
	cmd.Flags().BoolVar(&renderNoProgress, "no-progress", false, "Disable interactive progress output")
	cmd.Flags().StringVar(&renderLogDir, "log-dir", "logs", "Directory for ffmpeg log files")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	jobs := make([]render.Job, 0, len(args))
	for _, planPath := range args {
		comp, err := composeFromPlan(planPath, renderBase, renderDuration, renderNoMerge, cfg)
		if err != nil {
			return fmt.Errorf("plan %s: %w", planPath, err)
		}
		name := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
		jobs = append(jobs, render.Job{
			Name:       name,
			Composite:  comp,
			OutputPath: filepath.Join(renderOutDir, name+".mp4"),
		})
	}

	logger, closer, err := logx.New(renderLogDir)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("render start: %d job(s), base=%s, concurrency=%d", len(jobs), renderBase, renderConcurrency)

	svc := render.NewService(cfg)
	svc.SetWriters(nil, logger.Writer())

	outWriter := cmd.OutOrStdout()
	useInteractive := detectInteractiveProgress(outWriter, renderNoProgress || outputJSON)

	var results []render.Result
	if useInteractive {
		results, err = renderWithTUI(ctx, outWriter, svc, jobs)
		if err != nil {
			return err
		}
	} else {
		svc.SetWriters(cmd.OutOrStdout(), logger.Writer())
		results = svc.Render(ctx, jobs, render.Options{
			Concurrency: renderConcurrency,
			Force:       renderForce,
		})
	}

	for _, res := range results {
		logger.Printf("job %s: output=%s skipped=%t err=%v", res.Name, res.OutputPath, res.Skipped, res.Err)
	}

	if outputJSON {
		return writeRenderJSON(cmd, results)
	}
	return writeRenderSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), results)
}

// renderWithTUI runs the batch under a bubbletea progress table.
func renderWithTUI(ctx context.Context, out io.Writer, svc *render.Service, jobs []render.Job) ([]render.Result, error) {
	model := tui.NewProgressModel("render", []tui.Column{
		{Header: "NAME", Width: 24},
		{Header: "STATUS", Width: 10},
		{Header: "OUTPUT", Width: 32},
		{Header: "ERROR", Width: 40},
	})
	for _, job := range jobs {
		model.AddRow(job.Name, []string{job.Name, "pending", "", ""})
	}

	var results []render.Result
	err := tui.RunWithWork(out, model, func(send func(tea.Msg)) error {
		reporter := tui.NewRenderReporter(
			send,
			func(job render.Job) map[string]string {
				return map[string]string{"STATUS": "rendering"}
			},
			func(res render.Result) map[string]string {
				fields := map[string]string{
					"OUTPUT": nonEmptyOrDash(filepath.Base(res.OutputPath)),
					"ERROR":  errorString(res.Err),
				}
				switch {
				case res.Err != nil:
					fields["STATUS"] = "error"
				case res.Skipped:
					fields["STATUS"] = "skipped"
				default:
					fields["STATUS"] = "rendered"
				}
				return fields
			},
		)
		results = svc.Render(ctx, jobs, render.Options{
			Concurrency: renderConcurrency,
			Force:       renderForce,
			Reporter:    reporter,
		})
		// Per-job failures stay in the results and the table; only a nil
		// error lets the program close with the final row states visible.
		return nil
	})
	return results, err
}

func writeRenderSummary(out, errWriter io.Writer, results []render.Result) error {
	var rendered, skipped, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(errWriter, "render %s failed: %v\n", res.Name, res.Err)
			continue
		}
		if res.Skipped {
			skipped++
			fmt.Fprintf(out, "skipped %s -> %s (already exists)\n", res.Name, res.OutputPath)
		} else {
			rendered++
			fmt.Fprintf(out, "rendered %s -> %s\n", res.Name, res.OutputPath)
		}
	}

	fmt.Fprintf(out, "completed renders: %d rendered, %d skipped, %d failed\n", rendered, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d render(s) failed", failed)
	}
	return nil
}

func writeRenderJSON(cmd *cobra.Command, results []render.Result) error {
	payload := struct {
		Results []renderJSONResult `json:"results"`
		Summary renderJSONSummary  `json:"summary"`
	}{
		Results: make([]renderJSONResult, 0, len(results)),
	}

	for _, res := range results {
		payload.Results = append(payload.Results, renderJSONResult{
			Index:      res.Index,
			Name:       res.Name,
			OutputPath: res.OutputPath,
			Skipped:    res.Skipped,
			Error:      errorString(res.Err),
		})
		switch {
		case res.Err != nil:
			payload.Summary.Failed++
		case res.Skipped:
			payload.Summary.Skipped++
		default:
			payload.Summary.Rendered++
		}
	}

	sort.Slice(payload.Results, func(i, j int) bool {
		return payload.Results[i].Index < payload.Results[j].Index
	})

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode render json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if payload.Summary.Failed > 0 {
		return fmt.Errorf("%d render(s) failed", payload.Summary.Failed)
	}
	return nil
}

type renderJSONResult struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	OutputPath string `json:"output_path"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

type renderJSONSummary struct {
	Rendered int `json:"rendered"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}
