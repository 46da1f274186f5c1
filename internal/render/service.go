package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"

	"wordclip/internal/compose"
	"wordclip/internal/config"
)

// Service coordinates ffmpeg execution for composed clips.
type Service struct {
	Config config.Config
	stdout io.Writer
	stderr io.Writer

	// run executes an assembled stream. Swappable in tests.
	run func(stream *ffmpeg.Stream, stderr io.Writer) error
}

// Options controls render execution behaviour.
type Options struct {
	Concurrency int
	Force       bool
	Reporter    ProgressReporter
}

// Job pairs a composite with its destination file.
type Job struct {
	Name       string
	Composite  *compose.Composite
	OutputPath string
}

// Result captures the outcome of a render attempt.
type Result struct {
	Index      int
	Name       string
	OutputPath string
	Skipped    bool
	Err        error
}

// ProgressReporter receives notifications as jobs move through the pipeline.
type ProgressReporter interface {
	Start(job Job)
	Complete(result Result)
}

// NewService prepares a renderer bound to a configuration.
func NewService(cfg config.Config) *Service {
	return &Service{
		Config: cfg,
		run: func(stream *ffmpeg.Stream, stderr io.Writer) error {
			if stderr != nil {
				return stream.WithErrorOutput(stderr).Run()
			}
			return stream.Run()
		},
	}
}

// SetWriters configures optional stdout/stderr writers for progress messages.
func (s *Service) SetWriters(stdout, stderr io.Writer) {
	if s == nil {
		return
	}
	s.stdout = stdout
	s.stderr = stderr
}

// Render executes ffmpeg for the provided jobs. Results are positional:
// results[i] corresponds to jobs[i]. A cancelled context marks the remaining
// jobs with the context error rather than aborting the slice.
func (s *Service) Render(ctx context.Context, jobs []Job, opts Options) []Result {
	if s == nil {
		return []Result{{Err: errors.New("render service is nil")}}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, job := range jobs {
		i, job := i, job
		if opts.Reporter != nil {
			opts.Reporter.Start(job)
		}
		g.Go(func() error {
			res := s.renderOne(ctx, job, opts.Force)
			res.Index = i
			results[i] = res
			if opts.Reporter != nil {
				opts.Reporter.Complete(res)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (s *Service) renderOne(ctx context.Context, job Job, force bool) Result {
	result := Result{
		Name:       job.Name,
		OutputPath: job.OutputPath,
	}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	if job.Composite == nil {
		result.Err = errors.New("job missing composite")
		return result
	}
	if strings.TrimSpace(job.OutputPath) == "" {
		result.Err = errors.New("job missing output path")
		return result
	}

	if !force {
		if _, err := os.Stat(job.OutputPath); err == nil {
			result.Skipped = true
			s.printf("%s already exists, skipping: %s\n", jobLabel(job), job.OutputPath)
			return result
		} else if !errors.Is(err, os.ErrNotExist) {
			result.Err = fmt.Errorf("stat output: %w", err)
			return result
		}
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		result.Err = fmt.Errorf("ensure output directory: %w", err)
		return result
	}

	stream, err := BuildStream(job.Composite, job.OutputPath, s.Config)
	if err != nil {
		result.Err = fmt.Errorf("build stream: %w", err)
		return result
	}

	s.printf("rendering %s -> %s\n", jobLabel(job), filepath.Base(job.OutputPath))

	if err := s.run(stream, s.stderr); err != nil {
		result.Err = fmt.Errorf("ffmpeg failed: %w", err)
		_ = os.Remove(job.OutputPath)
		return result
	}

	return result
}

func (s *Service) printf(format string, args ...any) {
	if s == nil || s.stdout == nil {
		return
	}
	fmt.Fprintf(s.stdout, format, args...)
}

func jobLabel(job Job) string {
	if name := strings.TrimSpace(job.Name); name != "" {
		return name
	}
	return filepath.Base(job.OutputPath)
}
