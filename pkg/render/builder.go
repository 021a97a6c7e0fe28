// Package render writes every catalog example to a snippet file
// (<out>/<component-kebab>/<example-slug>.tsx) on a worker pool.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/jsx"
	"github.com/gnana997/uishowcase/pkg/verify"
)

// SnippetExt is the extension of written snippets.
const SnippetExt = ".tsx"

// Summary is the outcome of a build.
type Summary struct {
	Written int
	Failed  int
	Files   []string // sorted
	Errors  []error
}

// Err joins the job errors, or returns nil.
func (s *Summary) Err() error {
	return errors.Join(s.Errors...)
}

// Builder renders catalogs to snippet files.
type Builder struct {
	opts     jsx.Options
	workers  int
	verifier *verify.Verifier
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithOptions sets the serializer options.
func WithOptions(opts jsx.Options) Option {
	return func(b *Builder) { b.opts = opts }
}

// WithWorkers sets the worker count (CPU-derived when <= 0).
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

// WithVerifier round-trips every snippet before writing it; snippets that
// do not parse back to their element, or miss imports, fail their job.
func WithVerifier(v *verify.Verifier) Option {
	return func(b *Builder) { b.verifier = v }
}

// NewBuilder creates a Builder.
func NewBuilder(logger *slog.Logger, options ...Option) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{opts: jsx.DefaultOptions(), logger: logger}
	for _, o := range options {
		o(b)
	}
	return b
}

// Build writes every example in qs under outDir. Job failures are collected
// in the summary; the returned error is reserved for setup failures and
// cancellation.
func (b *Builder) Build(ctx context.Context, qs *catalog.QueryService, outDir string) (*Summary, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var jobs []Job
	for i := range qs.Catalog.Components {
		comp := &qs.Catalog.Components[i]
		for _, ex := range comp.Examples {
			jobs = append(jobs, Job{Component: comp, Example: ex, JobID: len(jobs)})
		}
	}

	summary := &Summary{}
	if len(jobs) == 0 {
		return summary, nil
	}

	process := func(job Job) (string, error) {
		return b.write(qs, job, outDir)
	}
	pool := NewWorkerPool(ctx, b.workers, process, b.logger)
	pool.Start()

	go func() {
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				b.logger.Debug("stopped submitting render jobs", "error", err)
				break
			}
		}
		pool.Stop()
	}()

	results, errs := pool.Results(), pool.Errors()
	for results != nil || errs != nil {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			summary.Written++
			summary.Files = append(summary.Files, r.Path)
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			summary.Failed++
			summary.Errors = append(summary.Errors, e)
		}
	}
	sort.Strings(summary.Files)

	b.logger.Info("snippets written", "out", outDir, "written", summary.Written, "failed", summary.Failed)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (b *Builder) write(qs *catalog.QueryService, job Job, outDir string) (string, error) {
	rendered := qs.Render(job.Component, job.Example, b.opts)
	sample := rendered.Sample()

	if b.verifier != nil {
		if err := b.check(job.Example.Element, rendered.Code, sample); err != nil {
			return "", err
		}
	}

	dir := filepath.Join(outDir, catalog.Kebab(job.Component.Name))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create component directory: %w", err)
	}
	path := filepath.Join(dir, rendered.Slug+SnippetExt)
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		return "", fmt.Errorf("failed to write snippet: %w", err)
	}
	return path, nil
}

func (b *Builder) check(el *jsx.Element, code, sample string) error {
	result, err := b.verifier.CheckCode(code, el)
	if err != nil {
		return err
	}
	problems := result.Mismatches
	missing, err := b.verifier.CheckImports(sample)
	if err != nil {
		return err
	}
	problems = append(problems, missing...)
	if len(problems) == 0 {
		return nil
	}
	lines := make([]string, len(problems))
	for i, m := range problems {
		lines[i] = m.String()
	}
	return fmt.Errorf("verification failed: %s", strings.Join(lines, "; "))
}
