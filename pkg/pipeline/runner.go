package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mccabe/pkg/cache"
	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/diagram"
	"github.com/matzehuels/mccabe/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, logger and hooks - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Hooks  observability.Hooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Solution is the output of the solve stage.
type Solution struct {
	Column    *column.Column
	Report    column.Report
	InputHash string

	stepping *column.Stepping
}

// Stepping returns the tray stepping, computing it if the report came from
// cache.
func (s *Solution) Stepping() column.Stepping {
	if s.stepping == nil {
		st := s.Column.Step()
		s.stepping = &st
	}
	return *s.stepping
}

// Execute runs the complete solve → diagram → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	hooks := r.Hooks.WithDefaults()

	// Stage 1: Solve
	solveStart := time.Now()
	sol, solveHit, err := r.SolveWithCacheInfo(ctx, opts)
	solveTime := time.Since(solveStart)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	result := &Result{
		Column:    sol.Column,
		Report:    sol.Report,
		InputHash: sol.InputHash,
		Stats: Stats{
			Trays:     sol.Report.Trays,
			Converged: sol.Report.Converged,
			SolveTime: solveTime,
		},
		CacheInfo: CacheInfo{ReportHit: solveHit},
	}

	logSolved(r.Logger, opts, sol.Report, solveTime)

	// Stages 2 and 3: Diagram and Render
	renderStart := time.Now()
	artifacts, d, renderHit, err := r.renderWithCacheInfo(ctx, sol, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.Solve.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Diagram = d
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func logSolved(logger *log.Logger, opts Options, rep column.Report, d time.Duration) {
	kv := []any{"trays", rep.Trays, "converged", rep.Converged, "duration", d}
	if opts.Design.Name != "" {
		kv = append([]any{"name", opts.Design.Name}, kv...)
	}
	if !rep.Converged {
		logger.Warn("stage cap reached before distillate composition", kv...)
		return
	}
	logger.Info("solved design", kv...)
}

// SolveWithCacheInfo builds the column and its report. The report is read
// from cache unless opts.Refresh is set; the column is always constructed
// so that invalid geometry is reported the same way on a hit.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, opts Options) (*Solution, bool, error) {
	hooks := r.Hooks.WithDefaults()
	hooks.Solve.OnSolveStart(ctx, opts.Design.Name)
	start := time.Now()

	sol, hit, err := r.solve(ctx, opts)
	if err != nil {
		hooks.Solve.OnSolveComplete(ctx, opts.Design.Name, 0, false, time.Since(start), err)
		return nil, false, err
	}
	hooks.Solve.OnSolveComplete(ctx, opts.Design.Name, sol.Report.Trays, sol.Report.Converged, time.Since(start), nil)
	return sol, hit, nil
}

func (r *Runner) solve(ctx context.Context, opts Options) (*Solution, bool, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	c, err := BuildColumn(opts)
	if err != nil {
		return nil, false, err
	}

	inputHash, err := opts.InputHash()
	if err != nil {
		return nil, false, fmt.Errorf("hash inputs: %w", err)
	}
	sol := &Solution{Column: c, InputHash: inputHash}
	cacheKey := r.Keyer.ReportKey(inputHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, cacheKey, cache.KeyTypeReport); hit {
			var rep column.Report
			if err := json.Unmarshal(data, &rep); err == nil {
				sol.Report = rep
				return sol, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached report", "key", cacheKey)
		}
	}

	st := c.Step()
	sol.stepping = &st
	sol.Report = c.ReportFor(st)

	if data, err := json.Marshal(sol.Report); err == nil {
		r.cacheSet(ctx, cacheKey, data, cache.TTLReport, cache.KeyTypeReport)
	}
	return sol, false, nil
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, opts Options) (*Solution, error) {
	sol, _, err := r.SolveWithCacheInfo(ctx, opts)
	return sol, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sol *Solution, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.renderWithCacheInfo(ctx, sol, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sol *Solution, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sol, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, sol *Solution, opts Options) (map[string][]byte, diagram.Diagram, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, diagram.Diagram{}, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sol.InputHash, opts.ArtifactKeyOpts(format))
			data, hit := r.cacheGet(ctx, key, cache.KeyTypeArtifact)
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, diagram.Diagram{}, true, nil // All artifacts from cache
		}
	}

	d := BuildDiagram(sol.Column, sol.Stepping(), opts)
	rendered, err := Render(d, sol.Report, opts)
	if err != nil {
		return nil, diagram.Diagram{}, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sol.InputHash, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, key, data, cache.TTLArtifact, cache.KeyTypeArtifact)
	}
	return rendered, d, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// cacheGet treats read errors as misses; the pipeline recomputes instead.
func (r *Runner) cacheGet(ctx context.Context, key, keyType string) ([]byte, bool) {
	hooks := r.Hooks.WithDefaults()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		hooks.Cache.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.Cache.OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte, ttl time.Duration, keyType string) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	r.Hooks.WithDefaults().Cache.OnCacheSet(ctx, keyType, len(data))
}
