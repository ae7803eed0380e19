// Package driver lints files and directories: it loads documents, runs the
// validator over them in parallel, applies fixes and consults the disk
// cache.
package driver

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gfmlint/internal/diagfmt"
	"gfmlint/internal/fix"
	"gfmlint/internal/logging"
	"gfmlint/internal/observ"
	"gfmlint/internal/processor"
	"gfmlint/internal/source"
	"gfmlint/internal/validate"
)

// maxFixPasses bounds the fix loop; a fix can expose another finding.
const maxFixPasses = 3

// Options configures a Driver.
type Options struct {
	Processor processor.Config
	Validate  validate.Options
	Jobs      int  // <= 0 means GOMAXPROCS
	Fix       bool // apply fixes and write files back
	Cache     *DiskCache
	Progress  ProgressSink
	Logger    *zap.Logger
	Timer     *observ.Timer
}

// Driver is safe for concurrent use.
type Driver struct {
	opts     Options
	proc     *processor.Processor
	settings Digest
	log      *zap.Logger
}

// New creates a driver. Nil Validate.Categories means every category.
func New(opts Options) *Driver {
	opts.Processor.Timer = opts.Timer
	if opts.Validate.Categories == nil {
		opts.Validate = validate.DefaultOptions()
	}
	return &Driver{
		opts:     opts,
		proc:     processor.New(opts.Processor),
		settings: settingsDigest(opts.Processor, opts.Validate),
		log:      logging.OrNop(opts.Logger),
	}
}

// Processor returns the processor the driver runs.
func (d *Driver) Processor() *processor.Processor {
	return d.proc
}

// LintPaths lints every document named by targets (files or directories).
// Reports come back in target order. Only cancellation aborts the batch;
// files that fail to load get a parse-error result.
func (d *Driver) LintPaths(ctx context.Context, targets []string) ([]diagfmt.FileReport, error) {
	files, err := ExpandTargets(targets)
	if err != nil {
		return nil, err
	}
	return d.LintFiles(ctx, files)
}

// LintFiles lints files in parallel.
func (d *Driver) LintFiles(ctx context.Context, files []string) ([]diagfmt.FileReport, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, f := range files {
		emit(d.opts.Progress, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := d.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	reports := make([]diagfmt.FileReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := d.LintFile(gctx, path)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	emit(d.opts.Progress, Event{Stage: StageLint, Status: StatusDone})
	return reports, nil
}

// LintFile lints one file from disk. A load failure is reported as a
// parse-error result and returned as error.
func (d *Driver) LintFile(ctx context.Context, path string) (diagfmt.FileReport, error) {
	start := time.Now()
	emit(d.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})

	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read %s: %w", path, err)
		d.log.Warn("cannot load file", zap.String("path", path), zap.Error(err))
		emit(d.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return diagfmt.FileReport{
			Path:    path,
			Results: []validate.ValidationResult{validate.ParseError(err.Error())},
		}, err
	}
	return d.lint(ctx, path, raw, true, start)
}

// LintSource lints in-memory content (stdin, editor buffers). Fixes are
// applied to the returned Source but nothing is written.
func (d *Driver) LintSource(ctx context.Context, name string, content []byte) (diagfmt.FileReport, error) {
	return d.lint(ctx, name, content, false, time.Now())
}

// ReadSource lints everything r yields under name.
func (d *Driver) ReadSource(ctx context.Context, name string, r io.Reader) (diagfmt.FileReport, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return diagfmt.FileReport{}, fmt.Errorf("read %s: %w", name, err)
	}
	return d.LintSource(ctx, name, content)
}

func (d *Driver) lint(ctx context.Context, path string, raw []byte, fromDisk bool, start time.Time) (diagfmt.FileReport, error) {
	content, _ := source.Normalize(raw)
	rep := diagfmt.FileReport{Path: path, Source: content}
	emit(d.opts.Progress, Event{File: path, Stage: StageLint, Status: StatusWorking})

	var key Digest
	useCache := fromDisk && !d.opts.Fix && d.opts.Cache != nil
	if useCache {
		key = combineDigest(sha256.Sum256(content), d.settings, pathDigest(path))
		var payload DiskPayload
		hit, err := d.opts.Cache.Get(key, &payload)
		if err != nil {
			d.log.Debug("cache read failed", zap.String("path", path), zap.Error(err))
		}
		if hit && payload.Path != path {
			d.log.Debug("cache entry belongs to another file", zap.String("path", path), zap.String("entry", payload.Path))
			hit = false
		}
		if hit {
			rep.Results = payload.Results
			rep.Cached = true
			d.done(path, rep, start)
			return rep, nil
		}
	}

	if d.opts.Fix {
		fixed, edits, err := d.applyFixes(ctx, path, content, fromDisk)
		if err != nil {
			emit(d.opts.Progress, Event{File: path, Stage: StageFix, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			return rep, err
		}
		rep.Source, rep.Fixed = fixed, edits
	}

	v := validate.New(d.proc,
		validate.WithPath(path),
		validate.WithLogger(d.log),
		validate.WithTimer(d.opts.Timer))
	rep.Results = v.Validate(ctx, string(rep.Source), d.opts.Validate)
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	if useCache {
		payload := DiskPayload{Path: path, ContentHash: sha256.Sum256(content), Results: rep.Results}
		if err := d.opts.Cache.Put(key, &payload); err != nil {
			d.log.Debug("cache write failed", zap.String("path", path), zap.Error(err))
		}
	}
	d.done(path, rep, start)
	return rep, nil
}

// applyFixes runs the processor and applies every fix until nothing is
// left to fix or maxFixPasses is reached. Files on disk are rewritten once
// at the end.
func (d *Driver) applyFixes(ctx context.Context, path string, content []byte, write bool) ([]byte, int, error) {
	emit(d.opts.Progress, Event{File: path, Stage: StageFix, Status: StatusWorking})
	total := 0
	current := content
	for range maxFixPasses {
		diags, err := d.proc.Process(ctx, path, current)
		if err != nil {
			// оставляем как есть: Validate сообщит parse-error
			return current, total, nil
		}
		out, res, err := fix.Apply(current, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll})
		if errors.Is(err, fix.ErrNoFixes) {
			break
		}
		if err != nil {
			return current, total, err
		}
		for _, s := range res.Skipped {
			d.log.Debug("fix skipped", zap.String("path", path), zap.String("fix", s.ID), zap.String("reason", s.Reason))
		}
		total += res.Edits()
		current = out
	}
	if total > 0 && write && fileExists(path) {
		if err := fix.WriteFile(path, current); err != nil {
			return content, 0, err
		}
		d.log.Info("fixed file", zap.String("path", path), zap.Int("edits", total))
	}
	return current, total, nil
}

func (d *Driver) done(path string, rep diagfmt.FileReport, start time.Time) {
	elapsed := time.Since(start)
	d.log.Debug("linted",
		zap.String("path", path),
		zap.Int("results", len(rep.Results)),
		zap.Bool("cached", rep.Cached),
		zap.Duration("elapsed", elapsed))
	emit(d.opts.Progress, Event{
		File:    path,
		Stage:   StageLint,
		Status:  StatusDone,
		Elapsed: elapsed,
		Results: len(rep.Results),
		Cached:  rep.Cached,
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
