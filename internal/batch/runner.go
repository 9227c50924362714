// Package batch runs the extraction pipeline over every form in a directory.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/candidate-form-extractor/internal/fields"
	"github.com/a3tai/candidate-form-extractor/internal/normalize"
	"github.com/a3tai/candidate-form-extractor/internal/pdf"
)

// DocumentReader reads the text layer of one PDF.
type DocumentReader interface {
	Read(ctx context.Context, path string) (*pdf.Document, error)
}

// Result is the outcome for one file. Values always holds one entry per key,
// absent when the file could not be read.
type Result struct {
	Index    int            `json:"index"`
	FileName string         `json:"file_name"`
	Path     string         `json:"path"`
	Pages    int            `json:"pages"`
	Values   []fields.Value `json:"values"`
	Err      error          `json:"-"`
}

// OK reports whether the file was read and every field was found.
func (r Result) OK() bool {
	return r.Err == nil && fields.Complete(r.Values)
}

// Error returns the read error message, or "".
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Summary holds the ordered results and counters of a run.
type Summary struct {
	Dir     string   `json:"dir"`
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// Runner processes the forms in a directory.
type Runner struct {
	reader  DocumentReader
	keys    []fields.Key
	workers int
	onFile  func(path string)
	logger  *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets how many files are processed at once. Values below 1
// mean sequential processing.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithKeys overrides the labels looked up in each form.
func WithKeys(keys []fields.Key) Option {
	return func(r *Runner) {
		if len(keys) > 0 {
			r.keys = keys
		}
	}
}

// OnFile registers a callback invoked with each path before it is read.
// With more than one worker the callback is called concurrently.
func OnFile(fn func(path string)) Option {
	return func(r *Runner) { r.onFile = fn }
}

// WithLogger sets the logger for per-file failures.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner that reads forms with reader.
func NewRunner(reader DocumentReader, opts ...Option) *Runner {
	r := &Runner{
		reader:  reader,
		keys:    fields.DefaultKeys(),
		workers: 1,
		onFile:  func(string) {},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onFile == nil {
		r.onFile = func(string) {}
	}
	return r
}

// Run processes every PDF directly inside dir in file name order. A file
// that cannot be read still produces a result and the run continues. Run
// returns ctx.Err() when the context is cancelled before all files finish.
func (r *Runner) Run(ctx context.Context, dir string) (*Summary, error) {
	paths, err := ListForms(dir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	if r.workers <= 1 {
		for i, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = r.process(ctx, i, path)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.workers)
		for i, path := range paths {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				results[i] = r.process(ctx, i, path)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	summary := &Summary{Dir: dir, Total: len(results), Results: results}
	for _, res := range results {
		if res.OK() {
			summary.Success++
		}
	}
	summary.Failed = summary.Total - summary.Success
	return summary, nil
}

// Process runs a single file through the pipeline.
func (r *Runner) Process(ctx context.Context, path string) Result {
	return r.process(ctx, 0, path)
}

func (r *Runner) process(ctx context.Context, index int, path string) Result {
	r.onFile(path)

	res := Result{
		Index:    index,
		FileName: filepath.Base(path),
		Path:     path,
	}

	doc, err := r.reader.Read(ctx, path)
	if err != nil {
		r.logger.Warn("failed to read form",
			zap.String("path", path), zap.Error(err))
		res.Err = err
		res.Values = absent(r.keys)
		return res
	}

	res.Pages = doc.PageCount()
	res.Values = fields.Extract(normalize.Normalize(doc.Text()), r.keys)
	if missing := fields.Missing(res.Values); len(missing) > 0 {
		r.logger.Debug("form is missing fields",
			zap.String("path", path), zap.Any("missing", missing))
	}
	return res
}

func absent(keys []fields.Key) []fields.Value {
	values := make([]fields.Value, len(keys))
	for i, key := range keys {
		values[i] = fields.Value{Key: key}
	}
	return values
}

// ListForms returns the paths of the regular *.pdf files directly inside dir,
// sorted by name. Subdirectories are not descended into.
func ListForms(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if !pdf.HasPDFExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isRegularFile(entry, path) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// isRegularFile follows symlinks so a linked form is processed like a copy.
func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
