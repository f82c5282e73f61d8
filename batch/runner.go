// Package batch converts many images against one donor palette: it expands
// input globs, resolves the output location and runs the conversions
// concurrently.
package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/carlhannes/palettize"
	"github.com/carlhannes/palettize/palette"
)

// Config describes a batch run.
type Config struct {
	// Donor is the path of the PNG whose palette is reused.
	Donor string

	// OutDir receives one output per input, named after the input's base
	// name. When empty, OutFile is the single output path.
	OutDir  string
	OutFile string

	// Concurrency bounds the number of images converted at once.
	// Zero or less means runtime.GOMAXPROCS(0).
	Concurrency int

	Encoder  *palettize.EncoderOptions
	LastWins bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// Result is the outcome for one input.
type Result struct {
	Input  string
	Output string
	Err    error
}

// Summary collects the results of a run in input order.
type Summary struct {
	OK      int
	Failed  int
	Results []Result
}

// Runner converts files against a loaded donor palette.
type Runner struct {
	cfg    Config
	target Target
	conv   *palettize.Converter
	log    *zap.SugaredLogger
}

// NewRunner loads the donor palette named by cfg.Donor.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:    cfg,
		target: Target{Dir: cfg.OutDir, File: cfg.OutFile},
		log:    zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(r)
	}
	if !r.target.IsDir() && r.target.File == "" {
		return nil, fmt.Errorf("batch: no output configured")
	}

	f, err := os.Open(cfg.Donor)
	if err != nil {
		return nil, fmt.Errorf("batch: opening donor: %w", err)
	}
	defer f.Close()
	donor, err := palette.Load(f)
	if err != nil {
		return nil, err
	}
	r.log.Debugw("donor loaded", "path", cfg.Donor, "trns", len(donor.TRNS), "hasTRNS", donor.HasTransparency())

	r.conv = palettize.NewConverter(donor, &palettize.Options{
		Encoder:  cfg.Encoder,
		LastWins: cfg.LastWins,
	})
	return r, nil
}

// Donor returns the loaded donor palette.
func (r *Runner) Donor() *palette.Donor {
	return r.conv.Donor()
}

// Run converts inputs with at most Concurrency images in flight. A failing
// image never affects the others. Inputs that map to the same output file
// are converted one after another in input order, so the last one wins.
// Once ctx is done no further images are started and the remaining inputs
// are reported failed with ctx.Err().
func (r *Runner) Run(ctx context.Context, inputs []string) Summary {
	limit := r.cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if !r.target.IsDir() && len(inputs) > 1 {
		return r.failAll(inputs, fmt.Errorf("%w: %q", ErrOutputNotDir, r.target.File))
	}

	results := make([]Result, len(inputs))
	var groups [][]int
	byOutput := make(map[string]int)
	for i, in := range inputs {
		out := r.target.PathFor(in)
		results[i] = Result{Input: in, Output: out}
		gi, ok := byOutput[out]
		if !ok {
			gi = len(groups)
			byOutput[out] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], i)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			for _, i := range group {
				results[i].Err = err
			}
			continue
		}
		if len(group) > 1 {
			r.log.Warnw("inputs share an output file", "output", results[group[0]].Output, "count", len(group))
		}
		g.Go(func() error {
			for _, i := range group {
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				results[i].Err = r.convert(results[i].Input, results[i].Output)
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	s := Summary{Results: results}
	for _, res := range results {
		if res.Err != nil {
			s.Failed++
		} else {
			s.OK++
		}
	}
	r.log.Infow("batch finished", "ok", s.OK, "failed", s.Failed)
	return s
}

func (r *Runner) convert(in, out string) error {
	r.log.Debugw("converting", "input", in, "output", out)
	if err := r.conv.ConvertFile(out, in); err != nil {
		r.log.Debugw("conversion failed", "input", in, "error", err)
		return err
	}
	return nil
}

func (r *Runner) failAll(inputs []string, err error) Summary {
	s := Summary{Failed: len(inputs), Results: make([]Result, len(inputs))}
	for i, in := range inputs {
		s.Results[i] = Result{Input: in, Err: err}
	}
	return s
}
