// Command palettize rewrites images as 8-bit indexed PNGs that reuse the
// exact palette of a donor PNG.
//
// Usage:
//
//	palettize -p donor.png -i "src/**/*.png" -o gfx/   Convert many images into gfx/
//	palettize -p donor.png -i in.png -o out.png        Convert one image
//	palettize donor.png in.png out.png                 Same, positional form
//	palettize info donor.png                           Display donor palette details
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/carlhannes/palettize"
	"github.com/carlhannes/palettize/batch"
	"github.com/carlhannes/palettize/palette"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailed   = 1
	exitUsage    = 2
	exitNoInputs = 3
	exitNotDir   = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "info":
			return runInfo(args[1:], stdout, stderr)
		case "help":
			printUsage(stderr)
			return exitOK
		}
	}
	return runConvert(ctx, args, stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  palettize -p donor.png -i "src/**/*.png" -o gfx/   Convert many images into gfx/
  palettize -p donor.png -i in.png -o out.png        Convert one image
  palettize donor.png in.png out.png                 Same, positional form
  palettize info donor.png                           Display donor palette details

Quote glob patterns so the shell does not expand them.

Options:
`)
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// --- convert ---

func runConvert(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("palettize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		donor  string
		out    string
		inputs stringList
	)
	fs.StringVar(&donor, "p", "", "donor PNG with a 256-entry PLTE")
	fs.StringVar(&donor, "palette", "", "alias for -p")
	fs.Var(&inputs, "i", "input file or glob (repeatable)")
	fs.Var(&inputs, "in", "alias for -i")
	fs.StringVar(&out, "o", "", `output directory (e.g. "gfx/") or single file path`)
	fs.StringVar(&out, "out", "", "alias for -o")
	jobs := fs.Int("j", runtime.GOMAXPROCS(0), "images converted in parallel")
	level := fs.Int("level", 0, "zlib level 1-9 (0=default, -1=none, -2=speed, -3=best)")
	lastWins := fs.Bool("last-wins", false, "duplicate palette colors map to the highest index")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Usage = func() {
		printUsage(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := fs.Args()
	if donor == "" && out == "" && len(inputs) == 0 && len(rest) == 3 {
		donor, inputs, out = rest[0], stringList{rest[1]}, rest[2]
		rest = nil
	}
	inputs = append(inputs, rest...)

	if donor == "" || out == "" || len(inputs) == 0 {
		fmt.Fprintln(stderr, "palettize: -p, -i and -o are required")
		fs.Usage()
		return exitUsage
	}

	if *level < -3 || *level > 9 {
		fmt.Fprintf(stderr, "palettize: -level %d out of range\n", *level)
		return exitUsage
	}

	log := newLogger(stderr, *verbose)
	defer log.Sync() //nolint:errcheck

	files, err := batch.ResolveInputs(inputs, donor)
	if err != nil {
		if errors.Is(err, batch.ErrNoInputs) {
			fmt.Fprintln(stderr, "No input files matched.")
			return exitNoInputs
		}
		fmt.Fprintf(stderr, "palettize: %v\n", err)
		return exitUsage
	}
	log.Debugw("inputs resolved", "count", len(files))

	target, err := batch.ResolveOutput(out, len(files))
	if err != nil {
		if errors.Is(err, batch.ErrOutputNotDir) {
			fmt.Fprintln(stderr, `When multiple inputs are given, -o/-out must be a directory (e.g. "gfx/").`)
			return exitNotDir
		}
		fmt.Fprintf(stderr, "palettize: %v\n", err)
		return exitFailed
	}

	r, err := batch.NewRunner(batch.Config{
		Donor:       donor,
		OutDir:      target.Dir,
		OutFile:     target.File,
		Concurrency: *jobs,
		Encoder:     &palettize.EncoderOptions{CompressionLevel: palettize.CompressionLevel(*level)},
		LastWins:    *lastWins,
	}, batch.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "palettize: %v\n", err)
		return exitFailed
	}

	s := r.Run(ctx, files)
	for _, res := range s.Results {
		if res.Err != nil {
			fmt.Fprintf(stderr, "ERROR %s: %v\n", res.Input, res.Err)
			continue
		}
		fmt.Fprintf(stdout, "Wrote %s\n", res.Output)
	}
	fmt.Fprintf(stdout, "Done. %d ok, %d failed.\n", s.OK, s.Failed)

	if s.Failed > 0 {
		return exitFailed
	}
	return exitOK
}

// newLogger returns a console logger on w. Only warnings and errors are
// shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Named("palettize").Sugar()
}

// --- info ---

func runInfo(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "info: missing donor file\nUsage: palettize info <donor.png>")
		return exitUsage
	}
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "palettize: %v\n", err)
		return exitFailed
	}
	defer f.Close()

	d, err := palette.Load(f)
	if err != nil {
		fmt.Fprintf(stderr, "palettize: info: %v\n", err)
		return exitFailed
	}

	fmt.Fprintf(stdout, "File:         %s\n", path)
	fmt.Fprintf(stdout, "Entries:      %d\n", palette.Size)
	if d.HasTransparency() {
		fmt.Fprintf(stdout, "Transparency: %d entries\n", len(d.TRNS))
	} else {
		fmt.Fprintf(stdout, "Transparency: none\n")
	}
	fmt.Fprintf(stdout, "Distinct:     %d\n", palette.NewLookup(&d.Table).Len())
	return exitOK
}
