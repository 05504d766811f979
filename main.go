// asmsift filters compiler-generated assembly listings down to the lines a
// reader cares about, optionally annotated with source locations.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/phobologic/asmsift/internal/discover"
	"github.com/phobologic/asmsift/internal/lang"
	"github.com/phobologic/asmsift/internal/listing"
)

var version = "dev"

// errReported means the failure was already written to stderr.
var errReported = errors.New("failure reported")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	locations bool
	functions bool
	quiet     bool
	stats     bool
	format    string
	refs      bool
	workers   int
	maxLines  int
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("asmsift", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: asmsift [options] [input]\n\noptions:\n")
		fs.PrintDefaults()
	}

	var (
		opts        options
		verbose     bool
		showVersion bool
	)

	fs.BoolVar(&opts.locations, "l", false, "print source locations")
	fs.BoolVar(&opts.functions, "fn", false, "print the enclosing source function (implies -l)")
	fs.BoolVar(&opts.quiet, "q", false, "hide asm output")
	fs.BoolVar(&opts.stats, "s", false, "print statistics")
	fs.StringVar(&opts.format, "format", "text", "output format: text or toon")
	fs.BoolVar(&opts.refs, "refs", false, "include the label reference table (toon only)")
	fs.IntVar(&opts.workers, "j", runtime.GOMAXPROCS(0), "number of files parsed in parallel")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(expandShortFlags(args))); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "asmsift %s\n", version)
		return nil
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("invalid argument: %s", fs.Arg(1))
	}
	switch opts.format {
	case "text", "toon":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.functions {
		opts.locations = true
	}
	if opts.workers < 1 {
		opts.workers = 1
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	input := "-"
	if fs.NArg() == 1 {
		input = fs.Arg(0)
	}

	if input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		return runOne(data, "<stdin>", opts, logger, stdout, stderr)
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input path: %w", err)
	}
	if info.IsDir() {
		return runDir(input, opts, logger, stdout, stderr)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return runOne(data, input, opts, logger, stdout, stderr)
}

// runOne parses a single listing and writes it straight to the outputs.
func runOne(data []byte, name string, opts options, logger *slog.Logger, stdout, stderr io.Writer) error {
	resolver := lang.NewResolver("", logger)
	defer resolver.Close()

	r := process(context.Background(), data, name, opts, logger, resolver)
	_, _ = stdout.Write(r.out)
	_, _ = stderr.Write(r.errOut)
	return r.err
}

type result struct {
	out    []byte
	errOut []byte
	err    error
}

// process parses data and renders everything the options ask for into
// buffers so concurrent callers can print results in order.
func process(ctx context.Context, data []byte, name string, opts options, logger *slog.Logger, resolver *lang.Resolver) result {
	var out, errOut bytes.Buffer
	if len(data) == 0 {
		return result{}
	}

	listingOpts := []listing.Option{listing.WithLogger(logger.With(slog.String("input", name)))}
	if opts.maxLines > 0 {
		listingOpts = append(listingOpts, listing.WithMaxLines(opts.maxLines))
	}
	c, err := listing.New(data, listingOpts...)
	if errors.Is(err, listing.ErrInputTooLarge) {
		return result{err: fmt.Errorf("%s: input is too big", name)}
	}
	if err != nil {
		return result{err: fmt.Errorf("%s: %w", name, err)}
	}
	defer c.Close()

	start := time.Now()
	err = c.Parse()
	elapsed := time.Since(start)

	var fe *listing.FatalError
	if errors.As(err, &fe) {
		fmt.Fprintf(&errOut, "Fatal error: %s\n", fe.Msg)
		fmt.Fprintf(&errOut, "  in %s\n", fe.Where)
		return result{errOut: errOut.Bytes(), err: errReported}
	}
	if err != nil {
		return result{err: fmt.Errorf("%s: %w", name, err)}
	}

	if !opts.quiet {
		switch opts.format {
		case "toon":
			writeToon(&out, c, name, opts.refs)
		default:
			writeText(ctx, &out, c, opts, resolver)
		}
	}

	if opts.stats {
		printStats(&errOut, c)
		fmt.Fprintf(&errOut, "\nTook %s seconds\n", seconds(elapsed))
	}

	return result{out: out.Bytes(), errOut: errOut.Bytes()}
}

// runDir parses every listing under root on a pool of workers and prints the
// results in discovery order.
func runDir(root string, opts options, logger *slog.Logger, stdout, stderr io.Writer) error {
	files, err := discover.Files(root)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no assembly files found")
	}

	results := processConcurrent(root, files, opts, logger)

	failed := false
	for i, f := range files {
		r := results[i]
		if len(r.out) > 0 || !opts.quiet {
			_, _ = fmt.Fprintf(stdout, "==> %s <==\n", f.Path)
			_, _ = stdout.Write(r.out)
		}
		if len(r.errOut) > 0 || r.err != nil {
			_, _ = fmt.Fprintf(stderr, "==> %s <==\n", f.Path)
			_, _ = stderr.Write(r.errOut)
		}
		if r.err != nil {
			failed = true
			if !errors.Is(r.err, errReported) {
				_, _ = fmt.Fprintf(stderr, "error: %v\n", r.err)
			}
		}
	}
	if failed {
		return errReported
	}
	return nil
}

func processConcurrent(root string, files []discover.FileEntry, opts options, logger *slog.Logger) []result {
	numWorkers := opts.workers
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own resolver
			resolver := lang.NewResolver("", logger)
			defer resolver.Close()

			for idx := range work {
				f := files[idx]
				data, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					results[idx] = result{err: fmt.Errorf("reading %s: %w", f.Path, err)}
					continue
				}
				results[idx] = process(context.Background(), data, f.Path, opts, logger, resolver)
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-format": true, "--format": true,
	"-j": true, "--j": true,
}

// shortFlags are the single-letter switches that may be grouped, as in -ls.
var shortFlags = map[rune]bool{'l': true, 'q': true, 's': true, 'v': true, 'V': true}

// expandShortFlags splits grouped switches such as -lqs into -l -q -s.
func expandShortFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' || !allShort(arg[1:]) {
			out = append(out, arg)
			continue
		}
		for _, r := range arg[1:] {
			out = append(out, "-"+string(r))
		}
	}
	return out
}

func allShort(s string) bool {
	for _, r := range s {
		if !shortFlags[r] {
			return false
		}
	}
	return true
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg). A lone "-"
// is positional and names stdin.
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 1 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	if len(positional) > 0 {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}
