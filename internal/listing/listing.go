// Package listing parses compiler-emitted assembly listings into classified
// lines and computes which lines a viewer should display.
//
// Parsing runs three passes over the input:
//
//  1. tokenize: split the input into lines, classify each one and index
//     every global label by name.
//  2. resolve: interpret location-tracking and visibility directives, and
//     scan instruction operands for label references.
//  3. propagate: walk the data block following each referenced label,
//     showing data directives and following the labels they reference.
//
// Instructions are always shown. Labels and data directives are shown only
// when transitively reachable from an instruction, a .globl/.weak directive
// or a .type name,@function directive.
//
// A Context holds all state for a single parse and is not safe for
// concurrent use. Independent contexts may run on separate goroutines.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"runtime"
	"time"

	"fortio.org/safecast"

	"github.com/phobologic/asmsift/internal/arena"
	"github.com/phobologic/asmsift/internal/model"
	"github.com/phobologic/asmsift/internal/queue"
)

// MaxLines is the hard limit on the number of lines in one listing.
const MaxLines = 0x10000000

const (
	initialLines     = 2048
	initialLabels    = 1024
	initialQueue     = 64
	initialFiles     = 64
	initialLocations = 256
)

var (
	// ErrEmptyInput is returned by New for a zero-length buffer.
	ErrEmptyInput = errors.New("listing: empty input")
	// ErrInputTooLarge is returned by New when the buffer does not fit
	// 32-bit offsets.
	ErrInputTooLarge = errors.New("listing: input too large")
)

// FatalError aborts a parse. Where names the implementation site that
// detected the condition.
type FatalError struct {
	Msg   string
	Where string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s (in %s)", e.Msg, e.Where)
}

func fatal(msg string) error {
	where := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		where = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return &FatalError{Msg: msg, Where: where}
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for parse diagnostics. Pass nil to
// disable logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			l = l.With(slog.String("component", "listing"))
		}
		c.logger = l
	}
}

// WithMaxLines lowers the line limit. Values outside (0, MaxLines] are
// ignored.
func WithMaxLines(n int) Option {
	return func(c *Context) {
		if n > 0 && n <= MaxLines {
			c.maxLines = n
		}
	}
}

// Context is the state of one parse. It references, but does not own, the
// input buffer, which must outlive it.
type Context struct {
	input    []byte
	lines    []model.Line
	labels   labelIndex
	queue    *queue.Queue[uint32]
	files    fileTable
	locs     locationTable
	arena    arena.Arena
	logger   *slog.Logger
	maxLines int

	err    error
	closed bool

	dequeues int
	pass     [3]time.Duration
}

// New binds a fresh context to data.
func New(data []byte, opts ...Option) (*Context, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	n, err := safecast.Conv[uint32](len(data))
	if err != nil || n == math.MaxUint32 {
		return nil, ErrInputTooLarge
	}

	c := &Context{
		input:    data,
		locs:     newLocationTable(),
		maxLines: MaxLines,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Parse runs all three passes. On failure the returned error is a
// *FatalError, also available from Err; the tables may then be partially
// populated and must not be treated as complete.
func (c *Context) Parse() error {
	if err := c.parse(); err != nil {
		c.err = err
		c.log(slog.LevelDebug, "parse failed", slog.String("error", err.Error()))
		return err
	}

	c.log(slog.LevelDebug, "parse complete",
		slog.Int("lines", len(c.lines)),
		slog.Int("labels", c.labels.len()),
		slog.Int("files", c.files.len()),
		slog.Int("locations", len(c.locs.data)),
		slog.Duration("pass1", c.pass[0]),
		slog.Duration("pass2", c.pass[1]),
		slog.Duration("pass3", c.pass[2]))
	return nil
}

func (c *Context) parse() error {
	if c.closed {
		return fatal("context is closed")
	}
	if err := c.labels.init(initialLabels); err != nil {
		return err
	}
	if c.queue != nil {
		return fatal("label queue already initialised")
	}
	c.queue = queue.New[uint32](initialQueue)

	passes := [3]func() error{c.tokenize, c.resolve, c.propagate}
	for i, pass := range passes {
		start := time.Now()
		err := pass()
		c.pass[i] = time.Since(start)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close releases everything the context owns. It is safe to call after a
// failed Parse.
func (c *Context) Close() {
	c.lines = nil
	c.labels = labelIndex{}
	c.queue = nil
	c.files = fileTable{}
	c.locs = locationTable{}
	c.arena.Reset()
	c.closed = true
}

// Err returns the error recorded by the last Parse, if any.
func (c *Context) Err() error { return c.err }

func (c *Context) log(level slog.Level, msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Log(context.Background(), level, msg, args...)
}
