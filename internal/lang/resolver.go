package lang

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
)

type sourceFile struct {
	lang   *Language
	tree   *sitter.Tree
	source []byte
}

// Resolver maps source positions to function names, parsing each file at
// most once. A Resolver is not safe for concurrent use.
type Resolver struct {
	root   string
	logger *slog.Logger
	files  map[string]*sourceFile
}

// NewResolver returns a Resolver that interprets relative paths against root.
func NewResolver(root string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		root:   root,
		logger: logger.With(slog.String("component", "lang")),
		files:  make(map[string]*sourceFile),
	}
}

// Function returns the name of the function containing line:col of path,
// or "" when the file is unsupported, unreadable or the position lies
// outside every function.
func (r *Resolver) Function(ctx context.Context, path string, line, col uint32) string {
	f := r.load(ctx, path)
	if f == nil {
		return ""
	}
	return f.lang.EnclosingFunction(f.tree, f.source, line, col)
}

func (r *Resolver) load(ctx context.Context, path string) *sourceFile {
	if f, ok := r.files[path]; ok {
		return f
	}
	// Failures are cached as nil so each file is attempted once.
	r.files[path] = nil

	l := ForPath(path)
	if l == nil {
		return nil
	}
	full := path
	if !filepath.IsAbs(full) && r.root != "" {
		full = filepath.Join(r.root, full)
	}
	source, err := os.ReadFile(full)
	if err != nil {
		r.logger.Debug("source unavailable", slog.String("path", full), slog.String("error", err.Error()))
		return nil
	}
	tree, err := l.Parse(ctx, source)
	if err != nil {
		r.logger.Warn("source parse failed", slog.String("path", full), slog.String("error", err.Error()))
		return nil
	}
	f := &sourceFile{lang: l, tree: tree, source: source}
	r.files[path] = f
	return f
}

// Close releases the syntax trees held by the resolver.
func (r *Resolver) Close() {
	for path, f := range r.files {
		if f != nil {
			f.tree.Close()
		}
		delete(r.files, path)
	}
}
