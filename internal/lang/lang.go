// Package lang provides a language registry mapping source file extensions
// to tree-sitter grammars, and resolves a source position to the name of the
// function that contains it.
package lang

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language

	// FuncTypes are the node types that define a named function.
	FuncTypes map[string]bool

	// FuncName returns the qualified name of a function node, or "" when
	// the node is anonymous.
	FuncName func(node *sitter.Node, source []byte) string
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Parse builds a syntax tree for source.
func (l *Language) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	tree, err := l.NewParser().ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", l.Name, err)
	}
	return tree, nil
}

// EnclosingFunction returns the qualified name of the innermost named
// function in tree that contains the 1-based line and column. A column of 0
// means the start of the line.
func (l *Language) EnclosingFunction(tree *sitter.Tree, source []byte, line, col uint32) string {
	if tree == nil || line == 0 {
		return ""
	}
	pt := sitter.Point{Row: line - 1}
	if col > 0 {
		pt.Column = col - 1
	}
	node := tree.RootNode().NamedDescendantForPointRange(pt, pt)
	for ; node != nil; node = node.Parent() {
		if !l.FuncTypes[node.Type()] {
			continue
		}
		if name := l.FuncName(node, source); name != "" {
			return name
		}
	}
	return ""
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// ForPath returns the language for a source path, or nil if unsupported.
func ForPath(path string) *Language {
	name := ForExtension(filepath.Ext(path))
	if name == "" {
		return nil
	}
	return Languages[name]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
