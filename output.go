package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/phobologic/asmsift/internal/graph"
	"github.com/phobologic/asmsift/internal/lang"
	"github.com/phobologic/asmsift/internal/listing"
	"github.com/phobologic/asmsift/internal/toon"
	"github.com/phobologic/asmsift/internal/view"
)

// writeText prints every shown line, prefixed with path:line:col: when
// locations are requested and the line has one.
func writeText(ctx context.Context, w io.Writer, c *listing.Context, opts options, resolver *lang.Resolver) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	lines := c.Lines()
	for i := range lines {
		if !lines[i].Shown() {
			continue
		}
		if opts.locations {
			if path, loc, ok := c.Source(i); ok {
				_, _ = fmt.Fprintf(bw, "%s:%d:%d: ", path, loc.Line, loc.Col)
				if opts.functions {
					if name := resolver.Function(ctx, path, loc.Line, loc.Col); name != "" {
						_, _ = fmt.Fprintf(bw, "%s: ", name)
					}
				}
			}
		}
		_, _ = bw.Write(c.Text(i))
		_ = bw.WriteByte('\n')
	}
}

// writeToon prints the viewer tables of c, and the reference table when
// refs is set.
func writeToon(w io.Writer, c *listing.Context, name string, refs bool) {
	v := view.Build(c, name)
	if refs {
		v.References = graph.References(c)
	}
	_, _ = fmt.Fprintln(w, toon.Encode(v))
}
