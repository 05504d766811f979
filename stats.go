package main

import (
	"fmt"
	"io"
	"time"

	"github.com/phobologic/asmsift/internal/graph"
	"github.com/phobologic/asmsift/internal/listing"
	"github.com/phobologic/asmsift/internal/model"
)

var kindRows = []struct {
	label string
	kind  model.LineKind
}{
	{"Instructions", model.Instruction},
	{"Labels", model.Label},
	{"Local labels", model.LocalLabel},
	{"Data directives", model.Data},
	{"Other directives", model.Directive},
	{"Comments", model.Comment},
	{"Unknown", model.Unknown},
}

// printStats writes the statistics table for a parsed context.
func printStats(w io.Writer, c *listing.Context) {
	s := c.Stats()
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }

	p("Stats:\n\n")
	p("  %-22s %10d bytes\n", "Input", s.InputBytes)
	p("  %-22s %10d (%d bytes)\n", "Lines", s.Lines, s.LineBytes)
	for _, row := range kindRows {
		n := s.Kinds[row.kind]
		p("  - %-20s %10d (%.2f%%)\n", row.label, n, listing.Percent(n, s.Lines))
	}
	p("  %-22s %10d (%d bytes)\n", "Label index", s.Labels, s.LabelBytes)
	p("  %-22s %10d (%d bytes)\n", "Label queue", s.QueueCap, s.QueueBytes)
	p("  %-22s %10d (%d bytes)\n", "Files", s.Files, s.FileBytes)
	p("  %-22s %10d (%d bytes)\n", "Locations", s.Locations, s.LocationBytes)
	p("  %-22s %10d bytes\n", "Arena", s.ArenaBytes)
	p("  %-22s %10d bytes (%.2f%%)\n", "Used memory", s.Used(), listing.Percent(s.Used(), s.InputBytes))
	p("  %-22s %10d bytes (%.2f%%)\n", "Reserved memory", s.Reserved(), listing.Percent(s.Reserved(), s.InputBytes))
	p("\n")
	p("  %-22s %10d\n", "Label lookups", s.LabelLookups)
	p("  %-22s %10d\n", "Label hits", s.LabelHits)
	p("  %-22s %10d\n", "Labels dequeued", s.Dequeues)
	p("  %-22s %10d\n", "Unreached labels", len(graph.Unreached(c)))
	for i, d := range s.Pass {
		p("  Pass %d          %17s seconds\n", i+1, seconds(d))
	}
}

// seconds formats d as whole seconds and microseconds.
func seconds(d time.Duration) string {
	us := d.Microseconds()
	return fmt.Sprintf("%d.%06d", us/1_000_000, us%1_000_000)
}
