// Package graph builds the label reference graph of a parsed listing.
package graph

import (
	"sort"

	"github.com/samber/lo"

	"github.com/phobologic/asmsift/internal/listing"
	"github.com/phobologic/asmsift/internal/model"
)

// References returns one edge per (shown line, label) pair where the line's
// operands name the label. Line numbers are output numbers, counting only
// shown lines from 1, so edges line up with view.Build.
func References(c *listing.Context) []model.Reference {
	lines := c.Lines()

	outNum := make([]int, len(lines))
	n := 0
	for i := range lines {
		if lines[i].Shown() {
			n++
			outNum[i] = n
		}
	}

	var refs []model.Reference
	for i := range lines {
		if outNum[i] == 0 {
			continue
		}
		for _, r := range c.References(i) {
			target := outNum[r.Line]
			if target == 0 {
				continue // label never reached
			}
			refs = append(refs, model.Reference{
				Source: outNum[i],
				Label:  string(r.Name),
				Target: target,
			})
		}
	}

	type edgeKey struct {
		src   int
		label string
	}
	refs = lo.UniqBy(refs, func(r model.Reference) edgeKey {
		return edgeKey{r.Source, r.Label}
	})

	// Sort for deterministic output
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Source != refs[j].Source {
			return refs[i].Source < refs[j].Source
		}
		return refs[i].Label < refs[j].Label
	})

	return refs
}

// Unreached returns the names of global labels that nothing reachable
// references, in listing order.
func Unreached(c *listing.Context) []string {
	lines := c.Lines()
	var names []string
	for i := range lines {
		if lines[i].Kind == model.Label && !lines[i].Shown() {
			names = append(names, string(c.Name(i)))
		}
	}
	return lo.Uniq(names)
}
