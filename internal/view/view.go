// Package view projects a parsed listing onto the tables a viewer consumes.
package view

import (
	"github.com/samber/lo"

	"github.com/phobologic/asmsift/internal/listing"
	"github.com/phobologic/asmsift/internal/model"
)

// Build returns the shown lines of c renumbered from 1, the location of each
// located line, runs of consecutive output lines sharing a location, the
// location table, and the files those locations reference.
func Build(c *listing.Context, name string) *model.View {
	lines := c.Lines()
	v := &model.View{Name: name}

	// output line number per input line, 0 if hidden
	outNum := make([]int, len(lines))
	for i := range lines {
		if !lines[i].Shown() {
			continue
		}
		v.Lines = append(v.Lines, string(c.Text(i)))
		outNum[i] = len(v.Lines)
	}

	for i := range lines {
		if loc := lines[i].Loc; loc.Valid() && outNum[i] != 0 {
			v.LocationMap = append(v.LocationMap, model.LocationMapping{
				Line:     outNum[i],
				Location: int(loc) + 1,
			})
		}
	}

	v.LocationRanges = locationRanges(lines, outNum)

	used := make([]bool, c.FileCount())
	v.Locations = lo.Map(c.Locations(), func(l model.Location, _ int) model.ViewLocation {
		if l.File.Valid() && int(l.File) < len(used) {
			used[l.File] = true
		}
		return model.ViewLocation{File: int(l.File) + 1, Line: l.Line, Col: l.Col}
	})

	v.Files = lo.FilterMap(lo.Range(c.FileCount()), func(i int, _ int) (model.ViewFile, bool) {
		if !used[i] {
			return model.ViewFile{}, false
		}
		return model.ViewFile{Index: i + 1, Path: string(c.FilePath(model.FileIndex(i)))}, true
	})

	return v
}

// locationRanges groups located lines into runs. A run continues over
// non-instruction lines and ends at the first instruction with a different
// location.
func locationRanges(lines []model.Line, outNum []int) []model.LineRange {
	var ranges []model.LineRange
	for i := 0; i < len(lines); i++ {
		loc := lines[i].Loc
		if !loc.Valid() || outNum[i] == 0 {
			continue
		}

		r := model.LineRange{First: outNum[i], Last: outNum[i]}
		for i+1 < len(lines) {
			next := &lines[i+1]
			if next.Kind != model.Instruction {
				i++
				continue
			}
			if next.Loc != loc {
				break
			}
			r.Last = outNum[i+1]
			i++
		}
		ranges = append(ranges, r)
	}
	return ranges
}
