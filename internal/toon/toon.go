// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// listing views.
package toon

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/asmsift/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

type table struct {
	name    string
	columns []string
	rows    [][]string
}

func (t *table) add(cells ...string) { t.rows = append(t.rows, cells) }

// Encode converts a View into TOON format. The refs table is only emitted
// when the view carries references.
func Encode(v *model.View) string {
	var b strings.Builder
	b.WriteString("listing: ")
	b.WriteString(encodeValue(v.Name))

	lines := table{name: "lines", columns: []string{"line", "text"}}
	for i, text := range v.Lines {
		lines.add(itoa(i+1), text)
	}

	locMap := table{name: "location_map", columns: []string{"line", "location"}}
	for _, m := range v.LocationMap {
		locMap.add(itoa(m.Line), itoa(m.Location))
	}

	ranges := table{name: "location_ranges", columns: []string{"first", "last"}}
	for _, r := range v.LocationRanges {
		ranges.add(itoa(r.First), itoa(r.Last))
	}

	locs := table{name: "locations", columns: []string{"file", "line", "col"}}
	for _, l := range v.Locations {
		locs.add(itoa(l.File), utoa(l.Line), utoa(l.Col))
	}

	files := table{name: "files", columns: []string{"index", "path"}}
	for _, f := range v.Files {
		files.add(itoa(f.Index), f.Path)
	}

	tables := []*table{&lines, &locMap, &ranges, &locs, &files}

	if len(v.References) > 0 {
		refs := table{name: "refs", columns: []string{"source", "label", "target"}}
		for _, r := range v.References {
			refs.add(itoa(r.Source), r.Label, itoa(r.Target))
		}
		tables = append(tables, &refs)
	}

	for _, t := range tables {
		b.WriteByte('\n')
		writeTabular(&b, t)
	}
	return b.String()
}

func writeTabular(b *strings.Builder, t *table) {
	b.WriteString(t.name)
	b.WriteByte('[')
	b.WriteString(itoa(len(t.rows)))
	b.WriteString("]{")
	b.WriteString(strings.Join(t.columns, ","))
	b.WriteString("}:")
	for _, row := range t.rows {
		b.WriteString("\n  ")
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(encodeValue(cell))
		}
	}
}

func itoa(n int) string    { return strconv.Itoa(n) }
func utoa(n uint32) string { return strconv.FormatUint(uint64(n), 10) }

func encodeValue(value string) string {
	switch {
	case value == "":
		return `""`
	case value != strings.TrimSpace(value),
		strings.ContainsAny(value, "\n\r\t"):
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}
	if looksNumeric.MatchString(value) {
		return value
	}
	if needsQuoting.MatchString(value) || strings.HasPrefix(value, "-") {
		return quote(value)
	}
	return value
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(value string) string {
	return `"` + quoteReplacer.Replace(value) + `"`
}
