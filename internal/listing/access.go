package listing

import (
	"github.com/phobologic/asmsift/internal/model"
)

// Input returns the buffer the context was created with.
func (c *Context) Input() []byte { return c.input }

// Lines returns the line store. Callers must not modify it.
func (c *Context) Lines() []model.Line { return c.lines }

// Text returns the raw text of line i.
func (c *Context) Text(i int) []byte { return c.lines[i].Text.Bytes(c.input) }

// Name returns the name of line i: label, directive without the leading
// '.', or mnemonic.
func (c *Context) Name(i int) []byte { return c.lines[i].Name.Bytes(c.input) }

// Locations returns the location table.
func (c *Context) Locations() []model.Location { return c.locs.data }

// Location returns the location assigned to line i.
func (c *Context) Location(i int) (model.Location, bool) {
	idx := c.lines[i].Loc
	if !idx.Valid() || int(idx) >= len(c.locs.data) {
		return model.Location{}, false
	}
	return c.locs.data[idx], true
}

// FileCount returns the number of .file entries recorded.
func (c *Context) FileCount() int { return c.files.len() }

// FileID returns the id the listing asserted for file f.
func (c *Context) FileID(f model.FileIndex) uint32 { return c.files.ids[f] }

// FilePath returns the path of file f. The slice aliases the arena.
func (c *Context) FilePath(f model.FileIndex) []byte {
	return c.arena.Bytes(c.files.paths[f])
}

// Source resolves line i to its source path and location.
func (c *Context) Source(i int) (string, model.Location, bool) {
	loc, ok := c.Location(i)
	if !ok || !loc.File.Valid() || int(loc.File) >= c.files.len() {
		return "", model.Location{}, false
	}
	return string(c.FilePath(loc.File)), loc, true
}

// LabelRef is a symbol in a line's operands that names a global label.
type LabelRef struct {
	Name []byte
	Line int
}

// References rescans line i and returns the labels its operands name.
// It does not change any flags.
func (c *Context) References(i int) []LabelRef {
	line := &c.lines[i]
	if line.Kind != model.Instruction && line.Kind != model.Data {
		return nil
	}
	var refs []LabelRef
	r := c.argsCursor(line)
	for {
		sym, ok := r.nextSymbol()
		if !ok {
			return refs
		}
		if idx, ok := c.labels.m[string(sym)]; ok {
			refs = append(refs, LabelRef{Name: sym, Line: int(idx)})
		}
	}
}

// LookupLabel returns the line defining the global label name.
func (c *Context) LookupLabel(name string) (int, bool) {
	idx, ok := c.labels.m[name]
	return int(idx), ok
}
