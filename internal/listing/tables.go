package listing

import (
	"github.com/phobologic/asmsift/internal/model"
)

const maxCap = 1 << 31

// grow makes room for one more element, doubling the capacity. The new
// slice is only returned once fully built, so a failed growth leaves s
// untouched.
func grow[T any](s []T, initial int) ([]T, bool) {
	if len(s) < cap(s) {
		return s, true
	}
	ncap := initial
	if cap(s) > 0 {
		ncap = cap(s) << 1
	}
	if ncap > maxCap {
		return s, false
	}
	ns := make([]T, len(s), ncap)
	copy(ns, s)
	return ns, true
}

func (c *Context) pushLine(l model.Line) error {
	if len(c.lines) >= c.maxLines {
		return fatal("line limit exceeded")
	}
	lines, ok := grow(c.lines, initialLines)
	if !ok {
		return fatal("line store overflow")
	}
	c.lines = append(lines, l)
	return nil
}

// labelIndex maps a global label name to the 0-based line defining it.
// Entries are never removed; the first definition of a name wins.
type labelIndex struct {
	m       map[string]uint32
	lookups uint64
	hits    uint64
}

func (x *labelIndex) init(capacity int) error {
	if x.m != nil {
		return fatal("label index already initialised")
	}
	x.m = make(map[string]uint32, capacity)
	return nil
}

func (x *labelIndex) set(name []byte, line uint32) {
	if _, ok := x.m[string(name)]; ok {
		return
	}
	x.m[string(name)] = line
}

func (x *labelIndex) get(name []byte) (uint32, bool) {
	x.lookups++
	line, ok := x.m[string(name)]
	if ok {
		x.hits++
	}
	return line, ok
}

func (x *labelIndex) len() int { return len(x.m) }

// fileTable maps listing-asserted file ids to arena-backed paths.
type fileTable struct {
	ids   []uint32
	paths []model.Span
}

func (f *fileTable) add(id uint32, path model.Span) error {
	ids, ok := grow(f.ids, initialFiles)
	if !ok {
		return fatal("file table overflow")
	}
	paths, ok := grow(f.paths, initialFiles)
	if !ok {
		return fatal("file table overflow")
	}
	f.ids = append(ids, id)
	f.paths = append(paths, path)
	return nil
}

// search returns the first file registered under id. Files are few, so a
// linear scan is enough.
func (f *fileTable) search(id uint32) model.FileIndex {
	for i, v := range f.ids {
		if v == id {
			return model.FileIndex(i)
		}
	}
	return model.NoFile
}

func (f *fileTable) len() int { return len(f.ids) }

// locationTable records the running source position and the table of
// distinct positions pushed so far.
type locationTable struct {
	current   model.Location
	currentID uint32
	hasID     bool
	data      []model.Location
}

func newLocationTable() locationTable {
	return locationTable{current: model.Location{File: model.NoFile}}
}

func (t *locationTable) reset() {
	t.hasID = false
	t.current.File = model.NoFile
}

// push records the current location. Pushing the same location twice in a
// row returns the existing entry.
func (t *locationTable) push() (model.LocIndex, error) {
	if !t.current.File.Valid() {
		return model.NoLocation, nil
	}
	if n := len(t.data); n > 0 && t.data[n-1] == t.current {
		return model.LocIndex(n - 1), nil
	}
	data, ok := grow(t.data, initialLocations)
	if !ok {
		return model.NoLocation, fatal("location table overflow")
	}
	t.data = append(data, t.current)
	return model.LocIndex(len(t.data) - 1), nil
}
