package listing

import (
	"github.com/phobologic/asmsift/internal/model"
)

// resolve is pass 2. Order matters: .loc and .file update running state
// that later instruction lines consume.
func (c *Context) resolve() error {
	for i := range c.lines {
		line := &c.lines[i]

		switch line.Kind {
		case model.Instruction:
			if err := c.scanReferences(line); err != nil {
				return err
			}
			loc, err := c.locs.push()
			if err != nil {
				return err
			}
			line.Loc = loc

		case model.Directive:
			// https://sourceware.org/binutils/docs/as/Pseudo-Ops.html
			args := c.argsCursor(line)
			var err error
			switch string(line.Name.Bytes(c.input)) {
			case "loc":
				c.directiveLoc(&args)
			case "file":
				err = c.directiveFile(&args)
			case "globl", "global", "weak":
				err = c.directiveGlobl(&args)
			case "type":
				err = c.directiveType(&args)
			case "data", "text", "section", "cfi_endproc":
				c.locs.reset()
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// scanReferences marks every label named in the line's operands.
func (c *Context) scanReferences(line *model.Line) error {
	r := c.argsCursor(line)
	for {
		sym, ok := r.nextSymbol()
		if !ok {
			return nil
		}
		if err := c.markLabel(sym); err != nil {
			return err
		}
	}
}

// markLabel shows the label called name, if any, and queues its data block
// the first time it is reached.
func (c *Context) markLabel(name []byte) error {
	idx, ok := c.labels.get(name)
	if !ok {
		return nil
	}
	line := &c.lines[idx]
	line.Flags |= model.Show
	if line.Flags&model.LabelVisited != 0 {
		return nil
	}
	line.Flags |= model.LabelVisited
	if err := c.queue.Push(idx); err != nil {
		return fatal("label queue overflow")
	}
	return nil
}

// .loc <file-id> <line> [<col>]
func (c *Context) directiveLoc(r *cursor) {
	if !r.spaces() {
		return
	}
	id, ok := r.number()
	if !ok || !r.spaces() {
		return
	}
	lnum, ok := r.number()
	if !ok {
		return
	}
	var col uint32
	if r.spaces() {
		col, _ = r.number()
	}

	t := &c.locs
	if !t.hasID || t.currentID != id {
		t.currentID = id
		t.hasID = true
		t.current.File = c.files.search(id)
	}
	t.current.Line = lnum
	t.current.Col = col
}

// .file <id> "<path>"
// .file <id> "<dir>" "<name>"
//
// Paths are copied into the arena as is, without normalisation.
func (c *Context) directiveFile(r *cursor) error {
	if !r.spaces() {
		return nil
	}
	id, ok := r.number()
	if !ok || !r.spaces() {
		return nil
	}
	f1, ok := r.quoted()
	if !ok {
		return nil
	}
	var f2 []byte
	if r.spaces() {
		f2, _ = r.quoted()
	}

	var parts [][]byte
	switch {
	case len(f2) == 0:
		if len(f1) == 0 {
			return nil
		}
		parts = [][]byte{f1}
	case f2[0] == '/':
		parts = [][]byte{f2}
	default:
		parts = [][]byte{f1, {'/'}, f2}
	}

	path, err := c.arena.Append(parts...)
	if err != nil {
		return fatal("arena overflow")
	}
	return c.files.add(id, path)
}

// .globl <name>, .global <name>, .weak <name>
func (c *Context) directiveGlobl(r *cursor) error {
	if !r.spaces() {
		return nil
	}
	sym, ok := r.symbol()
	if !ok {
		return nil
	}
	return c.markLabel(sym)
}

// .type <name>,#<type>
// .type <name>,@<type>
// .type <name>,%<type>
// .type <name>,"<type>"
//
// Only the function type makes the symbol reachable.
func (c *Context) directiveType(r *cursor) error {
	if !r.spaces() {
		return nil
	}
	sym, ok := r.symbol()
	if !ok {
		return nil
	}
	r.spaces()
	if !r.char(',') {
		return nil
	}
	r.spaces()

	var typ []byte
	if r.char('"') {
		if typ, ok = r.symbol(); !ok || !r.char('"') {
			return nil
		}
	} else {
		if !r.char('#') && !r.char('@') && !r.char('%') {
			return nil
		}
		if typ, ok = r.symbol(); !ok {
			return nil
		}
	}

	if string(typ) == "function" {
		return c.markLabel(sym)
	}
	return nil
}
