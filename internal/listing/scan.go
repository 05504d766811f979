package listing

import "github.com/phobologic/asmsift/internal/model"

const eol = '\n'

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
func isAlpha(ch byte) bool { return (ch|0x20) >= 'a' && (ch|0x20) <= 'z' }
func isSpace(ch byte) bool { return ch == ' ' || ch == '\t' }

func isSymbol(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '.' || ch == '$'
}

// isSymbolStart reports whether ch may begin a global symbol name.
func isSymbolStart(ch byte) bool {
	return isAlpha(ch) || ch == '_' || ch == '.'
}

// cursor reads directive and operand text. Every line recorded by the
// tokenizer is followed by a newline in the input, so a cursor that never
// steps over eol stays in bounds without further checks.
type cursor struct {
	buf []byte
	pos int
}

// argsCursor positions a cursor just after the line's name.
func (c *Context) argsCursor(l *model.Line) cursor {
	return cursor{buf: c.input, pos: int(l.Name.End())}
}

func (r *cursor) peek() byte { return r.buf[r.pos] }

func (r *cursor) atEOL() bool { return r.buf[r.pos] == eol }

func (r *cursor) char(v byte) bool {
	if r.buf[r.pos] != v {
		return false
	}
	r.pos++
	return true
}

// spaces skips one or more blanks.
func (r *cursor) spaces() bool {
	if !isSpace(r.buf[r.pos]) {
		return false
	}
	for {
		r.pos++
		if !isSpace(r.buf[r.pos]) {
			return true
		}
	}
}

// number parses a decimal number. Overflow wraps.
func (r *cursor) number() (uint32, bool) {
	if !isDigit(r.buf[r.pos]) {
		return 0, false
	}
	var v uint32
	for isDigit(r.buf[r.pos]) {
		v = v*10 + uint32(r.buf[r.pos]-'0')
		r.pos++
	}
	return v, true
}

// quoted parses a double-quoted string and returns its raw contents.
// Escapes are skipped, not interpreted. On failure the cursor may have
// advanced, but never past eol.
func (r *cursor) quoted() ([]byte, bool) {
	if r.buf[r.pos] != '"' {
		return nil, false
	}
	r.pos++
	start := r.pos
	for {
		switch r.buf[r.pos] {
		case '"':
			s := r.buf[start:r.pos]
			r.pos++
			return s, true
		case '\\':
			r.pos++
		}
		if r.buf[r.pos] == eol {
			return nil, false
		}
		r.pos++
	}
}

// symbol parses a symbol name, including any @-suffix such as foo@PLT.
func (r *cursor) symbol() ([]byte, bool) {
	if !isSymbolStart(r.buf[r.pos]) {
		return nil, false
	}
	start := r.pos
	r.pos++
	for isSymbol(r.buf[r.pos]) || r.buf[r.pos] == '@' {
		r.pos++
	}
	return r.buf[start:r.pos], true
}

// nextSymbol returns the next symbol token before the end of the line,
// skipping string literals and stopping at a comment.
func (r *cursor) nextSymbol() ([]byte, bool) {
	for !r.atEOL() {
		ch := r.peek()
		if ch == '#' || (ch == '/' && r.buf[r.pos+1] == '/') {
			return nil, false
		}
		if sym, ok := r.symbol(); ok {
			return sym, true
		}
		if _, ok := r.quoted(); ok {
			continue
		}
		// a failed string parse can stop on eol
		if r.atEOL() {
			return nil, false
		}
		r.pos++
	}
	return nil, false
}
