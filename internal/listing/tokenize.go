package listing

import (
	"bytes"

	"github.com/phobologic/asmsift/internal/directive"
	"github.com/phobologic/asmsift/internal/model"
)

// tokenize is pass 1. It records one line per newline-terminated physical
// line and indexes global labels. A trailing line without a newline is
// dropped, which is what lets later passes scan without bounds checks.
//
// This loop dominates parse time. It has no cross-line state besides the
// label index, so it could be split across byte ranges as long as block
// comments stay unsupported.
func (c *Context) tokenize() error {
	text := c.input
	size := len(text)

	for pos := 0; pos < size; pos++ {
		lineOff := pos

		// leading indentation, usually a single tab
		for isSpace(text[pos]) {
			pos++
			if pos >= size {
				return nil
			}
		}

		name := model.Span{Off: uint32(pos)}
		kind := model.Unknown
		var flags model.LineFlags

		switch ch := text[pos]; {
		case isSymbol(ch):
			pos++
			for pos < size && isSymbol(text[pos]) {
				pos++
			}
			name.Len = uint32(pos) - name.Off

			if pos < size && text[pos] == ':' {
				if isSymbolStart(text[name.Off]) {
					kind = model.Label
				} else {
					kind = model.LocalLabel
				}
				pos++
			} else if pos >= size || text[pos] == eol || isSpace(text[pos]) {
				if name.Len > 1 && text[name.Off] == '.' {
					name.Off++
					name.Len--
					if directive.IsData(name.Bytes(text)) {
						kind = model.Data
					} else {
						kind = model.Directive
					}
				} else {
					kind = model.Instruction
					flags = model.Show
				}
			}
		case ch == '#':
			kind = model.Comment
			pos++
		case ch == '/':
			if pos+1 < size && text[pos+1] == '/' {
				kind = model.Comment
				pos += 2
			}
		}

		nl := bytes.IndexByte(text[pos:], eol)
		if nl < 0 {
			return nil
		}
		pos += nl

		if err := c.pushLine(model.Line{
			Text:  model.Span{Off: uint32(lineOff), Len: uint32(pos - lineOff)},
			Name:  name,
			Kind:  kind,
			Flags: flags,
			Loc:   model.NoLocation,
		}); err != nil {
			return err
		}

		if kind == model.Label {
			c.labels.set(name.Bytes(text), uint32(len(c.lines)-1))
		}
	}
	return nil
}
