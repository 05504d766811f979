// Package directive holds the static table of assembler directives that emit
// data (bytes, words, strings, fills) at the current location.
package directive

// dataDirectives lists directive names, without the leading '.', recognised
// as data. Matching is exact and case-sensitive.
var dataDirectives = map[string]struct{}{
	"1byte": {}, "2byte": {}, "4byte": {}, "8byte": {},
	"ascii": {}, "asciz": {},
	"byte": {}, "short": {}, "hword": {}, "word": {}, "int": {}, "long": {},
	"dword": {}, "quad": {}, "xword": {}, "octa": {}, "value": {},
	"single": {}, "float": {}, "double": {},
	"sleb128": {}, "uleb128": {},
	"string": {}, "string8": {}, "string16": {}, "string32": {}, "string64": {},
	"skip": {}, "space": {}, "zero": {}, "fill": {},
	"dc": {}, "dc.a": {}, "dc.b": {}, "dc.d": {}, "dc.l": {}, "dc.s": {}, "dc.w": {}, "dc.x": {},
	"dcb": {}, "dcb.b": {}, "dcb.d": {}, "dcb.l": {}, "dcb.s": {}, "dcb.w": {}, "dcb.x": {},
	"ds": {}, "ds.b": {}, "ds.d": {}, "ds.l": {}, "ds.p": {}, "ds.s": {}, "ds.w": {}, "ds.x": {},
}

const (
	minLen = 2
	maxLen = 8
)

// IsData reports whether name is a data directive.
func IsData(name []byte) bool {
	if len(name) < minLen || len(name) > maxLen {
		return false
	}
	_, ok := dataDirectives[string(name)]
	return ok
}

// Count returns the number of recognised data directives.
func Count() int { return len(dataDirectives) }
