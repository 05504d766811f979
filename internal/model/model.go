// Package model defines core data structures for asmsift.
package model

// Span references a byte range inside a base buffer (the input or the arena).
// It never owns memory.
type Span struct {
	Off uint32
	Len uint32
}

// End returns the offset one past the last byte of the span.
func (s Span) End() uint32 { return s.Off + s.Len }

// Bytes slices base with the span.
func (s Span) Bytes(base []byte) []byte {
	return base[s.Off : s.Off+s.Len : s.Off+s.Len]
}

// LineKind classifies a physical line of an assembly listing.
type LineKind uint8

const (
	Unknown LineKind = iota
	Label
	LocalLabel
	Data      // data directive
	Directive // any other directive
	Instruction
	Comment

	LineKindCount
)

var lineKindNames = [LineKindCount]string{
	Unknown:     "unknown",
	Label:       "label",
	LocalLabel:  "local_label",
	Data:        "data",
	Directive:   "directive",
	Instruction: "instruction",
	Comment:     "comment",
}

func (k LineKind) String() string {
	if k < LineKindCount {
		return lineKindNames[k]
	}
	return "invalid"
}

// LineFlags is the per-line bit set updated by reachability.
type LineFlags uint8

const (
	// Show marks a line for inclusion in the filtered output.
	Show LineFlags = 1 << iota
	// LabelVisited marks a label line that was already queued once.
	LabelVisited
)

// LocIndex is a 0-based handle into the location table.
type LocIndex int32

// NoLocation means no location was assigned.
const NoLocation LocIndex = -1

// Valid reports whether the handle refers to a location.
func (i LocIndex) Valid() bool { return i >= 0 }

// FileIndex is a 0-based handle into the file table.
type FileIndex int32

// NoFile means no file is known.
const NoFile FileIndex = -1

// Valid reports whether the handle refers to a file.
func (i FileIndex) Valid() bool { return i >= 0 }

// Line is one classified physical line.
type Line struct {
	Text  Span // full line, without the terminator
	Name  Span // label, directive (without '.') or mnemonic; empty if none
	Kind  LineKind
	Flags LineFlags
	Loc   LocIndex
}

// Shown reports whether the line is part of the filtered output.
func (l *Line) Shown() bool { return l.Flags&Show != 0 }

// Location is a source position recovered from marker directives.
type Location struct {
	File FileIndex
	Line uint32
	Col  uint32
}

// View is the viewer-facing projection of a parsed listing.
// Line numbers and table indices here are 1-based.
type View struct {
	Name           string
	Lines          []string
	LocationMap    []LocationMapping
	LocationRanges []LineRange
	Locations      []ViewLocation
	Files          []ViewFile
	References     []Reference
}

// LocationMapping ties an output line to a location number.
type LocationMapping struct {
	Line     int
	Location int
}

// LineRange is an inclusive run of output lines sharing one location.
type LineRange struct {
	First int
	Last  int
}

// ViewLocation is a location row with a 1-based file number.
type ViewLocation struct {
	File int
	Line uint32
	Col  uint32
}

// ViewFile is a file referenced by at least one location.
type ViewFile struct {
	Index int
	Path  string
}

// Reference is an edge from a shown line to the label it names.
// Source and Target are output line numbers.
type Reference struct {
	Source int
	Label  string
	Target int
}
