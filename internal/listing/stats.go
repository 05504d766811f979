package listing

import (
	"time"
	"unsafe"

	"github.com/phobologic/asmsift/internal/model"
)

// Stats describes the size of a parsed listing and the memory behind it.
type Stats struct {
	InputBytes int

	Lines         int
	LineBytes     int
	LineReserved  int
	Kinds         [model.LineKindCount]int
	Labels        int
	LabelBytes    int
	QueueCap      int
	QueueBytes    int
	Files         int
	FileBytes     int
	FileReserved  int
	Locations     int
	LocationBytes int
	LocationRes   int
	ArenaBytes    int
	ArenaReserved int

	LabelLookups uint64
	LabelHits    uint64
	Dequeues     int
	Pass         [3]time.Duration
}

// Used is the memory occupied by live entries.
func (s Stats) Used() int {
	return s.LineBytes + s.LabelBytes + s.QueueBytes + s.FileBytes + s.LocationBytes + s.ArenaBytes
}

// Reserved is the memory allocated, including spare capacity.
func (s Stats) Reserved() int {
	return s.LineReserved + s.LabelBytes + s.QueueBytes + s.FileReserved + s.LocationRes + s.ArenaReserved
}

// Percent returns n as a percentage of total, or 0 when total is 0.
func Percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Stats collects statistics. It is meaningful after Parse.
func (c *Context) Stats() Stats {
	const (
		lineSize  = int(unsafe.Sizeof(model.Line{}))
		locSize   = int(unsafe.Sizeof(model.Location{}))
		fileSize  = int(unsafe.Sizeof(uint32(0)) + unsafe.Sizeof(model.Span{}))
		labelSize = int(unsafe.Sizeof("") + unsafe.Sizeof(uint32(0)))
	)

	s := Stats{
		InputBytes:    len(c.input),
		Lines:         len(c.lines),
		LineBytes:     len(c.lines) * lineSize,
		LineReserved:  cap(c.lines) * lineSize,
		Labels:        c.labels.len(),
		Files:         c.files.len(),
		FileBytes:     c.files.len() * fileSize,
		FileReserved:  cap(c.files.ids) * fileSize,
		Locations:     len(c.locs.data),
		LocationBytes: len(c.locs.data) * locSize,
		LocationRes:   cap(c.locs.data) * locSize,
		ArenaBytes:    c.arena.Len(),
		ArenaReserved: c.arena.Cap(),
		LabelLookups:  c.labels.lookups,
		LabelHits:     c.labels.hits,
		Dequeues:      c.dequeues,
		Pass:          c.pass,
	}
	for name := range c.labels.m {
		s.LabelBytes += labelSize + len(name)
	}
	if c.queue != nil {
		s.QueueCap = c.queue.Cap()
		s.QueueBytes = c.queue.Cap() * int(unsafe.Sizeof(uint32(0)))
	}
	for i := range c.lines {
		s.Kinds[c.lines[i].Kind]++
	}
	return s
}
