// Package arena implements a bump allocator for strings that must outlive
// the buffer they were sliced from.
//
// Allocations are addressed by offset. Slices returned by Bytes are valid
// only until the next Alloc, since growth moves the backing buffer.
package arena

import (
	"errors"
	"math/bits"

	"fortio.org/safecast"

	"github.com/phobologic/asmsift/internal/model"
)

// ErrOverflow is returned when an allocation would not fit in 32 bits.
var ErrOverflow = errors.New("arena: size overflow")

// Arena is a single growable byte buffer. Capacity is always a power of two.
type Arena struct {
	data []byte
	top  uint32
}

// Alloc reserves n bytes and returns their offset.
func (a *Arena) Alloc(n uint32) (uint32, error) {
	base := a.top
	ntop, carry := bits.Add32(base, n, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}

	if uint64(ntop) > uint64(len(a.data)) {
		ncap := nextPow2(uint64(ntop))
		if ncap > 1<<32 {
			return 0, ErrOverflow
		}
		ndata := make([]byte, ncap)
		copy(ndata, a.data[:a.top])
		a.data = ndata
	}

	a.top = ntop
	return base, nil
}

// Append copies each part into a fresh allocation, back to back, and returns
// the resulting span.
func (a *Arena) Append(parts ...[]byte) (model.Span, error) {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	n, err := safecast.Conv[uint32](total)
	if err != nil {
		return model.Span{}, ErrOverflow
	}
	off, err := a.Alloc(n)
	if err != nil {
		return model.Span{}, err
	}
	dst := a.data[off:]
	for _, p := range parts {
		dst = dst[copy(dst, p):]
	}
	return model.Span{Off: off, Len: n}, nil
}

// Bytes returns the arena contents referenced by s.
func (a *Arena) Bytes(s model.Span) []byte {
	return s.Bytes(a.data)
}

// Len reports the number of allocated bytes.
func (a *Arena) Len() int { return int(a.top) }

// Cap reports the reserved buffer size.
func (a *Arena) Cap() int { return len(a.data) }

// Reset releases the buffer.
func (a *Arena) Reset() {
	a.data = nil
	a.top = 0
}

func nextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}
