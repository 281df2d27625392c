package memory

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ID identifies a value in a [Memory]. IDs are hashes, so the same source
// string always yields the same ID across frames and across runs.
type ID uint64

// NewID hashes source into an ID.
func NewID(source string) ID {
	return ID(xxhash.Sum64String(source))
}

// With derives a child ID. The child depends on both the parent and the
// child name, so "canvas-a".With("zoom-scale") and "canvas-b".With("zoom-scale")
// never collide in practice.
func (id ID) With(child string) ID {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))

	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(child)
	return ID(d.Sum64())
}

// String returns the ID as 16 hex digits.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}
