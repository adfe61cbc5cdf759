// Package memory implements the fixed-size temporal memory image (spec
// section 3.2, section 3.3): a 2^16-cell array of value.Value with an
// incremental state hash and a total value-only order.
package memory

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/averagestudentdontfail/Ourochronos/value"
)

// Size is the number of addressable cells: exactly 2^16 (spec section 3.2).
const Size = 1 << 16

// Address is a 16-bit index into a Memory.
type Address = uint16

// Narrow truncates a 64-bit stack value to an Address modulo 2^16 (spec
// section 3.2: "Addresses on the stack are 64-bit values narrowed modulo 2^16
// at memory-op time").
func Narrow(v uint64) Address {
	return Address(v & 0xFFFF)
}

// mixKey is a fixed key for the keyed BLAKE2b mix function used for
// incremental hashing (spec section 3.3, section 9). Any well-distributed keyed
// mix satisfies the spec; this one is arbitrary but fixed so runs are
// reproducible.
var mixKey = [32]byte{
	0x4f, 0x55, 0x52, 0x4f, 0x43, 0x48, 0x52, 0x4f,
	0x4e, 0x4f, 0x53, 0x2d, 0x6d, 0x69, 0x78, 0x2d,
	0x6b, 0x65, 0x79, 0x2d, 0x76, 0x31, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// mix is the per-cell contribution function m(a, v) of spec section 3.3. It
// satisfies m(a, 0) = 0 by construction, and is a deterministic, well-mixed
// function of (a, v) for v != 0.
func mix(a Address, v uint64) uint64 {
	if v == 0 {
		return 0
	}
	var buf [10]byte
	binary.LittleEndian.PutUint16(buf[0:2], a)
	binary.LittleEndian.PutUint64(buf[2:10], v)
	h, err := blake2b.New(8, mixKey[:])
	if err != nil {
		// blake2b.New only fails for an out-of-range size or key, both
		// of which are fixed constants above; a failure here is a
		// programming error, not a runtime condition.
		panic(errors.Wrap(err, "memory: mix hash init failed"))
	}
	h.Write(buf[:])
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// Memory is a fixed-size array of Values, indexed by Address, with an
// incrementally maintained state hash. The zero value is ready to use: an
// all-zero memory hashes to zero (spec section 3.3).
type Memory struct {
	cells [Size]value.Value
	hash  uint64
}

// New returns a fresh, all-zero Memory.
func New() *Memory {
	return &Memory{}
}

// Get reads the Value at addr.
func (m *Memory) Get(addr Address) value.Value {
	return m.cells[addr]
}

// Set writes v to addr, updating the incremental hash by toggling out the
// old cell's contribution and toggling in the new one (spec section 3.3).
func (m *Memory) Set(addr Address, v value.Value) {
	old := m.cells[addr]
	m.hash ^= mix(addr, old.Val)
	m.hash ^= mix(addr, v.Val)
	m.cells[addr] = v
}

// Hash returns the current incremental state hash.
func (m *Memory) Hash() uint64 {
	return m.hash
}

// Clone returns a deep copy, used by the driver's diagnostic trajectory
// buffer (spec section 4.2 step 2) to snapshot a memory before it is mutated
// by the next epoch.
func (m *Memory) Clone() *Memory {
	c := &Memory{hash: m.hash}
	c.cells = m.cells
	return c
}

// ValueEqual reports whether m and other agree cell-by-cell on Val,
// ignoring provenance — the "value equality" flavor spec section 3.3 defines
// for the fixed-point check.
func (m *Memory) ValueEqual(other *Memory) bool {
	if m.hash != other.hash {
		// a hash mismatch can only happen if some cell's Val differs,
		// since the hash is a pure function of the Val-only contents.
		return false
	}
	for i := range m.cells {
		if m.cells[i].Val != other.cells[i].Val {
			return false
		}
	}
	return true
}

// StructEqual reports whether m and other agree cell-by-cell including
// provenance — the "structural equality" flavor of spec section 3.3, used
// rarely (mostly in tests asserting provenance propagation end to end).
func (m *Memory) StructEqual(other *Memory) bool {
	for i := range m.cells {
		a, b := m.cells[i], other.cells[i]
		if a.Val != b.Val || a.Prov.Len() != b.Prov.Len() {
			return false
		}
		for _, addr := range a.Prov.Addresses() {
			if !b.Prov.Contains(addr) {
				return false
			}
		}
	}
	return true
}

// Compare implements the lexicographic total order of spec section 3.3:
// cell values from address 0 upward, ignoring provenance. It returns a
// negative number if m sorts before other, zero if equal, positive
// otherwise.
func Compare(m, other *Memory) int {
	for i := range m.cells {
		a, b := m.cells[i].Val, other.cells[i].Val
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// NonZero returns the addresses of every nonzero cell, in ascending order.
// Used by the driver's oscillation diagnosis to avoid scanning
// the full 2^16-cell space when only a handful of cells are live.
func (m *Memory) NonZero() []Address {
	var out []Address
	for i, c := range m.cells {
		if c.Val != 0 {
			out = append(out, Address(i))
		}
	}
	return out
}
