// Package peripheral implements the sparse, word-aligned memory-mapped
// register map shared by every device the system bus can dispatch to —
// sim-control, the console, and (by extension) any future MMIO device.
package peripheral

import (
	"errors"
	"fmt"
)

// ErrUnallocatedAddress indicates an access to a register that was
// never allocated.
var ErrUnallocatedAddress = errors.New("peripheral: unallocated address")

// Predicate decides whether a trigger fires, given the new and old
// value of the register it watches.
type Predicate func(newValue, oldValue uint32) bool

// Callback is invoked when a trigger's predicate returns true.
type Callback func(newValue, oldValue uint32)

type trigger struct {
	addr      uint32
	predicate Predicate
	callback  Callback
}

// Peripheral is a sparse set of 32-bit registers keyed by word-aligned
// byte address, each optionally watched by triggers that fire on write.
type Peripheral struct {
	regs     map[uint32]uint32
	triggers []trigger
}

// New returns an empty peripheral with no allocated registers.
func New() *Peripheral {
	return &Peripheral{regs: make(map[uint32]uint32)}
}

func wordAlign(addr uint32) uint32 {
	return addr &^ 3
}

// Alloc reserves a register at addr&^3 with initial value 0.
// Re-allocating an existing address is a no-op.
func (p *Peripheral) Alloc(addr uint32) {
	a := wordAlign(addr)
	if _, ok := p.regs[a]; !ok {
		p.regs[a] = 0
	}
}

// Set stores the full 32-bit value at addr, allocating it first if
// necessary. This is a seed operation: it never fires triggers.
func (p *Peripheral) Set(addr uint32, value uint32) {
	p.regs[wordAlign(addr)] = value
}

// Get returns the full 32-bit value at addr, or 0 if addr was never
// allocated. It does not allocate.
func (p *Peripheral) Get(addr uint32) uint32 {
	return p.regs[wordAlign(addr)]
}

// Read returns the n-byte lane of the word at addr&^3. n is 1, 2, or 4.
// Reading an unallocated address fails with ErrUnallocatedAddress.
func (p *Peripheral) Read(addr uint32, n uint32) (uint32, error) {
	a := wordAlign(addr)
	word, ok := p.regs[a]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%08x", ErrUnallocatedAddress, addr)
	}
	shift := laneShift(addr, n)
	mask := laneMask(n)
	return (word >> shift) & mask, nil
}

// Write updates the lane of the word at addr selected by addr's low
// bits with the low n bytes of data, preserving bits outside the lane.
// Fails ErrUnallocatedAddress if the word was never allocated. After
// the stored value changes, every trigger at addr whose predicate
// matches fires, in insertion order.
func (p *Peripheral) Write(addr uint32, data uint32, n uint32) error {
	a := wordAlign(addr)
	old, ok := p.regs[a]
	if !ok {
		return fmt.Errorf("%w: 0x%08x", ErrUnallocatedAddress, addr)
	}
	shift := laneShift(addr, n)
	mask := laneMask(n)
	next := (old &^ (mask << shift)) | ((data & mask) << shift)
	p.regs[a] = next
	if next != old {
		p.fire(addr, next, old)
	}
	return nil
}

func (p *Peripheral) fire(addr, newValue, oldValue uint32) {
	for _, t := range p.triggers {
		if t.addr != addr {
			continue
		}
		if t.predicate(newValue, oldValue) {
			t.callback(newValue, oldValue)
		}
	}
}

// AddTrigger appends a trigger watching writes to addr. Multiple
// triggers per address are allowed and fire in insertion order.
func (p *Peripheral) AddTrigger(addr uint32, predicate Predicate, callback Callback) {
	p.triggers = append(p.triggers, trigger{addr: addr, predicate: predicate, callback: callback})
}

func laneShift(addr, n uint32) uint32 {
	switch n {
	case 1:
		return (addr & 3) << 3
	case 2:
		return (addr & 2) << 3
	default:
		return 0
	}
}

func laneMask(n uint32) uint32 {
	switch n {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}
