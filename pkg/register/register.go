// Package register implements the RV32I general-purpose register file.
//
// A register is a 32-bit unsigned cell. Index 0 is hard-wired to zero:
// writes to it are silently discarded and reads always return 0. The
// remaining 31 cells are freely mutable, masked to 32 bits on every write.
package register

// Register is a 32-bit integer cell. The zero value is a mutable
// register holding 0; use NewZero to obtain the immutable x0 cell.
type Register struct {
	value  uint32
	zeroed bool
}

// NewZero returns an immutable register that always reads 0 and
// discards writes. It models the RV32I x0 register.
func NewZero() *Register {
	return &Register{zeroed: true}
}

// Read returns the stored unsigned value, always in [0, 2^32).
func (r *Register) Read() uint32 {
	return r.value
}

// Write stores the low 32 bits of value. A no-op on the zero register.
func (r *Register) Write(value uint32) {
	if r.zeroed {
		return
	}
	r.value = value
}

const (
	// NumRegisters is the number of general-purpose registers.
	NumRegisters = 32
)

// aliases maps RISC-V ABI mnemonics and the generic x0..x31 names to
// register indices.
var aliases = map[string]int{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25,
	"s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

func init() {
	for i := 0; i < NumRegisters; i++ {
		aliases[xName(i)] = i
	}
}

func xName(i int) string {
	const hex = "0123456789"
	if i < 10 {
		return "x" + string(hex[i])
	}
	return "x" + string(hex[i/10]) + string(hex[i%10])
}

// ResolveAlias returns the register index bound to a symbolic name
// (an ABI alias such as "sp" or a generic name such as "x14"), and
// whether the name is bound at all. Belongs to the debug/assembly
// layer; the execution path never calls this.
func ResolveAlias(name string) (int, bool) {
	idx, ok := aliases[name]
	return idx, ok
}

// File is the ordered, fixed-size collection of 32 registers that
// make up a hart's integer register file. Index 0 is the zero register.
type File struct {
	regs [NumRegisters]*Register
}

// NewFile builds a register file with all 32 cells, index 0 wired to zero.
func NewFile() *File {
	f := &File{}
	f.regs[0] = NewZero()
	for i := 1; i < NumRegisters; i++ {
		f.regs[i] = &Register{}
	}
	return f
}

// Get returns the register at idx (0..31). Only the low 5 bits of idx
// are used, so an out-of-range index wraps rather than panicking; the
// decoder only ever produces indices from a 5-bit instruction field.
func (f *File) Get(idx uint32) *Register {
	return f.regs[idx&0x1F]
}

// Read is a convenience wrapper returning the unsigned value at idx.
func (f *File) Read(idx uint32) uint32 {
	return f.Get(idx).Read()
}

// Write is a convenience wrapper storing value at idx; a no-op at idx 0.
func (f *File) Write(idx uint32, value uint32) {
	f.Get(idx).Write(value)
}

// Len returns the number of registers in the file (always 32).
func (f *File) Len() int {
	return len(f.regs)
}

// Snapshot copies the current value of every register into a plain
// array, for tracing and test assertions.
func (f *File) Snapshot() [NumRegisters]uint32 {
	var out [NumRegisters]uint32
	for i, r := range f.regs {
		out[i] = r.Read()
	}
	return out
}
