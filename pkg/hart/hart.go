// Package hart assembles a register.File, the instruction and data
// memories, the system bus, and the sim-control (and optional console)
// peripherals into a single-hart RV32I machine, and drives it one
// instruction at a time via Step.
package hart

import (
	"errors"
	"fmt"

	"github.com/bassosimone/rv32core/pkg/bus"
	"github.com/bassosimone/rv32core/pkg/isa"
	"github.com/bassosimone/rv32core/pkg/memory"
	"github.com/bassosimone/rv32core/pkg/peripheral"
	"github.com/bassosimone/rv32core/pkg/register"
)

// Debug flags, independent of any CLI verbosity flag — a harness can
// set these on Hart.DebugFlags without recompiling. Mirrors the
// teacher's StatusDebugTracing/StatusDebugStepping bits.
const (
	DebugTracing = 1 << iota
	DebugStepping
)

// Default memory map, per spec.md §6.
const (
	InstructionMemoryBase = 0x00000000
	InstructionMemorySize = 2 * 1024 * 1024
	DataMemoryBase        = 0x00200000
	DataMemorySize        = 6 * 1024 * 1024
	// DefaultSimControlBase lies just past the 8 MiB instruction+data
	// range. The sim-control base is a configuration choice, never a
	// hard-coded constant used elsewhere in the core (§9).
	DefaultSimControlBase = 0x00800000
	simControlSize        = 0x10
)

// ErrHalted is returned by Step once sim-control has observed a halt
// request. It is not a fault: the driver is expected to stop cleanly.
var ErrHalted = errors.New("hart: halted")

// Config parameterizes the memory map of a Hart. The zero value is
// invalid; use DefaultConfig.
type Config struct {
	InstructionMemoryBase, InstructionMemorySize uint32
	DataMemoryBase, DataMemorySize               uint32
	SimControlBase                               uint32
}

// DefaultConfig returns the memory map described in spec.md §6.
func DefaultConfig() Config {
	return Config{
		InstructionMemoryBase: InstructionMemoryBase,
		InstructionMemorySize: InstructionMemorySize,
		DataMemoryBase:        DataMemoryBase,
		DataMemorySize:        DataMemorySize,
		SimControlBase:        DefaultSimControlBase,
	}
}

// Hart is a single RV32I hardware thread: PC, 32 integer registers,
// the system bus, and its attached memories/peripherals.
type Hart struct {
	PC         *register.Register
	Regs       *register.File
	Bus        *bus.Bus
	InstrMem   *memory.Memory
	DataMem    *memory.Memory
	SimControl *peripheral.SimControl
	Console    *Console // optional; nil unless AttachConsole is called

	DebugFlags int
}

// New builds a hart with the given memory map, its bus wired exactly
// as spec.md §6 describes: instruction memory, data memory, and
// sim-control, each at a disjoint range.
func New(cfg Config) (*Hart, error) {
	h := &Hart{
		PC:         &register.Register{},
		Regs:       register.NewFile(),
		Bus:        bus.New(),
		InstrMem:   memory.New(cfg.InstructionMemorySize),
		DataMem:    memory.New(cfg.DataMemorySize),
		SimControl: peripheral.NewSimControl(),
	}
	if err := h.Bus.Attach("instruction memory", cfg.InstructionMemoryBase, cfg.InstructionMemorySize, h.InstrMem); err != nil {
		return nil, err
	}
	if err := h.Bus.Attach("data memory", cfg.DataMemoryBase, cfg.DataMemorySize, h.DataMem); err != nil {
		return nil, err
	}
	if err := h.Bus.Attach("sim-control", cfg.SimControlBase, simControlSize, h.SimControl); err != nil {
		return nil, err
	}
	return h, nil
}

// AttachConsole wires a serial console peripheral onto the bus right
// after sim-control, mirroring the teacher's optional VM.TTY field.
func (h *Hart) AttachConsole(base uint32, c *Console) error {
	if err := h.Bus.Attach("console", base, consoleSize, c); err != nil {
		return err
	}
	h.Console = c
	return nil
}

// Step fetches the instruction word at PC, decodes it, and applies its
// effect to the hart. PC advances by 4 unless the instruction wrote PC
// directly (branches taken, jumps). Returns ErrHalted once sim-control
// observes a halt request, or any fault/decode error encountered along
// the way — both are fatal to the instruction and surface to the driver.
func (h *Hart) Step() error {
	pc := h.PC.Read()
	word, err := h.Bus.Read(pc, 4)
	if err != nil {
		return fmt.Errorf("fetch at pc=0x%08x: %w", pc, err)
	}
	instr, err := isa.Decode(word)
	if err != nil {
		return fmt.Errorf("decode at pc=0x%08x: %w", pc, err)
	}
	nextPC, err := h.execute(pc, instr)
	if err != nil {
		return fmt.Errorf("execute %s at pc=0x%08x: %w", instr.Op, pc, err)
	}
	h.PC.Write(nextPC)
	if h.SimControl.Halted {
		return ErrHalted
	}
	return nil
}

// Run steps the hart until it halts or a fault occurs. It returns nil
// only when sim-control signals halt; any other error is a fault.
func (h *Hart) Run() error {
	for {
		if err := h.Step(); err != nil {
			if errors.Is(err, ErrHalted) {
				return nil
			}
			return err
		}
	}
}
