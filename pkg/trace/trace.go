// Package trace provides structured per-step tracing of a hart,
// upgrading the teacher's cmd/vm and cmd/interp log.Printf("vm: %s")
// calls to leveled, structured fields via charmbracelet/log.
package trace

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/bassosimone/rv32core/pkg/hart"
	"github.com/bassosimone/rv32core/pkg/isa"
)

// Tracer logs one structured entry per hart.Step call.
type Tracer struct {
	logger *log.Logger
}

// New returns a Tracer writing to os.Stderr at the given level.
func New(level log.Level) *Tracer {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "rv32",
		Level:  level,
	})
	return &Tracer{logger: logger}
}

// Step logs the fetched/decoded instruction and the PC it ran at,
// mirroring the teacher's verbose-mode trace of state + disassembly
// on every iteration.
func (t *Tracer) Step(pc uint32, instr isa.Instruction) {
	t.logger.Debug("step",
		"pc", formatAddr(pc),
		"op", instr.Op.String(),
		"rd", instr.Frame.RD,
		"rs1", instr.Frame.RS1,
		"rs2", instr.Frame.RS2,
		"imm", instr.Frame.Imm,
	)
}

// Fault logs a terminal error from a hart.Step call.
func (t *Tracer) Fault(pc uint32, err error) {
	t.logger.Error("fault", "pc", formatAddr(pc), "err", err)
}

// Registers logs the full register file at debug level.
func (t *Tracer) Registers(h *hart.Hart) {
	snap := h.Regs.Snapshot()
	t.logger.Debug("registers", "x", snap)
}

func formatAddr(addr uint32) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 10)
	buf[0], buf[1] = '0', 'x'
	for i := 0; i < 8; i++ {
		buf[9-i] = hexDigits[(addr>>(4*i))&0xF]
	}
	return string(buf)
}
