package hart

import (
	"fmt"

	"github.com/bassosimone/rv32core/pkg/isa"
)

// execute applies instr's architectural effect to the hart, given the
// PC the instruction was fetched at. It returns the PC to commit next:
// pc+4 for everything except taken branches and jumps, which compute
// their own target. Writes to register index 0 are silently discarded
// by register.Register itself.
func (h *Hart) execute(pc uint32, instr isa.Instruction) (uint32, error) {
	f := instr.Frame
	regs := h.Regs

	switch instr.Op {
	case isa.OpNOP:
		return pc + 4, nil

	// register-immediate ALU ops
	case isa.OpADDI:
		regs.Write(f.RD, regs.Read(f.RS1)+uint32(f.Imm))
		return pc + 4, nil
	case isa.OpSLTI:
		regs.Write(f.RD, boolToWord(int32(regs.Read(f.RS1)) < f.Imm))
		return pc + 4, nil
	case isa.OpSLTIU:
		regs.Write(f.RD, boolToWord(regs.Read(f.RS1) < uint32(f.Imm)))
		return pc + 4, nil
	case isa.OpXORI:
		regs.Write(f.RD, regs.Read(f.RS1)^uint32(f.Imm))
		return pc + 4, nil
	case isa.OpORI:
		regs.Write(f.RD, regs.Read(f.RS1)|uint32(f.Imm))
		return pc + 4, nil
	case isa.OpANDI:
		regs.Write(f.RD, regs.Read(f.RS1)&uint32(f.Imm))
		return pc + 4, nil
	case isa.OpSLLI:
		regs.Write(f.RD, regs.Read(f.RS1)<<(uint32(f.Imm)&0x1F))
		return pc + 4, nil
	case isa.OpSRLI:
		regs.Write(f.RD, regs.Read(f.RS1)>>(uint32(f.Imm)&0x1F))
		return pc + 4, nil
	case isa.OpSRAI:
		regs.Write(f.RD, uint32(int32(regs.Read(f.RS1))>>(uint32(f.Imm)&0x1F)))
		return pc + 4, nil

	// register-register ALU ops
	case isa.OpADD:
		regs.Write(f.RD, regs.Read(f.RS1)+regs.Read(f.RS2))
		return pc + 4, nil
	case isa.OpSUB:
		regs.Write(f.RD, regs.Read(f.RS1)-regs.Read(f.RS2))
		return pc + 4, nil
	case isa.OpSLL:
		regs.Write(f.RD, regs.Read(f.RS1)<<(regs.Read(f.RS2)&0x1F))
		return pc + 4, nil
	case isa.OpSLT:
		regs.Write(f.RD, boolToWord(int32(regs.Read(f.RS1)) < int32(regs.Read(f.RS2))))
		return pc + 4, nil
	case isa.OpSLTU:
		regs.Write(f.RD, boolToWord(regs.Read(f.RS1) < regs.Read(f.RS2)))
		return pc + 4, nil
	case isa.OpXOR:
		regs.Write(f.RD, regs.Read(f.RS1)^regs.Read(f.RS2))
		return pc + 4, nil
	case isa.OpSRL:
		regs.Write(f.RD, regs.Read(f.RS1)>>(regs.Read(f.RS2)&0x1F))
		return pc + 4, nil
	case isa.OpSRA:
		regs.Write(f.RD, uint32(int32(regs.Read(f.RS1))>>(regs.Read(f.RS2)&0x1F)))
		return pc + 4, nil
	case isa.OpOR:
		regs.Write(f.RD, regs.Read(f.RS1)|regs.Read(f.RS2))
		return pc + 4, nil
	case isa.OpAND:
		regs.Write(f.RD, regs.Read(f.RS1)&regs.Read(f.RS2))
		return pc + 4, nil

	// loads
	case isa.OpLB, isa.OpLH, isa.OpLW, isa.OpLBU, isa.OpLHU:
		return pc + 4, h.execLoad(instr.Op, f)

	// stores
	case isa.OpSB, isa.OpSH, isa.OpSW:
		return pc + 4, h.execStore(instr.Op, f)

	// branches
	case isa.OpBEQ, isa.OpBNE, isa.OpBLT, isa.OpBGE, isa.OpBLTU, isa.OpBGEU:
		if h.branchTaken(instr.Op, f) {
			return uint32(int64(pc) + int64(f.Imm)), nil
		}
		return pc + 4, nil

	// jumps
	case isa.OpJAL:
		regs.Write(f.RD, pc+4)
		return uint32(int64(pc) + int64(f.Imm)), nil
	case isa.OpJALR:
		target := (regs.Read(f.RS1) + uint32(f.Imm)) &^ 1
		regs.Write(f.RD, pc+4)
		return target, nil

	case isa.OpLUI:
		regs.Write(f.RD, uint32(f.Imm))
		return pc + 4, nil
	case isa.OpAUIPC:
		regs.Write(f.RD, pc+uint32(f.Imm))
		return pc + 4, nil

	default:
		return 0, fmt.Errorf("%w: unexecutable op %s", isa.ErrInvalidInstruction, instr.Op)
	}
}

func (h *Hart) execLoad(op isa.Op, f isa.Frame) error {
	addr := h.Regs.Read(f.RS1) + uint32(f.Imm)
	switch op {
	case isa.OpLB:
		v, err := h.Bus.Read(addr, 1)
		if err != nil {
			return err
		}
		h.Regs.Write(f.RD, uint32(int32(int8(v))))
	case isa.OpLH:
		v, err := h.Bus.Read(addr, 2)
		if err != nil {
			return err
		}
		h.Regs.Write(f.RD, uint32(int32(int16(v))))
	case isa.OpLW:
		v, err := h.Bus.Read(addr, 4)
		if err != nil {
			return err
		}
		h.Regs.Write(f.RD, v)
	case isa.OpLBU:
		v, err := h.Bus.Read(addr, 1)
		if err != nil {
			return err
		}
		h.Regs.Write(f.RD, v)
	case isa.OpLHU:
		v, err := h.Bus.Read(addr, 2)
		if err != nil {
			return err
		}
		h.Regs.Write(f.RD, v)
	}
	return nil
}

func (h *Hart) execStore(op isa.Op, f isa.Frame) error {
	addr := h.Regs.Read(f.RS1) + uint32(f.Imm)
	data := h.Regs.Read(f.RS2)
	switch op {
	case isa.OpSB:
		return h.Bus.Write(addr, data, 1)
	case isa.OpSH:
		return h.Bus.Write(addr, data, 2)
	case isa.OpSW:
		return h.Bus.Write(addr, data, 4)
	}
	return nil
}

func (h *Hart) branchTaken(op isa.Op, f isa.Frame) bool {
	a, b := h.Regs.Read(f.RS1), h.Regs.Read(f.RS2)
	switch op {
	case isa.OpBEQ:
		return a == b
	case isa.OpBNE:
		return a != b
	case isa.OpBLT:
		return int32(a) < int32(b)
	case isa.OpBGE:
		return int32(a) >= int32(b)
	case isa.OpBLTU:
		return a < b
	case isa.OpBGEU:
		return a >= b
	}
	return false
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
