// Command rv32dis disassembles a RISC-V RV32I executable's instruction
// segment into a readable table: address, raw hex word, mnemonic, and
// decoded operands, one row per instruction. Purely a debug/assembly
// layer tool — it never executes anything.
package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bassosimone/rv32core/pkg/isa"
	"github.com/bassosimone/rv32core/pkg/loader"
)

func main() {
	cmd := &cobra.Command{
		Use:   "rv32dis <executable>",
		Short: "Disassemble a RISC-V RV32I executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disassemble(args[0])
		},
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func disassemble(path string) error {
	segments, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Address", "Hex", "Mnemonic", "Operands"})
	table.SetAutoFormatHeaders(false)

	var addr uint32
	for _, seg := range segments {
		if !seg.Executable {
			continue
		}
		for off := 0; off+4 <= len(seg.Data); off += 4 {
			word := uint32(seg.Data[off]) |
				uint32(seg.Data[off+1])<<8 |
				uint32(seg.Data[off+2])<<16 |
				uint32(seg.Data[off+3])<<24
			instr, derr := isa.Decode(word)
			mnemonic := "?"
			operands := ""
			if derr == nil {
				mnemonic = instr.Op.String()
				operands = formatOperands(instr)
			}
			table.Append([]string{
				fmt.Sprintf("0x%08x", addr+uint32(off)),
				fmt.Sprintf("0x%08x", word),
				mnemonic,
				operands,
			})
		}
		addr += uint32(len(seg.Data))
	}
	table.Render()
	return nil
}

func formatOperands(instr isa.Instruction) string {
	f := instr.Frame
	switch instr.Op {
	case isa.OpLUI, isa.OpAUIPC:
		return fmt.Sprintf("x%d, 0x%x", f.RD, uint32(f.Imm)>>12)
	case isa.OpJAL:
		return fmt.Sprintf("x%d, %d", f.RD, f.Imm)
	case isa.OpBEQ, isa.OpBNE, isa.OpBLT, isa.OpBGE, isa.OpBLTU, isa.OpBGEU:
		return fmt.Sprintf("x%d, x%d, %d", f.RS1, f.RS2, f.Imm)
	case isa.OpSB, isa.OpSH, isa.OpSW:
		return fmt.Sprintf("x%d, %d(x%d)", f.RS2, f.Imm, f.RS1)
	case isa.OpLB, isa.OpLH, isa.OpLW, isa.OpLBU, isa.OpLHU, isa.OpJALR,
		isa.OpADDI, isa.OpSLTI, isa.OpSLTIU, isa.OpXORI, isa.OpORI, isa.OpANDI,
		isa.OpSLLI, isa.OpSRLI, isa.OpSRAI:
		return fmt.Sprintf("x%d, x%d, %d", f.RD, f.RS1, f.Imm)
	case isa.OpADD, isa.OpSUB, isa.OpSLL, isa.OpSLT, isa.OpSLTU,
		isa.OpXOR, isa.OpSRL, isa.OpSRA, isa.OpOR, isa.OpAND:
		return fmt.Sprintf("x%d, x%d, x%d", f.RD, f.RS1, f.RS2)
	default:
		return ""
	}
}
