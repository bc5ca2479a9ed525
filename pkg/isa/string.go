package isa

var mnemonics = map[Op]string{
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu",
	OpXORI: "xori", OpORI: "ori", OpANDI: "andi",
	OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpJALR: "jalr", OpJAL: "jal",
	OpLUI: "lui", OpAUIPC: "auipc",
	OpNOP: "nop",
}

// String returns the lower-case RV32I mnemonic for op, or "invalid"
// for OpInvalid.
func (op Op) String() string {
	if s, ok := mnemonics[op]; ok {
		return s
	}
	return "invalid"
}
