package hart

import (
	"errors"
	"testing"
)

func encodeR(opcode, f3, f7, rd, rs1, rs2 uint32) uint32 {
	return opcode | rd<<7 | f3<<12 | rs1<<15 | rs2<<20 | f7<<25
}

func encodeI(opcode, f3, rd, rs1 uint32, imm int32) uint32 {
	return opcode | rd<<7 | f3<<12 | rs1<<15 | (uint32(imm)&0xFFF)<<20
}

func encodeS(opcode, f3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xFFF
	return opcode | (u&0x1F)<<7 | f3<<12 | rs1<<15 | rs2<<20 | (u>>5)<<25
}

func encodeB(opcode, f3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0x1FFF
	bit12 := (u >> 12) & 1
	bit11 := (u >> 11) & 1
	bits10_5 := (u >> 5) & 0x3F
	bits4_1 := (u >> 1) & 0xF
	return opcode | bit11<<7 | bits4_1<<8 | f3<<12 | rs1<<15 | rs2<<20 | bits10_5<<25 | bit12<<31
}

func encodeJ(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm) & 0x1FFFFF
	bit20 := (u >> 20) & 1
	bits10_1 := (u >> 1) & 0x3FF
	bit11 := (u >> 11) & 1
	bits19_12 := (u >> 12) & 0xFF
	return opcode | rd<<7 | bits19_12<<12 | bit11<<20 | bits10_1<<21 | bit20<<31
}

const (
	opLoad   = 0b0000011
	opStore  = 0b0100011
	opImm    = 0b0010011
	opReg    = 0b0110011
	opBranch = 0b1100011
	opJALR   = 0b1100111
	opJAL    = 0b1101111
)

func newTestHart(t *testing.T) *Hart {
	t.Helper()
	h, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func loadProgram(t *testing.T, h *Hart, words []uint32) {
	t.Helper()
	for i, w := range words {
		if err := h.Bus.Write(uint32(i*4), w, 4); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAddiChainAccumulatesIntoRegister(t *testing.T) {
	h := newTestHart(t)
	// addi x1, x0, 5; addi x1, x1, 10; addi x1, x1, -3
	loadProgram(t, h, []uint32{
		encodeI(opImm, 0, 1, 0, 5),
		encodeI(opImm, 0, 1, 1, 10),
		encodeI(opImm, 0, 1, 1, -3),
	})
	for i := 0; i < 3; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := h.Regs.Read(1); got != 12 {
		t.Fatalf("x1 = %d, want 12", got)
	}
}

func TestStoreThenLoadRoundTrip(t *testing.T) {
	h := newTestHart(t)
	// x1 = 0x200000 (data memory base); a single addi cannot encode it in
	// its 12-bit immediate, so seed x1 directly for the test
	h.Regs.Write(1, DataMemoryBase)
	loadProgram(t, h, []uint32{
		encodeI(opImm, 0, 2, 0, 99),           // addi x2, x0, 99
		encodeS(opStore, 0b010, 1, 2, 0),      // sw x2, 0(x1)
		encodeI(opLoad, 0b010, 3, 1, 0),       // lw x3, 0(x1)
	})
	for i := 0; i < 3; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := h.Regs.Read(3); got != 99 {
		t.Fatalf("x3 = %d, want 99", got)
	}
}

func TestBranchTakenSkipsInstruction(t *testing.T) {
	h := newTestHart(t)
	loadProgram(t, h, []uint32{
		encodeI(opImm, 0, 1, 0, 1),          // 0: addi x1, x0, 1
		encodeB(opBranch, 0b000, 1, 1, 8),   // 4: beq x1, x1, +8 (taken, skip to 12)
		encodeI(opImm, 0, 2, 0, 111),        // 8: addi x2, x0, 111 (skipped)
		encodeI(opImm, 0, 3, 0, 222),        // 12: addi x3, x0, 222
	})
	for i := 0; i < 3; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := h.Regs.Read(2); got != 0 {
		t.Fatalf("x2 = %d, want 0 (branch target skipped this instruction)", got)
	}
	if got := h.Regs.Read(3); got != 222 {
		t.Fatalf("x3 = %d, want 222", got)
	}
}

func TestJalAndJalrRoundTrip(t *testing.T) {
	h := newTestHart(t)
	loadProgram(t, h, []uint32{
		encodeJ(opJAL, 1, 8),                    // 0: jal x1, +8 -> pc=8, x1=4
		encodeI(opImm, 0, 2, 0, 0),               // 4: (skipped)
		encodeI(opJALR, 0, 3, 1, 4),              // 8: jalr x3, 4(x1) -> target=x1+4=8, x3=12
	})
	if err := h.Step(); err != nil { // jal
		t.Fatal(err)
	}
	if h.PC.Read() != 8 || h.Regs.Read(1) != 4 {
		t.Fatalf("after jal: pc=%d x1=%d", h.PC.Read(), h.Regs.Read(1))
	}
	if err := h.Step(); err != nil { // jalr at pc=8
		t.Fatal(err)
	}
	if h.Regs.Read(3) != 12 {
		t.Fatalf("x3 = %d, want 12", h.Regs.Read(3))
	}
}

func TestSimControlHaltStopsRun(t *testing.T) {
	h := newTestHart(t)
	loadProgram(t, h, []uint32{
		encodeI(opImm, 0, 1, 0, 1), // addi x1, x0, 1
	})
	// A real program reaches the sim-control base via lui/addi and a sw;
	// drive the bus directly here to isolate the halt behavior.
	if err := h.Bus.Write(DefaultSimControlBase, 1, 4); err != nil {
		t.Fatal(err)
	}
	if !h.SimControl.Halted {
		t.Fatal("sim-control did not observe the halt write")
	}
	err := h.Step()
	if !errors.Is(err, ErrHalted) {
		t.Fatalf("Step() err = %v, want ErrHalted", err)
	}
}

func TestMisalignedAccessFaultsWithoutMutation(t *testing.T) {
	h := newTestHart(t)
	h.Regs.Write(1, DataMemoryBase+1) // misaligned by construction
	loadProgram(t, h, []uint32{
		encodeI(opLoad, 0b010, 2, 1, 0), // lw x2, 0(x1)
	})
	h.Regs.Write(2, 0xFFFFFFFF)
	err := h.Step()
	if err == nil {
		t.Fatal("expected a misalignment fault")
	}
	if got := h.Regs.Read(2); got != 0xFFFFFFFF {
		t.Fatalf("x2 mutated on faulting load: 0x%x", got)
	}
	if got := h.PC.Read(); got != 0 {
		t.Fatalf("pc advanced on faulting step: %d", got)
	}
}

func TestRunStopsOnFault(t *testing.T) {
	h := newTestHart(t)
	loadProgram(t, h, []uint32{0xFFFFFFFF}) // invalid instruction
	err := h.Run()
	if err == nil {
		t.Fatal("expected Run to return a decode error")
	}
	if errors.Is(err, ErrHalted) {
		t.Fatal("Run reported halt for a decode fault")
	}
}
