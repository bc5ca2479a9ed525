package bus

import (
	"errors"
	"testing"

	"github.com/bassosimone/rv32core/pkg/memory"
)

func TestAttachOverlapRejected(t *testing.T) {
	b := New()
	if err := b.Attach("a", 0, 0x100, memory.New(0x100)); err != nil {
		t.Fatal(err)
	}
	err := b.Attach("b", 0x80, 0x100, memory.New(0x100))
	if !errors.Is(err, ErrRangeOverlap) {
		t.Fatalf("overlap attach err = %v, want ErrRangeOverlap", err)
	}
}

func TestReadWriteDispatch(t *testing.T) {
	b := New()
	m := memory.New(0x100)
	if err := b.Attach("mem", 0x1000, 0x100, m); err != nil {
		t.Fatal(err)
	}
	if err := b.Write(0x1004, 0xDEADBEEF, 4); err != nil {
		t.Fatal(err)
	}
	v, err := b.Read(0x1004, 4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xDEADBEEF {
		t.Fatalf("read = 0x%x, want 0xDEADBEEF", v)
	}
}

func TestAccessFaultOutsideAnyRange(t *testing.T) {
	b := New()
	if err := b.Attach("mem", 0, 0x10, memory.New(0x10)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Read(0x1000, 4); !errors.Is(err, ErrAccessFault) {
		t.Fatalf("err = %v, want ErrAccessFault", err)
	}
}

func TestMisalignedWidthRejected(t *testing.T) {
	b := New()
	if err := b.Attach("mem", 0, 0x10, memory.New(0x10)); err != nil {
		t.Fatal(err)
	}
	cases := []uint32{0, 3, 5, 8}
	for _, n := range cases {
		if _, err := b.Read(0, n); !errors.Is(err, ErrAddressMisaligned) {
			t.Errorf("width %d err = %v, want ErrAddressMisaligned", n, err)
		}
	}
}

func TestMisalignedAddressRejected(t *testing.T) {
	b := New()
	if err := b.Attach("mem", 0, 0x10, memory.New(0x10)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Read(2, 4); !errors.Is(err, ErrAddressMisaligned) {
		t.Fatalf("err = %v, want ErrAddressMisaligned", err)
	}
}

func TestValidationOrderMisalignedWinsOverFault(t *testing.T) {
	b := New()
	if err := b.Attach("mem", 0, 0x10, memory.New(0x10)); err != nil {
		t.Fatal(err)
	}
	// addr 0x1002 is both out of range and misaligned for width 4;
	// misalignment must be reported, not an access fault.
	if _, err := b.Read(0x1002, 4); !errors.Is(err, ErrAddressMisaligned) {
		t.Fatalf("err = %v, want ErrAddressMisaligned", err)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: 0x100, Size: 0x10}
	if !r.Contains(0x100, 4) {
		t.Fatal("expected range to contain its start")
	}
	if r.Contains(0x10C, 8) {
		t.Fatal("expected range not to contain an access crossing its end")
	}
}
