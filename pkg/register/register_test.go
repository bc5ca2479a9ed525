package register

import "testing"

func TestZeroRegisterDiscardsWrites(t *testing.T) {
	r := NewZero()
	r.Write(0xDEADBEEF)
	if got := r.Read(); got != 0 {
		t.Fatalf("zero register read = 0x%x, want 0", got)
	}
}

func TestRegisterReadWrite(t *testing.T) {
	r := &Register{}
	r.Write(42)
	if got := r.Read(); got != 42 {
		t.Fatalf("read = %d, want 42", got)
	}
}

func TestFileX0AlwaysZero(t *testing.T) {
	f := NewFile()
	f.Write(0, 123)
	if got := f.Read(0); got != 0 {
		t.Fatalf("x0 = %d, want 0", got)
	}
}

func TestFileReadWrite(t *testing.T) {
	f := NewFile()
	f.Write(5, 0xCAFE)
	if got := f.Read(5); got != 0xCAFE {
		t.Fatalf("x5 = 0x%x, want 0xCAFE", got)
	}
}

func TestFileSnapshot(t *testing.T) {
	f := NewFile()
	f.Write(1, 10)
	f.Write(31, 20)
	snap := f.Snapshot()
	if snap[1] != 10 || snap[31] != 20 || snap[0] != 0 {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}

func TestResolveAlias(t *testing.T) {
	cases := []struct {
		name string
		want int
		ok   bool
	}{
		{"zero", 0, true},
		{"ra", 1, true},
		{"sp", 2, true},
		{"fp", 8, true},
		{"s0", 8, true},
		{"a0", 10, true},
		{"a7", 17, true},
		{"t6", 31, true},
		{"x14", 14, true},
		{"x31", 31, true},
		{"bogus", 0, false},
	}
	for _, c := range cases {
		got, ok := ResolveAlias(c.name)
		if ok != c.ok {
			t.Errorf("ResolveAlias(%q) ok = %v, want %v", c.name, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ResolveAlias(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestFileLen(t *testing.T) {
	if got := NewFile().Len(); got != NumRegisters {
		t.Fatalf("Len() = %d, want %d", got, NumRegisters)
	}
}
