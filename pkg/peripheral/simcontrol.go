package peripheral

// HaltRegister is the byte offset, within the sim-control peripheral's
// address range, of the register a guest writes to request a halt.
const HaltRegister = 0x0

// haltValue is the value that, when written to HaltRegister, requests
// a halt. Any other value written there is ignored.
const haltValue = 1

// SimControl is the vehicle by which a guest program halts the
// simulator: it is a plain Peripheral pre-wired with a halt register
// and a trigger that flips an externally observable flag.
type SimControl struct {
	*Peripheral
	Halted bool
}

// NewSimControl builds a sim-control peripheral with its halt
// register allocated and wired.
func NewSimControl() *SimControl {
	sc := &SimControl{Peripheral: New()}
	sc.Alloc(HaltRegister)
	sc.AddTrigger(HaltRegister, func(newValue, _ uint32) bool {
		return newValue == haltValue
	}, func(uint32, uint32) {
		sc.Halted = true
	})
	return sc
}
