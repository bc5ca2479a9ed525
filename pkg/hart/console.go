package hart

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/bassosimone/rv32core/pkg/peripheral"
)

// Console register offsets, word-aligned within the peripheral's range.
const (
	consoleOut    = 0x0 // guest writes a non-zero byte here to transmit it
	consoleIn     = 0x4 // guest reads a received byte here
	consoleStatus = 0x8 // bit 0: input available; bit 1 (output pending) is never set, transmission is synchronous
	consoleSize   = 0x10
)

const (
	statusInAvail   = 1 << 0
	statusOutPend   = 1 << 1
)

// Console is a memory-mapped serial console peripheral, adapted from
// the teacher's SerialTTY: a TCP connection stands in for a UART. It
// is built on peripheral.Peripheral so the same trigger mechanism that
// drives sim-control's halt also drives byte transmission here.
type Console struct {
	*peripheral.Peripheral
	conn net.Conn
}

// AcceptConsole waits for a single controlling TCP connection and
// returns a Console wired to it. The caller must Close it when done.
func AcceptConsole() (*Console, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	log.Printf("console: waiting for a connection on %s/tcp...", ln.Addr())
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	c := &Console{Peripheral: peripheral.New(), conn: conn}
	c.Alloc(consoleOut)
	c.Alloc(consoleIn)
	c.Alloc(consoleStatus)
	c.AddTrigger(consoleOut, func(uint32, uint32) bool { return true }, func(newValue, _ uint32) {
		c.transmit(byte(newValue))
		// Clear the register so the next write of the same byte is a
		// change and fires the trigger again.
		c.Set(consoleOut, 0)
	})
	return c, nil
}

func (c *Console) transmit(b byte) {
	if _, err := c.conn.Write([]byte{b}); err != nil {
		log.Printf("console: write failed: %s", err)
	}
}

// Poll checks for an inbound byte without blocking the hart for more
// than a millisecond, and if one arrived, stores it in the input
// register and sets the input-available status bit. Mirrors the
// teacher's InterruptPending, minus the interrupt-delivery mechanism
// (out of scope per spec.md §1).
func (c *Console) Poll() error {
	c.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	var b [1]byte
	n, err := c.conn.Read(b[:])
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil
		}
		return fmt.Errorf("console: poll: %w", err)
	}
	if n == 1 {
		c.Set(consoleIn, uint32(b[0]))
		status := c.Get(consoleStatus) | statusInAvail
		c.Set(consoleStatus, status)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Console) Close() error {
	return c.conn.Close()
}
