package cpu

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

// ErrUnimplementedOpcode is returned by Step for opcodes without a handler.
var ErrUnimplementedOpcode = errors.New("unimplemented opcode")

// OpcodeError identifies the opcode that could not be executed.
type OpcodeError struct {
	PC       uint16 // address of the opcode byte (the CB prefix for prefixed ops)
	Opcode   byte
	Prefixed bool
}

func (e *OpcodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("%v CB %02X at %#04x", ErrUnimplementedOpcode, e.Opcode, e.PC)
	}
	return fmt.Sprintf("%v %02X at %#04x", ErrUnimplementedOpcode, e.Opcode, e.PC)
}

func (e *OpcodeError) Unwrap() error { return ErrUnimplementedOpcode }

// CPU runs SM83 instructions against a borrowed bus. Register state is
// embedded so hosts can read c.A, c.PC, c.Cycles directly.
type CPU struct {
	Registers

	bus bus.Bus
}

// New creates a CPU with all registers zero and PC at 0x0000.
func New(b bus.Bus) *CPU {
	return &CPU{bus: b}
}

// SetPC allows tests or a boot stub to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Bus exposes the underlying bus for tests/tools.
func (c *CPU) Bus() bus.Bus { return c.bus }

// Step executes one instruction and returns its cycle cost. On error the
// cycle counter is not advanced and the registers hold whatever the
// instruction had done up to the failing access.
func (c *CPU) Step() (int, error) {
	at := c.PC
	op, err := fetch8(&c.Registers, c.bus)
	if err != nil {
		return 0, err
	}
	ins := &primary[op]
	if ins.exec == nil {
		return 0, &OpcodeError{PC: at, Opcode: op}
	}
	cycles, err := ins.exec(&c.Registers, c.bus)
	if err != nil {
		var oe *OpcodeError
		if errors.As(err, &oe) {
			oe.PC = at
		}
		return 0, err
	}
	c.Cycles += uint64(cycles)
	return cycles, nil
}

// Peek returns the opcode at PC and, for CB-prefixed instructions, the
// sub-opcode, without changing any state.
func (c *CPU) Peek() (op, cb byte, err error) {
	op, err = c.bus.ReadByte(c.PC)
	if err != nil || op != OpPrefixCB {
		return op, 0, err
	}
	cb, err = c.bus.ReadByte(c.PC + 1)
	return op, cb, err
}

// Disassemble names the instruction at PC.
func (c *CPU) Disassemble() string {
	op, cb, err := c.Peek()
	if err != nil {
		return "??"
	}
	if op == OpPrefixCB {
		return Mnemonic(op, cb)
	}
	return Mnemonic(op, 0)
}

// CopyState returns an independent CPU with the same registers and a deep
// copy of the bus. Mutating either one never shows through the other.
func (c *CPU) CopyState() *CPU {
	cp := &CPU{Registers: c.Registers}
	if c.bus != nil {
		cp.bus = c.bus.Snapshot()
	}
	return cp
}

// Diff lists every register, counter or memory difference between c and
// other. An empty result means the two states are identical.
func (c *CPU) Diff(other *CPU) []string {
	var out []string
	cmp8 := func(name string, a, b byte) {
		if a != b {
			out = append(out, fmt.Sprintf("%s: %02X != %02X", name, a, b))
		}
	}
	cmp16 := func(name string, a, b uint16) {
		if a != b {
			out = append(out, fmt.Sprintf("%s: %04X != %04X", name, a, b))
		}
	}
	x, y := &c.Registers, &other.Registers
	cmp8("A", x.A, y.A)
	cmp8("F", x.F, y.F)
	cmp8("B", x.B, y.B)
	cmp8("C", x.C, y.C)
	cmp8("D", x.D, y.D)
	cmp8("E", x.E, y.E)
	cmp8("H", x.H, y.H)
	cmp8("L", x.L, y.L)
	cmp16("SP", x.SP, y.SP)
	cmp16("PC", x.PC, y.PC)
	if x.Cycles != y.Cycles {
		out = append(out, fmt.Sprintf("Cycles: %d != %d", x.Cycles, y.Cycles))
	}
	switch {
	case c.bus == nil && other.bus == nil:
	case c.bus == nil || other.bus == nil:
		out = append(out, "bus: only one side has a bus")
	default:
		da, db := c.bus.Dump(), other.bus.Dump()
		if !bytes.Equal(da, db) {
			out = append(out, memDiff(da, db))
		}
	}
	return out
}

// Equal reports whether c and other hold identical register and bus state.
func (c *CPU) Equal(other *CPU) bool { return len(c.Diff(other)) == 0 }

func memDiff(a, b []byte) string {
	if len(a) != len(b) {
		return fmt.Sprintf("memory: size %d != %d", len(a), len(b))
	}
	n, first := 0, -1
	for i := range a {
		if a[i] != b[i] {
			if first < 0 {
				first = i
			}
			n++
		}
	}
	return fmt.Sprintf("memory: %d byte(s) differ, first at offset %#04x (%02X != %02X)", n, first, a[first], b[first])
}
