package cpu

import "fmt"

// Flags helpers
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

// Registers is the SM83 register file. The 8-bit halves are the storage;
// the 16-bit pairs are derived by shift/mask so a half write never tears
// the pair.
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	// Cycles counts T-states since construction. It only grows.
	Cycles uint64
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

// SetAF stores v unmasked; instructions that write flags clear the low nibble.
func (r *Registers) SetAF(v uint16) { r.A = byte(v >> 8); r.F = byte(v) }
func (r *Registers) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *Registers) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *Registers) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }

func (r *Registers) Zero() bool      { return r.F&flagZ != 0 }
func (r *Registers) Subtract() bool  { return r.F&flagN != 0 }
func (r *Registers) HalfCarry() bool { return r.F&flagH != 0 }
func (r *Registers) Carry() bool     { return r.F&flagC != 0 }

func (r *Registers) SetZero(on bool)      { r.setFlag(flagZ, on) }
func (r *Registers) SetSubtract(on bool)  { r.setFlag(flagN, on) }
func (r *Registers) SetHalfCarry(on bool) { r.setFlag(flagH, on) }
func (r *Registers) SetCarry(on bool)     { r.setFlag(flagC, on) }

func (r *Registers) setFlag(mask byte, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

// setZNHC replaces the whole of F, leaving the unused low nibble zero.
func (r *Registers) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	r.F = f
}

// Reset sets registers to typical DMG post-boot state.
// Useful when running without a boot image. Cycles are left alone.
func (r *Registers) Reset() {
	r.A, r.F = 0x01, 0xB0
	r.B, r.C = 0x00, 0x13
	r.D, r.E = 0x00, 0xD8
	r.H, r.L = 0x01, 0x4D
	r.SP = 0xFFFE
}

func (r Registers) String() string {
	return fmt.Sprintf("A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X PC=%04X cyc=%d",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC, r.Cycles)
}
