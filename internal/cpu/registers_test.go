package cpu

import "testing"

func TestRegisters_PairsRoundTrip(t *testing.T) {
	pairs := []struct {
		name   string
		get    func(*Registers) uint16
		set    func(*Registers, uint16)
		hi, lo func(*Registers) *byte
	}{
		{"AF", (*Registers).AF, (*Registers).SetAF, func(r *Registers) *byte { return &r.A }, func(r *Registers) *byte { return &r.F }},
		{"BC", (*Registers).BC, (*Registers).SetBC, func(r *Registers) *byte { return &r.B }, func(r *Registers) *byte { return &r.C }},
		{"DE", (*Registers).DE, (*Registers).SetDE, func(r *Registers) *byte { return &r.D }, func(r *Registers) *byte { return &r.E }},
		{"HL", (*Registers).HL, (*Registers).SetHL, func(r *Registers) *byte { return &r.H }, func(r *Registers) *byte { return &r.L }},
	}
	for _, p := range pairs {
		for _, v := range []uint16{0x0000, 0x00FF, 0xFF00, 0x1234, 0xABCD, 0xFFFF} {
			var r Registers
			p.set(&r, v)
			if *p.hi(&r) != byte(v>>8) || *p.lo(&r) != byte(v) || p.get(&r) != v {
				t.Fatalf("%s=%04X split into %02X %02X", p.name, v, *p.hi(&r), *p.lo(&r))
			}
			*p.hi(&r) = 0x5A
			if p.get(&r) != 0x5A00|v&0x00FF {
				t.Fatalf("%s after high write got %04X", p.name, p.get(&r))
			}
			*p.lo(&r) = 0xA5
			if p.get(&r) != 0x5AA5 {
				t.Fatalf("%s after low write got %04X", p.name, p.get(&r))
			}
		}
	}
}

func TestRegisters_FlagsIndependent(t *testing.T) {
	flags := []struct {
		mask byte
		get  func(*Registers) bool
		set  func(*Registers, bool)
	}{
		{flagZ, (*Registers).Zero, (*Registers).SetZero},
		{flagN, (*Registers).Subtract, (*Registers).SetSubtract},
		{flagH, (*Registers).HalfCarry, (*Registers).SetHalfCarry},
		{flagC, (*Registers).Carry, (*Registers).SetCarry},
	}
	for start := 0; start < 256; start += 7 {
		for _, f := range flags {
			for _, on := range []bool{true, false} {
				r := Registers{F: byte(start)}
				f.set(&r, on)
				if f.get(&r) != on {
					t.Fatalf("flag %02X not %v after set (F=%02X)", f.mask, on, r.F)
				}
				if r.F&^f.mask != byte(start)&^f.mask {
					t.Fatalf("setting %02X changed other bits: %02X -> %02X", f.mask, start, r.F)
				}
			}
		}
	}
}

func TestRegisters_Reset(t *testing.T) {
	r := Registers{PC: 0x1234, Cycles: 99}
	r.Reset()
	if r.AF() != 0x01B0 || r.BC() != 0x0013 || r.DE() != 0x00D8 || r.HL() != 0x014D || r.SP != 0xFFFE {
		t.Fatalf("post-boot state wrong: %v", r)
	}
	if r.PC != 0x1234 || r.Cycles != 99 {
		t.Fatalf("Reset should leave PC and cycles: %v", r)
	}
}
