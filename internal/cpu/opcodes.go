package cpu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

// handler executes one instruction after its opcode byte has been fetched
// and returns the cycle cost. Handlers fetch their own immediates.
type handler func(r *Registers, b bus.Bus) (int, error)

type instruction struct {
	mnemonic string
	exec     handler // nil for reserved slots
}

// primary is indexed by the opcode byte; secondary by the byte after 0xCB.
var primary, secondary [256]instruction

// Opcodes referred to by name outside the tables.
const (
	OpNop      byte = 0x00
	OpLdBCd16  byte = 0x01
	OpLdDEd16  byte = 0x11
	OpJrNZ     byte = 0x20
	OpLdHLd16  byte = 0x21
	OpLdiHLA   byte = 0x22
	OpLdSPd16  byte = 0x31
	OpLddHLA   byte = 0x32
	OpLdHLd8   byte = 0x36
	OpHalt     byte = 0x76
	OpXorA     byte = 0xAF
	OpOrA      byte = 0xB7
	OpPrefixCB byte = 0xCB
)

func init() {
	buildPrimary()
	buildSecondary()
}

// Mnemonic names an opcode. cb is only consulted when op is the CB prefix.
func Mnemonic(op, cb byte) string {
	if op == OpPrefixCB {
		return secondary[cb].mnemonic
	}
	if m := primary[op].mnemonic; m != "" {
		return m
	}
	return fmt.Sprintf("DB $%02X", op)
}

// Implemented reports whether Step can execute op.
func Implemented(op byte) bool { return primary[op].exec != nil }

func def(op byte, mnemonic string, h handler) {
	primary[op] = instruction{mnemonic: mnemonic, exec: h}
}

func buildPrimary() {
	def(OpNop, "NOP", func(r *Registers, b bus.Bus) (int, error) { return 4, nil })

	// Interrupt and power control live outside this core; the slots are
	// named for disassembly but have no handler.
	for op, name := range map[byte]string{0x10: "STOP", OpHalt: "HALT", 0xD9: "RETI", 0xF3: "DI", 0xFB: "EI"} {
		primary[op] = instruction{mnemonic: name}
	}

	buildLoads16()
	buildLoads8()
	buildALU()
	buildAccumulatorOps()
	buildJumps()
	buildStackOps()
	def(OpPrefixCB, "PREFIX CB", execCB)
}

func buildLoads16() {
	for i, p := range pairsSP {
		base := byte(i) << 4
		def(base|0x01, "LD "+p.name+",d16", func(r *Registers, b bus.Bus) (int, error) {
			v, err := fetch16(r, b)
			if err != nil {
				return 0, err
			}
			p.set(r, v)
			return 12, nil
		})
		def(base|0x03, "INC "+p.name, func(r *Registers, b bus.Bus) (int, error) {
			p.set(r, p.get(r)+1)
			return 8, nil
		})
		def(base|0x0B, "DEC "+p.name, func(r *Registers, b bus.Bus) (int, error) {
			p.set(r, p.get(r)-1)
			return 8, nil
		})
		def(base|0x09, "ADD HL,"+p.name, func(r *Registers, b bus.Bus) (int, error) {
			addHL(r, p.get(r))
			return 8, nil
		})
	}

	def(0x08, "LD (a16),SP", func(r *Registers, b bus.Bus) (int, error) {
		addr, err := fetch16(r, b)
		if err != nil {
			return 0, err
		}
		if err := write16(b, addr, r.SP); err != nil {
			return 0, err
		}
		return 20, nil
	})
	def(0xF9, "LD SP,HL", func(r *Registers, b bus.Bus) (int, error) {
		r.SP = r.HL()
		return 8, nil
	})
	def(0xF8, "LD HL,SP+r8", func(r *Registers, b bus.Bus) (int, error) {
		off, err := fetch8(r, b)
		if err != nil {
			return 0, err
		}
		r.SetHL(addSPOffset(r, off))
		return 12, nil
	})
	def(0xE8, "ADD SP,r8", func(r *Registers, b bus.Bus) (int, error) {
		off, err := fetch8(r, b)
		if err != nil {
			return 0, err
		}
		r.SP = addSPOffset(r, off)
		return 16, nil
	})
}

func buildLoads8() {
	// LD r,d8 and LD (HL),d8
	for dst := byte(0); dst < 8; dst++ {
		cycles := 8
		if dst == regHLInd {
			cycles = 12
		}
		def(dst<<3|0x06, "LD "+regNames[dst]+",d8", func(r *Registers, b bus.Bus) (int, error) {
			v, err := fetch8(r, b)
			if err != nil {
				return 0, err
			}
			if err := writeOperand(r, b, dst, v); err != nil {
				return 0, err
			}
			return cycles, nil
		})
	}

	// LD r,r' matrix; 0x76 is HALT, not LD (HL),(HL)
	for op := 0x40; op <= 0x7F; op++ {
		if byte(op) == OpHalt {
			continue
		}
		dst, src := byte(op>>3)&7, byte(op)&7
		cycles := 4
		if dst == regHLInd || src == regHLInd {
			cycles = 8
		}
		def(byte(op), "LD "+regNames[dst]+","+regNames[src], func(r *Registers, b bus.Bus) (int, error) {
			v, err := readOperand(r, b, src)
			if err != nil {
				return 0, err
			}
			if err := writeOperand(r, b, dst, v); err != nil {
				return 0, err
			}
			return cycles, nil
		})
	}

	// A <-> (BC), (DE), (HL+), (HL-)
	indirect := [4]struct {
		name string
		p    pair
		step uint16 // applied to HL after the access
	}{
		{"(BC)", pairBC, 0},
		{"(DE)", pairDE, 0},
		{"(HL+)", pairHL, 1},
		{"(HL-)", pairHL, 0xFFFF},
	}
	for i, m := range indirect {
		base := byte(i) << 4
		def(base|0x02, "LD "+m.name+",A", func(r *Registers, b bus.Bus) (int, error) {
			addr := m.p.get(r)
			if err := b.WriteByte(addr, r.A); err != nil {
				return 0, err
			}
			if m.step != 0 {
				r.SetHL(addr + m.step)
			}
			return 8, nil
		})
		def(base|0x0A, "LD A,"+m.name, func(r *Registers, b bus.Bus) (int, error) {
			addr := m.p.get(r)
			v, err := b.ReadByte(addr)
			if err != nil {
				return 0, err
			}
			r.A = v
			if m.step != 0 {
				r.SetHL(addr + m.step)
			}
			return 8, nil
		})
	}

	// High page and absolute forms
	def(0xE0, "LDH (a8),A", func(r *Registers, b bus.Bus) (int, error) {
		n, err := fetch8(r, b)
		if err != nil {
			return 0, err
		}
		if err := b.WriteByte(0xFF00+uint16(n), r.A); err != nil {
			return 0, err
		}
		return 12, nil
	})
	def(0xF0, "LDH A,(a8)", func(r *Registers, b bus.Bus) (int, error) {
		n, err := fetch8(r, b)
		if err != nil {
			return 0, err
		}
		v, err := b.ReadByte(0xFF00 + uint16(n))
		if err != nil {
			return 0, err
		}
		r.A = v
		return 12, nil
	})
	def(0xE2, "LD (C),A", func(r *Registers, b bus.Bus) (int, error) {
		if err := b.WriteByte(0xFF00+uint16(r.C), r.A); err != nil {
			return 0, err
		}
		return 8, nil
	})
	def(0xF2, "LD A,(C)", func(r *Registers, b bus.Bus) (int, error) {
		v, err := b.ReadByte(0xFF00 + uint16(r.C))
		if err != nil {
			return 0, err
		}
		r.A = v
		return 8, nil
	})
	def(0xEA, "LD (a16),A", func(r *Registers, b bus.Bus) (int, error) {
		addr, err := fetch16(r, b)
		if err != nil {
			return 0, err
		}
		if err := b.WriteByte(addr, r.A); err != nil {
			return 0, err
		}
		return 16, nil
	})
	def(0xFA, "LD A,(a16)", func(r *Registers, b bus.Bus) (int, error) {
		addr, err := fetch16(r, b)
		if err != nil {
			return 0, err
		}
		v, err := b.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		r.A = v
		return 16, nil
	})
}

func buildALU() {
	// INC r / DEC r including (HL)
	for idx := byte(0); idx < 8; idx++ {
		cycles := 4
		if idx == regHLInd {
			cycles = 12
		}
		for _, v := range []struct {
			op   byte
			name string
			fn   func(*Registers, byte) byte
		}{{idx<<3 | 0x04, "INC ", inc8}, {idx<<3 | 0x05, "DEC ", dec8}} {
			def(v.op, v.name+regNames[idx], func(r *Registers, b bus.Bus) (int, error) {
				old, err := readOperand(r, b, idx)
				if err != nil {
					return 0, err
				}
				// flags are computed before the write; a failed (HL)
				// write still leaves them updated
				if err := writeOperand(r, b, idx, v.fn(r, old)); err != nil {
					return 0, err
				}
				return cycles, nil
			})
		}
	}

	// ADD/ADC/SUB/SBC/AND/XOR/OR/CP with registers and (HL)
	for op := 0x80; op <= 0xBF; op++ {
		kind, src := byte(op>>3)&7, byte(op)&7
		cycles := 4
		if src == regHLInd {
			cycles = 8
		}
		name := aluOps[kind].name + " " + regNames[src]
		if kind < 2 || kind == 3 {
			name = aluOps[kind].name + " A," + regNames[src]
		}
		def(byte(op), name, func(r *Registers, b bus.Bus) (int, error) {
			v, err := readOperand(r, b, src)
			if err != nil {
				return 0, err
			}
			applyALU(r, kind, v)
			return cycles, nil
		})
	}

	// ALU immediate
	for kind := byte(0); kind < 8; kind++ {
		def(0xC6|kind<<3, aluOps[kind].name+" d8", func(r *Registers, b bus.Bus) (int, error) {
			v, err := fetch8(r, b)
			if err != nil {
				return 0, err
			}
			applyALU(r, kind, v)
			return 8, nil
		})
	}
}

func buildAccumulatorOps() {
	// Unprefixed rotates always clear Z.
	for i, rot := range rotations[:4] {
		def(byte(i)<<3|0x07, rot.name+"A", func(r *Registers, b bus.Bus) (int, error) {
			res, out := rot.fn(r.A, r.Carry())
			r.A = res
			r.setZNHC(false, false, false, out)
			return 4, nil
		})
	}
	def(0x27, "DAA", func(r *Registers, b bus.Bus) (int, error) {
		daa(r)
		return 4, nil
	})
	def(0x2F, "CPL", func(r *Registers, b bus.Bus) (int, error) {
		r.A = ^r.A
		r.F = r.F&(flagZ|flagC) | flagN | flagH
		return 4, nil
	})
	def(0x37, "SCF", func(r *Registers, b bus.Bus) (int, error) {
		r.F = r.F&flagZ | flagC
		return 4, nil
	})
	def(0x3F, "CCF", func(r *Registers, b bus.Bus) (int, error) {
		r.F = (r.F & flagZ) | (^r.F & flagC)
		return 4, nil
	})
}

func jumpRelative(r *Registers, off byte) {
	r.PC += uint16(int16(int8(off)))
}

func buildJumps() {
	def(0x18, "JR r8", func(r *Registers, b bus.Bus) (int, error) {
		off, err := fetch8(r, b)
		if err != nil {
			return 0, err
		}
		jumpRelative(r, off)
		return 12, nil
	})
	def(0xC3, "JP a16", func(r *Registers, b bus.Bus) (int, error) {
		addr, err := fetch16(r, b)
		if err != nil {
			return 0, err
		}
		r.PC = addr
		return 16, nil
	})
	def(0xE9, "JP (HL)", func(r *Registers, b bus.Bus) (int, error) {
		r.PC = r.HL()
		return 4, nil
	})
	def(0xCD, "CALL a16", func(r *Registers, b bus.Bus) (int, error) {
		addr, err := fetch16(r, b)
		if err != nil {
			return 0, err
		}
		if err := push16(r, b, r.PC); err != nil {
			return 0, err
		}
		r.PC = addr
		return 24, nil
	})
	def(0xC9, "RET", func(r *Registers, b bus.Bus) (int, error) {
		pc, err := pop16(r, b)
		if err != nil {
			return 0, err
		}
		r.PC = pc
		return 16, nil
	})

	for i, cc := range conds {
		y := byte(i) << 3
		// the displacement is always consumed, taken or not
		def(0x20|y, "JR "+cc.name+",r8", func(r *Registers, b bus.Bus) (int, error) {
			off, err := fetch8(r, b)
			if err != nil {
				return 0, err
			}
			if !cc.test(r) {
				return 8, nil
			}
			jumpRelative(r, off)
			return 12, nil
		})
		def(0xC2|y, "JP "+cc.name+",a16", func(r *Registers, b bus.Bus) (int, error) {
			addr, err := fetch16(r, b)
			if err != nil {
				return 0, err
			}
			if !cc.test(r) {
				return 12, nil
			}
			r.PC = addr
			return 16, nil
		})
		def(0xC4|y, "CALL "+cc.name+",a16", func(r *Registers, b bus.Bus) (int, error) {
			addr, err := fetch16(r, b)
			if err != nil {
				return 0, err
			}
			if !cc.test(r) {
				return 12, nil
			}
			if err := push16(r, b, r.PC); err != nil {
				return 0, err
			}
			r.PC = addr
			return 24, nil
		})
		def(0xC0|y, "RET "+cc.name, func(r *Registers, b bus.Bus) (int, error) {
			if !cc.test(r) {
				return 8, nil
			}
			pc, err := pop16(r, b)
			if err != nil {
				return 0, err
			}
			r.PC = pc
			return 20, nil
		})
	}

	// RST t
	for t := byte(0); t < 8; t++ {
		vec := uint16(t) * 8
		def(0xC7|t<<3, fmt.Sprintf("RST %02XH", vec), func(r *Registers, b bus.Bus) (int, error) {
			if err := push16(r, b, r.PC); err != nil {
				return 0, err
			}
			r.PC = vec
			return 16, nil
		})
	}
}

func buildStackOps() {
	for i, p := range pairsAF {
		base := byte(i) << 4
		def(0xC5+base, "PUSH "+p.name, func(r *Registers, b bus.Bus) (int, error) {
			if err := push16(r, b, p.get(r)); err != nil {
				return 0, err
			}
			return 16, nil
		})
		def(0xC1+base, "POP "+p.name, func(r *Registers, b bus.Bus) (int, error) {
			v, err := pop16(r, b)
			if err != nil {
				return 0, err
			}
			p.set(r, v)
			return 12, nil
		})
	}
}
