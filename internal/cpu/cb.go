package cpu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

// CB-prefixed instructions. Layout of the sub-opcode:
//
//	bits 7-6  family: 0 rotate/shift, 1 BIT, 2 RES, 3 SET
//	bits 5-3  rotate variant or bit number
//	bits 2-0  operand (B C D E H L (HL) A)
//
// Every CB instruction costs 8 cycles for the two fetches plus 8 more when
// the operand is (HL).
const (
	cbFetchCycles  = 8
	cbMemoryCycles = 8
)

// rotations is indexed by bits 5-3 of the rotate family. The first four are
// shared with RLCA/RRCA/RLA/RRA.
var rotations = [8]struct {
	name string
	fn   func(v byte, carry bool) (res byte, out bool)
}{
	{"RLC", func(v byte, _ bool) (byte, bool) { return v<<1 | v>>7, v&0x80 != 0 }},
	{"RRC", func(v byte, _ bool) (byte, bool) { return v>>1 | v<<7, v&0x01 != 0 }},
	{"RL", func(v byte, c bool) (byte, bool) { return v<<1 | bit0(c), v&0x80 != 0 }},
	{"RR", func(v byte, c bool) (byte, bool) { return v>>1 | bit0(c)<<7, v&0x01 != 0 }},
	{"SLA", func(v byte, _ bool) (byte, bool) { return v << 1, v&0x80 != 0 }},
	{"SRA", func(v byte, _ bool) (byte, bool) { return v>>1 | v&0x80, v&0x01 != 0 }},
	{"SWAP", func(v byte, _ bool) (byte, bool) { return v<<4 | v>>4, false }},
	{"SRL", func(v byte, _ bool) (byte, bool) { return v >> 1, v&0x01 != 0 }},
}

func bit0(on bool) byte {
	if on {
		return 1
	}
	return 0
}

func operandCost(idx byte) int {
	if idx == regHLInd {
		return cbMemoryCycles
	}
	return 0
}

// execCB is the handler for the 0xCB escape. The sub-opcode handlers return
// only their operand cost.
func execCB(r *Registers, b bus.Bus) (int, error) {
	sub, err := fetch8(r, b)
	if err != nil {
		return 0, err
	}
	ins := &secondary[sub]
	if ins.exec == nil {
		return 0, &OpcodeError{Opcode: sub, Prefixed: true}
	}
	extra, err := ins.exec(r, b)
	if err != nil {
		return 0, err
	}
	return cbFetchCycles + extra, nil
}

func buildSecondary() {
	for op := 0; op < 256; op++ {
		y, z := byte(op>>3)&7, byte(op)&7
		cost := operandCost(z)
		var ins instruction
		switch op >> 6 {
		case 0:
			ins = cbRotate(y, z, cost)
		case 1:
			ins = cbBit(y, z, cost)
		case 2:
			ins = cbWriteBit(fmt.Sprintf("RES %d,%s", y, regNames[z]), z, cost,
				func(v byte) byte { return v &^ (1 << y) })
		case 3:
			ins = cbWriteBit(fmt.Sprintf("SET %d,%s", y, regNames[z]), z, cost,
				func(v byte) byte { return v | 1<<y })
		}
		secondary[op] = ins
	}
}

func cbRotate(variant, idx byte, cost int) instruction {
	rot := rotations[variant]
	return instruction{
		mnemonic: rot.name + " " + regNames[idx],
		exec: func(r *Registers, b bus.Bus) (int, error) {
			v, err := readOperand(r, b, idx)
			if err != nil {
				return 0, err
			}
			res, out := rot.fn(v, r.Carry())
			if err := writeOperand(r, b, idx, res); err != nil {
				return 0, err
			}
			r.setZNHC(res == 0, false, false, out)
			return cost, nil
		},
	}
}

// cbBit raises Z when the tested bit is set; H is forced on, N off, C kept.
// Note the polarity is inverted relative to SM83 silicon, which raises Z
// for a clear bit. Programs relying on BIT for loop exits will diverge.
func cbBit(n, idx byte, cost int) instruction {
	return instruction{
		mnemonic: fmt.Sprintf("BIT %d,%s", n, regNames[idx]),
		exec: func(r *Registers, b bus.Bus) (int, error) {
			v, err := readOperand(r, b, idx)
			if err != nil {
				return 0, err
			}
			f := r.F&flagC | flagH
			if v&(1<<n) != 0 {
				f |= flagZ
			}
			r.F = f
			return cost, nil
		},
	}
}

// cbWriteBit backs RES and SET. Both leave F cleared (silicon leaves F alone).
func cbWriteBit(mnemonic string, idx byte, cost int, fn func(byte) byte) instruction {
	return instruction{
		mnemonic: mnemonic,
		exec: func(r *Registers, b bus.Bus) (int, error) {
			v, err := readOperand(r, b, idx)
			if err != nil {
				return 0, err
			}
			if err := writeOperand(r, b, idx, fn(v)); err != nil {
				return 0, err
			}
			r.F = 0
			return cost, nil
		},
	}
}
