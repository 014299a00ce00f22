package cpu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"

// 3-bit operand encoding shared by LD r,r', the ALU block, INC/DEC and
// every CB instruction.
const (
	regB byte = iota
	regC
	regD
	regE
	regH
	regL
	regHLInd // (HL)
	regA
)

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// reg8 maps an operand index to its register. It must not be called with
// regHLInd.
func reg8(r *Registers, idx byte) *byte {
	switch idx {
	case regB:
		return &r.B
	case regC:
		return &r.C
	case regD:
		return &r.D
	case regE:
		return &r.E
	case regH:
		return &r.H
	case regL:
		return &r.L
	case regA:
		return &r.A
	}
	panic("cpu: reg8 called with (HL)")
}

func readOperand(r *Registers, b bus.Bus, idx byte) (byte, error) {
	if idx == regHLInd {
		return b.ReadByte(r.HL())
	}
	return *reg8(r, idx), nil
}

func writeOperand(r *Registers, b bus.Bus, idx byte, v byte) error {
	if idx == regHLInd {
		return b.WriteByte(r.HL(), v)
	}
	*reg8(r, idx) = v
	return nil
}

// fetch8 reads the byte at PC and advances PC past it.
func fetch8(r *Registers, b bus.Bus) (byte, error) {
	v, err := b.ReadByte(r.PC)
	if err != nil {
		return 0, err
	}
	r.PC++
	return v, nil
}

// fetch16 reads a little-endian immediate and advances PC by two.
func fetch16(r *Registers, b bus.Bus) (uint16, error) {
	v, err := b.ReadWord(r.PC)
	if err != nil {
		return 0, err
	}
	r.PC += 2
	return v, nil
}

func read16(b bus.Bus, addr uint16) (uint16, error) { return b.ReadWord(addr) }

func write16(b bus.Bus, addr uint16, v uint16) error {
	if err := b.WriteByte(addr, byte(v)); err != nil {
		return err
	}
	return b.WriteByte(addr+1, byte(v>>8))
}

// push16 stores the high byte first, decrementing SP once per byte.
func push16(r *Registers, b bus.Bus, v uint16) error {
	r.SP--
	if err := b.WriteByte(r.SP, byte(v>>8)); err != nil {
		return err
	}
	r.SP--
	return b.WriteByte(r.SP, byte(v))
}

func pop16(r *Registers, b bus.Bus) (uint16, error) {
	v, err := read16(b, r.SP)
	if err != nil {
		return 0, err
	}
	r.SP += 2
	return v, nil
}

// Register pairs as encoded in bits 5-4 of the 16-bit load/inc/dec/add
// column. Index 3 is SP there and AF for PUSH/POP.
type pair struct {
	name string
	get  func(r *Registers) uint16
	set  func(r *Registers, v uint16)
}

var (
	pairBC = pair{"BC", (*Registers).BC, (*Registers).SetBC}
	pairDE = pair{"DE", (*Registers).DE, (*Registers).SetDE}
	pairHL = pair{"HL", (*Registers).HL, (*Registers).SetHL}
	pairSP = pair{"SP",
		func(r *Registers) uint16 { return r.SP },
		func(r *Registers, v uint16) { r.SP = v }}
	// POP AF never loads the unused low nibble of F.
	pairAF = pair{"AF", (*Registers).AF,
		func(r *Registers, v uint16) { r.SetAF(v & 0xFFF0) }}
)

var (
	pairsSP = [4]pair{pairBC, pairDE, pairHL, pairSP}
	pairsAF = [4]pair{pairBC, pairDE, pairHL, pairAF}
)

// Branch conditions as encoded in bits 4-3.
var conds = [4]struct {
	name string
	test func(r *Registers) bool
}{
	{"NZ", func(r *Registers) bool { return !r.Zero() }},
	{"Z", func(r *Registers) bool { return r.Zero() }},
	{"NC", func(r *Registers) bool { return !r.Carry() }},
	{"C", func(r *Registers) bool { return r.Carry() }},
}
