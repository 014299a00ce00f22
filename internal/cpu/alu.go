package cpu

// 8-bit ALU. Each helper returns the result and the four flags it produces;
// callers decide which of them land in F.

func add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	h = ((a & 0x0F) + (b & 0x0F)) > 0x0F
	cy = r > 0xFF
	return
}

func adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func sub8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a - b
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = a < b
	return
}

func sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	res = a - b - ci
	z = res == 0
	n = true
	h = (a & 0x0F) < ((b & 0x0F) + ci)
	cy = uint16(a) < uint16(b)+uint16(ci)
	return
}

func and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	return res, res == 0, false, true, false
}

func xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	return res, res == 0, false, false, false
}

func or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	return res, res == 0, false, false, false
}

func cp8(a, b byte) (res byte, z, n, h, cy bool) {
	_, z, n, h, cy = sub8(a, b)
	return a, z, n, h, cy
}

// aluOps is indexed by bits 5-3 of the 0x80-0xBF block and of the
// 0xC6-0xFE immediate column.
var aluOps = [8]struct {
	name string
	fn   func(r *Registers, v byte) (byte, bool, bool, bool, bool)
}{
	{"ADD", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return add8(r.A, v) }},
	{"ADC", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return adc8(r.A, v, r.Carry()) }},
	{"SUB", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return sub8(r.A, v) }},
	{"SBC", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return sbc8(r.A, v, r.Carry()) }},
	{"AND", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return and8(r.A, v) }},
	{"XOR", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return xor8(r.A, v) }},
	{"OR", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return or8(r.A, v) }},
	{"CP", func(r *Registers, v byte) (byte, bool, bool, bool, bool) { return cp8(r.A, v) }},
}

// applyALU stores the result in A (CP returns A unchanged) and replaces F.
func applyALU(r *Registers, op byte, v byte) {
	res, z, n, h, cy := aluOps[op].fn(r, v)
	r.A = res
	r.setZNHC(z, n, h, cy)
}

func inc8(r *Registers, v byte) byte {
	res := v + 1
	r.setZNHC(res == 0, false, v&0x0F == 0x0F, r.Carry())
	return res
}

func dec8(r *Registers, v byte) byte {
	res := v - 1
	r.setZNHC(res == 0, true, v&0x0F == 0x00, r.Carry())
	return res
}

func addHL(r *Registers, v uint16) {
	hl := r.HL()
	sum := uint32(hl) + uint32(v)
	h := (hl&0x0FFF)+(v&0x0FFF) > 0x0FFF
	r.SetHL(uint16(sum))
	r.setZNHC(r.Zero(), false, h, sum > 0xFFFF)
}

// addSPOffset implements SP+r8: flags come from the unsigned low-byte add.
func addSPOffset(r *Registers, off byte) uint16 {
	_, _, _, h, cy := add8(byte(r.SP), off)
	r.setZNHC(false, false, h, cy)
	return r.SP + uint16(int16(int8(off)))
}

func daa(r *Registers) {
	a := r.A
	cf := r.Carry()
	if !r.Subtract() { // after addition
		if cf || a > 0x99 {
			a += 0x60
			cf = true
		}
		if r.HalfCarry() || (a&0x0F) > 9 {
			a += 0x06
		}
	} else { // after subtraction
		if cf {
			a -= 0x60
		}
		if r.HalfCarry() {
			a -= 0x06
		}
	}
	r.A = a
	r.setZNHC(a == 0, r.Subtract(), false, cf)
}
