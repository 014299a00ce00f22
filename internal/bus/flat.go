package bus

// Flat is a plain byte store mapped from address 0. Anything past its size
// is unmapped. Used by tests and by hosts that want a bare memory image.
type Flat struct {
	mem []byte
}

// NewFlat returns a zeroed store of size bytes, capped to the 64 KiB address space.
func NewFlat(size int) *Flat {
	if size <= 0 || size > 0x10000 {
		size = 0x10000
	}
	return &Flat{mem: make([]byte, size)}
}

// FlatFrom returns a store holding a copy of data, sized to data.
func FlatFrom(data []byte) *Flat {
	f := NewFlat(len(data))
	copy(f.mem, data)
	return f
}

func (f *Flat) ReadByte(addr uint16) (byte, error) {
	if int(addr) >= len(f.mem) {
		return 0, unmappedRead(addr)
	}
	return f.mem[addr], nil
}

func (f *Flat) ReadWord(addr uint16) (uint16, error) { return readWord(f, addr) }

func (f *Flat) WriteByte(addr uint16, value byte) error {
	if int(addr) >= len(f.mem) {
		return unmappedWrite(addr)
	}
	f.mem[addr] = value
	return nil
}

func (f *Flat) Snapshot() Bus {
	return FlatFrom(f.mem)
}

func (f *Flat) Dump() []byte {
	out := make([]byte, len(f.mem))
	copy(out, f.mem)
	return out
}

// Size reports how many bytes are mapped.
func (f *Flat) Size() int { return len(f.mem) }
