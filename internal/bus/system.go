package bus

import "fmt"

// System maps a program ROM, work RAM and high RAM the way a ROM-only DMG
// cartridge sees them, with an optional boot image overlay.
type System struct {
	rom  []byte
	ram  [0x2000]byte // 8KB internal RAM
	hram [0x7F]byte

	boot     []byte // nil when started without a boot image
	bootCtrl byte
}

// NewSystem maps rom at 0x0000. Bytes past the end of rom read 0xFF.
func NewSystem(rom []byte) *System {
	r := make([]byte, len(rom))
	copy(r, rom)
	return &System{rom: r}
}

// SetBootImage overlays image on 0x0000-0x00FF until 0xFF50 is written.
func (s *System) SetBootImage(image []byte) error {
	if len(image) != BootImageSize {
		return fmt.Errorf("boot image is %d bytes, want %d: %w", len(image), BootImageSize, ErrInvalidBootImageSize)
	}
	s.boot = make([]byte, BootImageSize)
	copy(s.boot, image)
	s.bootCtrl = 0
	return nil
}

func (s *System) bootMapped() bool { return s.boot != nil && s.bootCtrl == 0 }

func (s *System) ReadByte(addr uint16) (byte, error) {
	switch {
	case addr < BootImageSize && s.bootMapped():
		return s.boot[addr], nil
	case addr < 0x8000: // ROM area
		if int(addr) < len(s.rom) {
			return s.rom[addr], nil
		}
		return 0xFF, nil
	case addr >= 0xC000 && addr <= 0xDFFF: // Internal RAM
		return s.ram[addr-0xC000], nil
	case addr >= 0xE000 && addr <= 0xFDFF: // echo of C000-DDFF
		return s.ram[addr-0xE000], nil
	case addr == BootControl:
		return s.bootCtrl, nil
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return s.hram[addr-0xFF80], nil
	}
	return 0, unmappedRead(addr)
}

func (s *System) ReadWord(addr uint16) (uint16, error) { return readWord(s, addr) }

func (s *System) WriteByte(addr uint16, value byte) error {
	switch {
	case addr < 0x8000:
		return readOnly(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		s.ram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		s.ram[addr-0xE000] = value
	case addr == BootControl:
		if s.bootCtrl == 0 {
			s.bootCtrl = value
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		s.hram[addr-0xFF80] = value
	default:
		return unmappedWrite(addr)
	}
	return nil
}

func (s *System) Snapshot() Bus {
	c := *s
	c.rom = append([]byte(nil), s.rom...)
	if s.boot != nil {
		c.boot = append([]byte(nil), s.boot...)
	}
	return &c
}

// Dump concatenates ROM, work RAM, high RAM, the boot image (if any) and
// the boot control register.
func (s *System) Dump() []byte {
	out := make([]byte, 0, len(s.rom)+len(s.ram)+len(s.hram)+len(s.boot)+1)
	out = append(out, s.rom...)
	out = append(out, s.ram[:]...)
	out = append(out, s.hram[:]...)
	out = append(out, s.boot...)
	return append(out, s.bootCtrl)
}
