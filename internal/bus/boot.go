package bus

import "fmt"

const (
	BootImageSize = 0x100
	// BootControl unmaps the boot image on the first non-zero write.
	BootControl uint16 = 0xFF50
)

// Boot is the minimal DMG start-up bus: a 256-byte boot image at 0x0000
// plus the boot control register. Nothing else is backed.
type Boot struct {
	image    [BootImageSize]byte
	unmapped byte // value of 0xFF50; non-zero once the image is gone
}

// NewBoot maps image at 0x0000. The image must be exactly 256 bytes.
func NewBoot(image []byte) (*Boot, error) {
	if len(image) != BootImageSize {
		return nil, fmt.Errorf("boot image is %d bytes, want %d: %w", len(image), BootImageSize, ErrInvalidBootImageSize)
	}
	b := &Boot{}
	copy(b.image[:], image)
	return b, nil
}

// Mapped reports whether the boot image still overlays 0x0000-0x00FF.
func (b *Boot) Mapped() bool { return b.unmapped == 0 }

func (b *Boot) ReadByte(addr uint16) (byte, error) {
	switch {
	case addr < BootImageSize && b.Mapped():
		return b.image[addr], nil
	case addr == BootControl:
		return b.unmapped, nil
	}
	return 0, unmappedRead(addr)
}

func (b *Boot) ReadWord(addr uint16) (uint16, error) { return readWord(b, addr) }

func (b *Boot) WriteByte(addr uint16, value byte) error {
	switch {
	case addr < BootImageSize && b.Mapped():
		return readOnly(addr)
	case addr == BootControl:
		// latch: once unmapped the image never comes back
		if b.Mapped() {
			b.unmapped = value
		}
		return nil
	}
	return unmappedWrite(addr)
}

func (b *Boot) Snapshot() Bus {
	c := *b
	return &c
}

// Dump returns the boot image followed by the control register.
func (b *Boot) Dump() []byte {
	out := make([]byte, 0, BootImageSize+1)
	out = append(out, b.image[:]...)
	return append(out, b.unmapped)
}
