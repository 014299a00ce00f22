package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrShortROM is returned for images that end before the header does.
var ErrShortROM = errors.New("ROM too small to contain header")

const (
	logoStart     = 0x0104
	titleStart    = 0x0134
	titleEnd      = 0x0144 // exclusive; the last byte doubles as the CGB flag
	typeAddr      = 0x0147
	romSizeAddr   = 0x0148
	checksumAddr  = 0x014D
	globalSumAddr = 0x014E
	headerEnd     = 0x0150 // exclusive
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header holds the cartridge fields the runner reports before executing.
type Header struct {
	Title          string
	CartType       byte
	ROMSizeCode    byte
	HeaderChecksum byte
	GlobalChecksum uint16

	LogoOK     bool // boot logo bytes match
	ChecksumOK bool // header checksum over 0x0134-0x014C matches
}

// ParseHeader decodes the header at 0x0100-0x014F. A bad logo or checksum is
// reported through the Header, not as an error; test ROMs often have neither.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd {
		return nil, fmt.Errorf("%d bytes: %w", len(rom), ErrShortROM)
	}
	h := &Header{
		Title:          strings.TrimRight(string(rom[titleStart:titleEnd]), "\x00"),
		CartType:       rom[typeAddr],
		ROMSizeCode:    rom[romSizeAddr],
		HeaderChecksum: rom[checksumAddr],
		GlobalChecksum: binary.BigEndian.Uint16(rom[globalSumAddr:headerEnd]),
		LogoOK:         [48]byte(rom[logoStart:logoStart+48]) == nintendoLogo,
	}
	h.ChecksumOK = headerChecksum(rom) == h.HeaderChecksum
	return h, nil
}

func headerChecksum(rom []byte) byte {
	var sum byte
	for _, v := range rom[titleStart:checksumAddr] {
		sum = sum - v - 1
	}
	return sum
}

// Banked reports whether the cartridge needs a memory bank controller. Only
// plain 32 KiB ROM images run correctly on the system bus.
func (h *Header) Banked() bool { return h.CartType != 0x00 || h.ROMSizeCode != 0x00 }

// ROMSize decodes the ROM size code, or 0 for unknown codes.
func (h *Header) ROMSize() int {
	if h.ROMSizeCode <= 0x08 {
		return 32 * 1024 << h.ROMSizeCode
	}
	return 0
}

// TypeName names the controller family for log output.
func (h *Header) TypeName() string {
	switch h.CartType {
	case 0x00:
		return "ROM ONLY"
	case 0x01, 0x02, 0x03:
		return "MBC1"
	case 0x05, 0x06:
		return "MBC2"
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return "MBC3"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5"
	}
	return fmt.Sprintf("type %#02x", h.CartType)
}

func (h *Header) String() string {
	return fmt.Sprintf("%q %s %d KiB", h.Title, h.TypeName(), h.ROMSize()/1024)
}
