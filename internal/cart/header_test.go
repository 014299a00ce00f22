package cart

import (
	"errors"
	"testing"
)

// buildROM makes a 32 KiB image with a valid logo and header checksum.
func buildROM(title string, cartType, romSizeCode byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[logoStart:], nintendoLogo[:])
	copy(rom[titleStart:titleEnd], title)
	rom[typeAddr] = cartType
	rom[romSizeAddr] = romSizeCode
	rom[checksumAddr] = headerChecksum(rom)
	rom[globalSumAddr], rom[globalSumAddr+1] = 0x12, 0x34
	return rom
}

func TestParseHeader_Basic(t *testing.T) {
	h, err := ParseHeader(buildROM("TEST", 0x00, 0x00))
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if h.Title != "TEST" || !h.LogoOK || !h.ChecksumOK {
		t.Fatalf("got %+v", h)
	}
	if h.GlobalChecksum != 0x1234 {
		t.Fatalf("global checksum got %#04x", h.GlobalChecksum)
	}
	if h.Banked() || h.ROMSize() != 32*1024 || h.TypeName() != "ROM ONLY" {
		t.Fatalf("plain ROM decoded as %s banked=%v", h, h.Banked())
	}
}

func TestParseHeader_Banked(t *testing.T) {
	h, err := ParseHeader(buildROM("BIG", 0x01, 0x02))
	if err != nil {
		t.Fatal(err)
	}
	if !h.Banked() || h.ROMSize() != 128*1024 || h.TypeName() != "MBC1" {
		t.Fatalf("MBC1 decoded as %s banked=%v", h, h.Banked())
	}
}

func TestParseHeader_BadChecksumAndLogo(t *testing.T) {
	rom := buildROM("TEST", 0x00, 0x00)
	rom[titleStart] ^= 0xFF
	rom[logoStart] = 0
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatal(err)
	}
	if h.ChecksumOK || h.LogoOK {
		t.Fatalf("corruption not detected: %+v", h)
	}
}

func TestParseHeader_ShortROM(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 0x140)); !errors.Is(err, ErrShortROM) {
		t.Fatalf("got %v want ErrShortROM", err)
	}
}
