package bus

import (
	"errors"
	"fmt"
)

// Bus is the byte-addressable store the CPU fetches from and writes to.
// Implementations own their backing storage; the CPU only borrows them.
type Bus interface {
	ReadByte(addr uint16) (byte, error)
	// ReadWord is little-endian: low byte at addr, high byte at addr+1.
	ReadWord(addr uint16) (uint16, error)
	WriteByte(addr uint16, value byte) error
	// Snapshot returns a deep copy that shares no storage with the receiver.
	Snapshot() Bus
	// Dump returns the raw contents for equality checks.
	Dump() []byte
}

var (
	ErrUnmappedAccess       = errors.New("unmapped access")
	ErrReadOnlyViolation    = errors.New("write to read-only region")
	ErrInvalidBootImageSize = errors.New("invalid boot image size")
)

// AccessError reports a failed bus access.
type AccessError struct {
	Op   string // "read" or "write"
	Addr uint16
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %#04x: %v", e.Op, e.Addr, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

func unmappedRead(addr uint16) error {
	return &AccessError{Op: "read", Addr: addr, Err: ErrUnmappedAccess}
}

func unmappedWrite(addr uint16) error {
	return &AccessError{Op: "write", Addr: addr, Err: ErrUnmappedAccess}
}

func readOnly(addr uint16) error {
	return &AccessError{Op: "write", Addr: addr, Err: ErrReadOnlyViolation}
}

// readWord composes two byte reads, low byte first.
func readWord(b Bus, addr uint16) (uint16, error) {
	lo, err := b.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := b.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}
