package emu

import (
	"errors"
	"fmt"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
)

// ErrNotLoaded is returned when a Machine is driven before a program is loaded.
var ErrNotLoaded = errors.New("no program loaded")

// Machine owns one CPU and the bus it runs against, and records a trace of
// recent instructions when configured to.
type Machine struct {
	cfg     Config
	cpu     *cpu.CPU
	romPath string
	header  *cart.Header // nil unless the program carries a cartridge header
	trace   traceRing
}

// Result summarises a Run.
type Result struct {
	Steps  int    // instructions that completed
	Cycles uint64 // cycles those instructions took
}

func New(cfg Config) *Machine {
	cfg.Defaults()
	return &Machine{cfg: cfg, trace: newTraceRing(cfg.TraceWindow)}
}

// LoadBoot runs a bare 256-byte boot image from 0x0000. Nothing but the
// image and its unmap control is addressable.
func (m *Machine) LoadBoot(image []byte) error {
	b, err := bus.NewBoot(image)
	if err != nil {
		return err
	}
	m.attach(cpu.New(b))
	return nil
}

// LoadProgram maps rom as a cartridge. With a boot image the CPU starts at
// 0x0000 inside it; without one registers take their post-boot values and
// execution starts at the cartridge entry point 0x0100.
func (m *Machine) LoadProgram(rom, boot []byte) error {
	// only fails for images without a header
	h, _ := cart.ParseHeader(rom)
	b := bus.NewSystem(rom)
	c := cpu.New(b)
	if len(boot) > 0 {
		if err := b.SetBootImage(boot); err != nil {
			return err
		}
		c.SP = 0xFFFE
		c.SetPC(0x0000)
	} else {
		c.Reset()
		c.SetPC(0x0100)
	}
	m.attach(c)
	m.header = h
	return nil
}

// LoadFlat places code at 0x0000 of a writable bus of size bytes (a size
// outside 1..65536 means the full address space).
func (m *Machine) LoadFlat(code []byte, size int) error {
	f := bus.NewFlat(size)
	if len(code) > f.Size() {
		return fmt.Errorf("program is %d bytes, bus holds %d: %w", len(code), f.Size(), bus.ErrUnmappedAccess)
	}
	for i, v := range code {
		if err := f.WriteByte(uint16(i), v); err != nil {
			return err
		}
	}
	m.attach(cpu.New(f))
	return nil
}

// LoadFiles reads a cartridge and an optional boot image from disk.
func (m *Machine) LoadFiles(romPath, bootPath string) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}
	var boot []byte
	if bootPath != "" {
		if boot, err = os.ReadFile(bootPath); err != nil {
			return fmt.Errorf("read bootrom: %w", err)
		}
	}
	if err := m.LoadProgram(rom, boot); err != nil {
		return fmt.Errorf("load %s: %w", romPath, err)
	}
	m.romPath = romPath
	return nil
}

func (m *Machine) attach(c *cpu.CPU) {
	m.cpu = c
	m.romPath = ""
	m.header = nil
	m.trace.reset()
}

// ROMPath returns the file the current program came from, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// Header returns the cartridge header of the loaded program, or nil when it
// is too short to have one.
func (m *Machine) Header() *cart.Header { return m.header }

// CPU exposes the live engine. Nil until something is loaded.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Snapshot returns an independent copy of the current CPU and bus.
func (m *Machine) Snapshot() *cpu.CPU {
	if m.cpu == nil {
		return nil
	}
	return m.cpu.CopyState()
}

// Step executes one instruction.
func (m *Machine) Step() (int, error) {
	if m.cpu == nil {
		return 0, ErrNotLoaded
	}
	if !m.cfg.Trace {
		return m.cpu.Step()
	}
	te := m.begin()
	cycles, err := m.cpu.Step()
	te.Cycles = cycles
	te.Regs = m.cpu.Registers
	te.Err = err
	m.trace.push(te)
	return cycles, err
}

// Run executes up to steps instructions (Config.MaxSteps when steps <= 0)
// and stops at the first failure. The Result covers the instructions that
// completed before it.
func (m *Machine) Run(steps int) (Result, error) {
	if m.cpu == nil {
		return Result{}, ErrNotLoaded
	}
	if steps <= 0 {
		steps = m.cfg.MaxSteps
	}
	var res Result
	start := m.cpu.Cycles
	for res.Steps < steps {
		pc := m.cpu.PC
		if _, err := m.Step(); err != nil {
			res.Cycles = m.cpu.Cycles - start
			return res, fmt.Errorf("step %d at %#04x: %w", res.Steps+1, pc, err)
		}
		res.Steps++
	}
	res.Cycles = m.cpu.Cycles - start
	return res, nil
}
