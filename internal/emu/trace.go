package emu

import (
	"fmt"
	"io"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
)

// TraceEntry records one executed (or attempted) instruction.
type TraceEntry struct {
	PC       uint16
	Opcode   byte
	CB       byte // sub-opcode when Opcode is the CB prefix
	Mnemonic string
	Cycles   int
	Regs     cpu.Registers // state after the instruction
	Err      error
}

func (te TraceEntry) String() string {
	op := fmt.Sprintf("%02X   ", te.Opcode)
	if te.Opcode == cpu.OpPrefixCB {
		op = fmt.Sprintf("CB %02X", te.CB)
	}
	s := fmt.Sprintf("PC=%04X OP=%s %-14s cyc=%-2d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X",
		te.PC, op, te.Mnemonic, te.Cycles, te.Regs.A, te.Regs.F, te.Regs.B, te.Regs.C,
		te.Regs.D, te.Regs.E, te.Regs.H, te.Regs.L, te.Regs.SP)
	if te.Err != nil {
		s += " err=" + te.Err.Error()
	}
	return s
}

// begin captures the part of an entry that must be read before executing.
func (m *Machine) begin() TraceEntry {
	te := TraceEntry{PC: m.cpu.PC, Mnemonic: "??"}
	op, cb, err := m.cpu.Peek()
	if err == nil {
		te.Opcode, te.CB = op, cb
		te.Mnemonic = cpu.Mnemonic(op, cb)
	}
	return te
}

// traceRing keeps the most recent entries.
type traceRing struct {
	buf  []TraceEntry
	idx  int
	fill int
}

func newTraceRing(n int) traceRing {
	return traceRing{buf: make([]TraceEntry, n)}
}

func (r *traceRing) push(te TraceEntry) {
	if len(r.buf) == 0 {
		return
	}
	r.buf[r.idx] = te
	r.idx = (r.idx + 1) % len(r.buf)
	if r.fill < len(r.buf) {
		r.fill++
	}
}

func (r *traceRing) reset() { r.idx, r.fill = 0, 0 }

// entries returns the ring in chronological order.
func (r *traceRing) entries() []TraceEntry {
	out := make([]TraceEntry, 0, r.fill)
	n := len(r.buf)
	start := (r.idx - r.fill + n) % max(n, 1)
	for j := 0; j < r.fill; j++ {
		out = append(out, r.buf[(start+j)%n])
	}
	return out
}

// Trace returns recently executed instructions, oldest first. It is empty
// unless Config.Trace is set.
func (m *Machine) Trace() []TraceEntry { return m.trace.entries() }

// WriteTrace prints the recent trace, one instruction per line.
func (m *Machine) WriteTrace(w io.Writer) error {
	entries := m.Trace()
	if len(entries) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "--- recent trace (last %d instructions) ---\n", len(entries)); err != nil {
		return err
	}
	for _, te := range entries {
		if _, err := fmt.Fprintln(w, te); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "--- end trace ---")
	return err
}
