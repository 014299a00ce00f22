package emu

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// DumpSnapshot writes a Graphviz dot graph of the live CPU next to a fresh
// snapshot of it. The two trees share no nodes.
func (m *Machine) DumpSnapshot(w io.Writer) error {
	if m.cpu == nil {
		return ErrNotLoaded
	}
	memviz.Map(w, m.cpu, m.cpu.CopyState())
	return nil
}
