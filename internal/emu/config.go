package emu

// Config contains settings that affect how a Machine runs programs.
type Config struct {
	Trace       bool // record executed instructions
	TraceWindow int  // number of recent instructions kept when tracing
	MaxSteps    int  // step budget used by Run when it is given none
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.TraceWindow <= 0 {
		c.TraceWindow = 200
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 5_000_000
	}
}
