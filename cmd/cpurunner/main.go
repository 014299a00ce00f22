package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	startPC := flag.Int("pc", -1, "initial PC value (default: 0x0000 with a boot ROM, 0x0100 without)")
	trace := flag.Bool("trace", false, "print every executed instruction")
	traceWindow := flag.Int("traceWindow", 200, "number of recent instructions to print when a step fails")
	interactive := flag.Bool("interactive", false, "wait for Enter between instructions (stdin must be a terminal)")
	memvizPath := flag.String("memviz", "", "write a Graphviz dump of the final CPU state and its snapshot to this file")
	stats := flag.Bool("statsview", false, "serve runtime statistics while running")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "-rom is required")
		flag.Usage()
		os.Exit(2)
	}
	if *startPC > 0xFFFF {
		fmt.Fprintf(os.Stderr, "-pc %#x out of range\n", *startPC)
		os.Exit(2)
	}

	cfg := emu.Config{Trace: true, TraceWindow: *traceWindow, MaxSteps: *steps}
	cfg.Defaults()
	m := emu.New(cfg)
	if err := m.LoadFiles(*romPath, *bootPath); err != nil {
		log.Fatalf("%v", err)
	}
	if h := m.Header(); h != nil {
		log.Printf("cartridge %s", h)
		if h.Banked() {
			log.Printf("warning: bank switching is not emulated; only the first 32 KiB are mapped")
		}
		if !h.ChecksumOK {
			log.Printf("warning: header checksum mismatch")
		}
	}
	if *startPC >= 0 {
		m.CPU().SetPC(uint16(*startPC))
	}

	if *stats {
		launchStatsview(os.Stdout)
	}

	var prompt *bufio.Reader
	if *interactive {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			prompt = bufio.NewReader(os.Stdin)
		} else {
			log.Printf("-interactive ignored: stdin is not a terminal")
		}
	}

	start := time.Now()
	var cycles uint64
	done := 0
	for ; done < cfg.MaxSteps; done++ {
		if prompt != nil {
			fmt.Printf("%04X  %s  (Enter to step) ", m.CPU().PC, m.CPU().Disassemble())
			if _, err := prompt.ReadString('\n'); err != nil {
				break
			}
		}
		cyc, err := m.Step()
		if err != nil {
			fmt.Printf("\nstep %d failed: %v\n", done+1, err)
			if werr := m.WriteTrace(os.Stdout); werr != nil {
				log.Printf("write trace: %v", werr)
			}
			dumpMemviz(m, *memvizPath)
			fmt.Printf("\nDone: steps=%d cycles=%d elapsed=%s\n", done, cycles, time.Since(start).Truncate(time.Millisecond))
			os.Exit(1)
		}
		cycles += uint64(cyc)
		if *trace || prompt != nil {
			tr := m.Trace()
			fmt.Println(tr[len(tr)-1])
		}
	}
	dumpMemviz(m, *memvizPath)
	fmt.Printf("\nDone: steps=%d cycles=%d elapsed=%s\n", done, cycles, time.Since(start).Truncate(time.Millisecond))
}

func dumpMemviz(m *emu.Machine, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Printf("memviz: %v", err)
		return
	}
	defer f.Close()
	if err := m.DumpSnapshot(f); err != nil {
		log.Printf("memviz: %v", err)
	}
}
