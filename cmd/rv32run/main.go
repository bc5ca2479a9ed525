// Command rv32run loads a RISC-V RV32I ELF executable and runs it on a
// single hart, the successor to the teacher's cmd/vm and cmd/interp
// flag-based binaries, upgraded to a cobra command tree.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bassosimone/rv32core/pkg/hart"
	"github.com/bassosimone/rv32core/pkg/isa"
	"github.com/bassosimone/rv32core/pkg/loader"
	"github.com/bassosimone/rv32core/pkg/trace"
)

var (
	flagVerbose bool
	flagDebug   bool
	flagTTY     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rv32run",
		Short: "Run RISC-V RV32I executables on a single-hart simulator",
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "trace every step")
	root.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "pause before every step")
	root.PersistentFlags().BoolVar(&flagTTY, "tty", false, "attach a console peripheral over TCP")
	root.AddCommand(newRunCmd())
	root.AddCommand(newStepCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <executable>",
		Short: "Run an executable to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(args[0], false)
		},
	}
}

func newStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step <executable>",
		Short: "Run an executable, pausing for Enter before each instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(args[0], true)
		},
	}
}

func runLoop(path string, forceStep bool) error {
	segments, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	h, err := hart.New(hart.DefaultConfig())
	if err != nil {
		return err
	}
	if err := h.Load(segments); err != nil {
		return err
	}
	if flagTTY {
		console, err := hart.AcceptConsole()
		if err != nil {
			return err
		}
		defer console.Close()
		if err := h.AttachConsole(hart.DefaultConfig().SimControlBase+0x10, console); err != nil {
			return err
		}
	}

	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	tracer := trace.New(level)
	stdin := bufio.NewReader(os.Stdin)

	for {
		pc := h.PC.Read()
		if word, ferr := h.Bus.Read(pc, 4); ferr == nil && (flagVerbose || h.DebugFlags&hart.DebugTracing != 0) {
			if instr, derr := isa.Decode(word); derr == nil {
				tracer.Step(pc, instr)
			}
		}
		if flagDebug || forceStep || h.DebugFlags&hart.DebugStepping != 0 {
			fmt.Fprint(os.Stderr, "paused, press Enter to continue...")
			stdin.ReadString('\n')
		}
		if h.Console != nil {
			if err := h.Console.Poll(); err != nil {
				return err
			}
		}
		if err := h.Step(); err != nil {
			if errors.Is(err, hart.ErrHalted) {
				return nil
			}
			tracer.Fault(pc, err)
			return err
		}
	}
}
