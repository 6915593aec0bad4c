// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/ezrec/hmasm/asm"
	"github.com/ezrec/hmasm/diag"
	"github.com/ezrec/hmasm/emulator"
	"github.com/ezrec/hmasm/translate"
)

var (
	verbose bool
	lang    []string
)

var rootCmd = &cobra.Command{
	Use:   "hmasm",
	Short: "Minimalmaschine assembler and simulator",
	Long: `Hmasm assembles programs for the Minimalmaschine, a 4-bit accumulator
machine with sixteen words of program memory and sixteen cells of data
memory, and simulates them cycle by cycle.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if len(lang) != 0 {
			translate.Use(lang...)
		}
	},
}

var dump bool

var compileCmd = &cobra.Command{
	Use:   "compile sourceFile",
	Short: "Assemble a program, and print its listing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prog := compile(args[0])

		if dump {
			fmt.Print(prog.Dump())
		} else {
			fmt.Println(prog.String())
		}
	},
}

var (
	cycles     int
	html       bool
	configFile string
	memorySize int
	preload    bool
	overrun    string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate sourceFile",
	Short: "Assemble and run a program, and print the trace of every cycle",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		prog := compile(args[0])

		emu, err := emulator.NewEmulator(cfg)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
		emu.Load(prog)

		trace, err := emu.Run(cycles)
		if trace != nil {
			if html {
				fmt.Println(trace.HTML())
			} else {
				fmt.Println(trace.String())
			}
		}
		if err != nil {
			report(args[0], err)
			atexit.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	rootCmd.PersistentFlags().StringSliceVar(&lang, "lang", nil, "Message languages, in order of preference")

	compileCmd.Flags().BoolVar(&dump, "dump", false, "Print data and program memory nibbles instead of a listing")

	simulateCmd.Flags().IntVarP(&cycles, "cycles", "c", 32, "Cycles to simulate")
	simulateCmd.Flags().BoolVar(&html, "html", false, "Print the trace as an HTML table")
	simulateCmd.Flags().StringVar(&configFile, "config", "", "YAML machine configuration")
	simulateCmd.Flags().IntVar(&memorySize, "memory-size", 0, "Data memory cells")
	simulateCmd.Flags().BoolVar(&preload, "preload", false, "Preload operand nibbles into data memory")
	simulateCmd.Flags().StringVar(&overrun, "overrun", "", "Program counter overrun policy: halt or fault")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(simulateCmd)
}

// loadConfig reads the configuration file, if any. Flags that were set
// override its values.
func loadConfig(cmd *cobra.Command) (cfg emulator.Config) {
	cfg = emulator.DefaultConfig()

	if len(configFile) != 0 {
		inf, err := os.Open(configFile)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
		defer inf.Close()

		cfg, err = emulator.LoadConfig(inf)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("memory-size") {
		cfg.MemorySize = memorySize
	}
	if flags.Changed("preload") {
		cfg.PreloadData = preload
	}
	if flags.Changed("overrun") {
		cfg.Overrun = overrun
	}
	if verbose {
		cfg.Verbose = true
	}

	return
}

// compile assembles a source file, exiting on any error.
func compile(path string) (prog *asm.Program) {
	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: verbose}
	prog, err = assembler.Parse(inf)
	if err != nil {
		report(path, err)
		atexit.Exit(1)
	}

	for _, warn := range prog.Warnings {
		fmt.Fprintf(os.Stderr, "%v: %v\n", path, warn)
	}

	return
}

// report prints diagnostics, one per line.
func report(path string, err error) {
	var diags diag.List
	if !errors.As(err, &diags) {
		fmt.Fprintf(os.Stderr, "%v: %v\n", path, err)
		return
	}

	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%v: %v\n", path, d)
	}
}

func main() {
	log.SetFlags(0)

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(2)
	}

	atexit.Exit(0)
}
