package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/xyproto/env/v2"

	"github.com/Shabari-K-S/codeflow-sub000/internal/logger"
	"github.com/Shabari-K-S/codeflow-sub000/internal/runner"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/color"
)

// Main entry point for the codeflow trace runner. Environment variables
// provide the flag defaults so CI setups can configure runs without
// touching the command line.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", env.Bool("CODEFLOW_VERBOSE"), "Verbose mode, prints variables and memory per step")
	flag.BoolVar(&options.JSON, "j", false, "Emit the trace as JSON")
	flag.BoolVar(&options.NoColor, "n", env.Bool("NO_COLOR"), "No color")
	flag.StringVar(&options.Lang, "l", "", "Source language (javascript, python, c); detected from the extension when empty")
	flag.StringVar(&options.Breakpoints, "b", "", "Breakpoint lines, comma separated (e.g. 3,7)")
	flag.StringVar(&options.Stdin, "i", "", "Input text consumed by scanf")
	flag.IntVar(&options.MaxSteps, "s", env.Int("CODEFLOW_MAX_STEPS", 0), "Step budget override (0 keeps the default)")
	flag.StringVar(&options.OutputFile, "o", "", "Write JSON trace to this file instead of stdout")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Run(); err != nil {
		log.Fatal("Trace failed", "error", err)
	}
}
