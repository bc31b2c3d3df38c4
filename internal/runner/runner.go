// Package runner drives one trace run end to end: it reads the source file,
// executes it and renders the resulting trace either as JSON (for the
// debugger UI) or as a colored step listing on the terminal.
package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/color"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/exec"
	"github.com/Shabari-K-S/codeflow-sub000/pkg/trace"
)

type Runner struct {
	Help        bool   // Show help message
	Verbose     bool   // Enable verbose output
	JSON        bool   // Emit the raw trace as JSON instead of the listing
	NoColor     bool   // Disable colored output
	Lang        string // Source language, empty means detect from extension
	Breakpoints string // Comma-separated 1-based line numbers
	Stdin       string // Input consumed by scanf
	MaxSteps    int    // Step budget override, 0 keeps the default
	SourceFile  string // Path to the source file
	OutputFile  string // Path for JSON output, empty means stdout
}

// Run executes the source file and renders the trace per the options.
func (opts *Runner) Run() error {
	log.Info("Tracing file", "file", opts.SourceFile)

	input, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.SourceFile, err)
	}

	lang := opts.Lang
	if lang == "" {
		lang, err = DetectLang(opts.SourceFile)
		if err != nil {
			return err
		}
	}

	bps, err := parseBreakpoints(opts.Breakpoints)
	if err != nil {
		return err
	}

	var execOpts []exec.Option
	if opts.MaxSteps > 0 {
		execOpts = append(execOpts, exec.WithMaxSteps(opts.MaxSteps))
	}
	if opts.Stdin != "" {
		execOpts = append(execOpts, exec.WithStdin(opts.Stdin))
	}

	t := exec.Execute(string(input), lang, bps, execOpts...)

	if opts.JSON {
		return opts.writeJSON(t)
	}
	opts.render(t)
	if t.HasError {
		return fmt.Errorf("program failed: %s", t.ErrorMessage)
	}
	return nil
}

// DetectLang maps a source file extension to its language name.
func DetectLang(path string) (string, error) {
	switch filepath.Ext(path) {
	case ".js":
		return exec.LangJavaScript, nil
	case ".py":
		return exec.LangPython, nil
	case ".c":
		return exec.LangC, nil
	default:
		return "", fmt.Errorf("cannot detect language of %q, use -l", path)
	}
}

func parseBreakpoints(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(spec, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad breakpoint %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func (opts *Runner) writeJSON(t *trace.Trace) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if opts.OutputFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(opts.OutputFile, data, 0o644)
}

// render prints a human-readable step listing.
func (opts *Runner) render(t *trace.Trace) {
	fmt.Println(color.GreenText("=== Execution Trace ==="))

	for _, s := range t.Steps {
		marker := " "
		if s.IsBreakpoint {
			marker = color.BrightRedText("●")
		}
		fmt.Printf("%s %s %s %s\n",
			color.CyanText(fmt.Sprintf("#%-4d", s.StepIndex)),
			marker,
			color.Position(s.LineNumber, 0),
			color.Code(s.Code))

		if opts.Verbose {
			for _, v := range s.Variables {
				fmt.Printf("        %s = %v %s\n",
					color.YellowText(v.Name), v.Value, color.GrayText("("+v.Type+")"))
			}
			if s.Memory != nil {
				opts.renderMemory(s.Memory)
			}
		}
		if s.Output != "" {
			for _, line := range strings.Split(s.Output, "\n") {
				fmt.Printf("        %s %s\n", color.BlueText(">"), line)
			}
		}
	}

	fmt.Println(color.GreenText("\n=== Program Output ==="))
	if len(t.Output) == 0 {
		fmt.Println(color.GrayText("(no output)"))
	}
	for _, line := range t.Output {
		fmt.Println(line)
	}

	if t.HasError {
		fmt.Println(color.Error(t.ErrorMessage))
	} else if opts.Verbose {
		fmt.Println(color.Success(fmt.Sprintf("%d steps", t.TotalSteps)))
	}
}

func (opts *Runner) renderMemory(m *trace.MemorySnapshot) {
	if len(m.Heap) == 0 {
		return
	}
	fmt.Printf("        %s heap=%dB stack=%dB allocs=%d frees=%d\n",
		color.GrayText("mem:"), m.HeapUsed, m.StackUsed, m.AllocCount, m.FreeCount)
	for _, b := range m.Heap {
		state := "live"
		if b.Freed {
			state = "freed"
		}
		fmt.Printf("          %s %s %dB %s\n",
			color.CyanText(fmt.Sprintf("0x%X", b.Address)),
			color.YellowText(b.ElemType), b.Size, color.GrayText(state))
	}
}
