package runner

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/exec"
)

func TestDetectLang(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"script.js", exec.LangJavaScript},
		{"main.py", exec.LangPython},
		{"prog.c", exec.LangC},
	}
	for _, test := range tests {
		got, err := DetectLang(test.path)
		if err != nil {
			t.Errorf("DetectLang(%s) failed: %v", test.path, err)
		}
		if got != test.want {
			t.Errorf("DetectLang(%s) = %q, want %q", test.path, got, test.want)
		}
	}
}

func TestDetectLangUnknownExtension(t *testing.T) {
	_, err := DetectLang("prog.rb")
	if err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
	if !strings.Contains(err.Error(), "-l") {
		t.Errorf("error should suggest the -l flag, got %v", err)
	}
}

func TestParseBreakpoints(t *testing.T) {
	tests := []struct {
		spec    string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"3", []int{3}, false},
		{"1,5, 9", []int{1, 5, 9}, false},
		{"0", nil, true},
		{"a,2", nil, true},
	}
	for _, test := range tests {
		got, err := parseBreakpoints(test.spec)
		if test.wantErr {
			if err == nil {
				t.Errorf("parseBreakpoints(%q) should fail", test.spec)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBreakpoints(%q) failed: %v", test.spec, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("parseBreakpoints(%q) = %v, want %v", test.spec, got, test.want)
		}
	}
}

func TestRunWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "p.js")
	out := filepath.Join(dir, "trace.json")
	if err := os.WriteFile(src, []byte("var x = 1;\nconsole.log(x);"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &Runner{JSON: true, SourceFile: src, OutputFile: out}
	if err := opts.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	for _, key := range []string{`"steps"`, `"output"`, `"totalSteps"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON output missing %s", key)
		}
	}
}

func TestRunReportsProgramError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "p.c")
	source := `int main() {
    int *p = NULL;
    *p = 1;
    return 0;
}`
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &Runner{
		JSON:       true,
		SourceFile: src,
		OutputFile: filepath.Join(dir, "trace.json"),
	}
	if err := opts.Run(); err != nil {
		t.Fatalf("JSON mode must still succeed on program faults: %v", err)
	}

	opts = &Runner{SourceFile: src}
	err := opts.Run()
	if err == nil {
		t.Fatal("listing mode must surface the program fault")
	}
	if !strings.Contains(err.Error(), "segmentation fault") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRunMissingFile(t *testing.T) {
	opts := &Runner{SourceFile: "/does/not/exist.js"}
	if err := opts.Run(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
