package exec_test

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Shabari-K-S/codeflow-sub000/pkg/exec"
)

type fixture struct {
	Name   string   `yaml:"name"`
	Lang   string   `yaml:"lang"`
	Source string   `yaml:"source"`
	Stdin  string   `yaml:"stdin"`
	Output []string `yaml:"output"`
	Error  string   `yaml:"error"`
}

type fixtureFile struct {
	Fixtures []fixture `yaml:"fixtures"`
}

func TestProgramFixtures(t *testing.T) {
	data, err := os.ReadFile("testdata/programs.yaml")
	if err != nil {
		t.Fatalf("failed to read fixtures: %v", err)
	}
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("failed to parse fixtures: %v", err)
	}
	if len(file.Fixtures) == 0 {
		t.Fatal("no fixtures loaded")
	}

	for _, fx := range file.Fixtures {
		t.Run(fx.Name, func(t *testing.T) {
			var opts []exec.Option
			if fx.Stdin != "" {
				opts = append(opts, exec.WithStdin(fx.Stdin))
			}
			tr := exec.Execute(fx.Source, fx.Lang, nil, opts...)

			if fx.Error != "" {
				if !tr.HasError {
					t.Fatalf("expected error containing %q, run succeeded", fx.Error)
				}
				if !strings.Contains(tr.ErrorMessage, fx.Error) {
					t.Errorf("expected error containing %q, got %q", fx.Error, tr.ErrorMessage)
				}
				return
			}

			if tr.HasError {
				t.Fatalf("unexpected error: %s", tr.ErrorMessage)
			}
			if !reflect.DeepEqual(tr.Output, fx.Output) {
				t.Errorf("expected output %v, got %v", fx.Output, tr.Output)
			}
		})
	}
}
