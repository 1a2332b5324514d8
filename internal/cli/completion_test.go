package cli

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg", "png", "json"}},
		{"svg,", []string{"svg,png", "svg,json"}},
		{"svg,png,", []string{"svg,png,json"}},
	}
	for _, tt := range tests {
		got, dir := completeFormats(nil, nil, tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("completeFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
		if dir&cobra.ShellCompDirectiveNoFileComp == 0 {
			t.Errorf("completeFormats(%q) should not complete files", tt.in)
		}
	}
}

func TestCompleteInputFile(t *testing.T) {
	exts, dir := completeInputFile(nil, nil, "")
	if dir != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("directive = %v, want FilterFileExt", dir)
	}
	if diff := cmp.Diff([]string{"csv", "json", "yaml", "yml"}, exts); diff != "" {
		t.Errorf("extensions mismatch (-want +got):\n%s", diff)
	}

	if got, _ := completeInputFile(nil, []string{"a.csv"}, ""); got != nil {
		t.Errorf("second argument should not complete, got %v", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "chordwheel") {
		t.Error("bash completion should mention the program name")
	}
}
