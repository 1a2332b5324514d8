package cli

import (
	"strings"

	"github.com/spf13/cobra"

	chordio "github.com/matzehuels/chordwheel/pkg/io"
)

// inputExtensions are offered when completing a relationship file argument.
var inputExtensions = []string{
	strings.TrimPrefix(chordio.ExtCSV, "."),
	strings.TrimPrefix(chordio.ExtJSON, "."),
	strings.TrimPrefix(chordio.ExtYAML, "."),
	strings.TrimPrefix(chordio.ExtYML, "."),
}

// completeInputFile completes the single relationship file argument of
// render, layout and inspect.
func completeInputFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return inputExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the comma-separated --format value.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	var out []string
	for _, f := range []string{"svg", "png", "json"} {
		if !strings.Contains(prefix, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for chordwheel.

Relationship file arguments complete to .csv, .json and .yaml files, and
--format completes to svg, png and json.

  $ source <(chordwheel completion bash)
  $ chordwheel completion zsh > "${fpath[1]}/_chordwheel"
  $ chordwheel completion fish > ~/.config/fish/completions/chordwheel.fish
  PS> chordwheel completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
}
