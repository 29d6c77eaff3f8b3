package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for carousel.

Completions cover subcommands, flags and the values of --strategy,
--alignment and --format.

Bash:
  $ source <(carousel completion bash)
  $ carousel completion bash > /etc/bash_completion.d/carousel

Zsh:
  $ carousel completion zsh > "${fpath[1]}/_carousel"

Fish:
  $ carousel completion fish > ~/.config/fish/completions/carousel.fish

PowerShell:
  PS> carousel completion powershell | Out-String | Invoke-Expression
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

	return cmd
}

// flagValues lists the fixed values offered for enum flags.
var flagValues = map[string][]string{
	"strategy":  {"explicit", "uncontained", "multi-browse", "hero"},
	"alignment": {"start", "center", "end"},
	"format":    outputFormats,
}

// registerFlagCompletions offers flagValues on cmd and its subcommands.
func registerFlagCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	for _, sub := range cmd.Commands() {
		registerFlagCompletions(sub)
	}
}
