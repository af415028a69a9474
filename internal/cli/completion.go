package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stitchgrid.

Bash:
  $ source <(stitchgrid completion bash)

Zsh:
  $ stitchgrid completion zsh > "${fpath[1]}/_stitchgrid"

Fish:
  $ stitchgrid completion fish > ~/.config/fish/completions/stitchgrid.fish

PowerShell:
  PS> stitchgrid completion powershell | Out-String | Invoke-Expression

Gallery IDs complete for 'gallery show', 'gallery render' and 'gallery delete'.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeGalleryIDs completes the first argument with the IDs of the local
// gallery, described by their names.
func completeGalleryIDs(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := openGallery()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), 0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]cobra.Completion, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, cobra.CompletionWithDesc(e.ID, e.Name))
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
