package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillflow/pkg/workflow"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for skillflow.

Bash:
  $ source <(skillflow completion bash)

Zsh:
  $ skillflow completion zsh > "${fpath[1]}/_skillflow"

Fish:
  $ skillflow completion fish | source

PowerShell:
  PS> skillflow completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// completeKindArg completes the <kind> argument of `node add`.
func completeKindArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var out []string
	for _, k := range workflow.Kinds() {
		if strings.HasPrefix(k.String(), strings.ToLower(toComplete)) {
			out = append(out, k.String()+"\t"+k.DefaultDescription())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeNodeArgs completes up to n node references following the
// <file> argument, reading the project file named by args[0].
func completeNodeArgs(n int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return nil, cobra.ShellCompDirectiveDefault
		}
		if len(args) > n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		p, err := loadProject(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return nodeRefs(p, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// nodeRefs lists a reference for every node matching prefix: the title when
// it is unique, otherwise the full id.
func nodeRefs(p workflow.Project, prefix string) []string {
	titles := make(map[string]int, len(p.Nodes))
	for _, n := range p.Nodes {
		titles[n.Title]++
	}
	var out []string
	for _, n := range p.Nodes {
		ref := n.ID
		if titles[n.Title] == 1 && n.Title != "" {
			ref = n.Title
		}
		if strings.HasPrefix(ref, prefix) {
			out = append(out, ref+"\t"+n.Kind.Label())
		}
	}
	return out
}
