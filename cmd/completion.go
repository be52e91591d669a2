package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/storage"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for lookback.

The completion command allows you to generate shell completion scripts for
bash, zsh, fish, and powershell. This enables tab-completion for commands,
flags, and arguments in your shell.

Usage:
  lookback completion bash       Generate bash completion script
  lookback completion zsh        Generate zsh completion script
  lookback completion fish       Generate fish completion script
  lookback completion powershell Generate powershell completion script

Installation Instructions:

Bash:
  # Load completion temporarily (current session only):
  source <(lookback completion bash)

  # Install completion permanently:
  # Linux:
  lookback completion bash > ~/.local/share/bash-completion/completions/lookback

  # macOS (requires bash-completion from Homebrew):
  lookback completion bash > $(brew --prefix)/etc/bash_completion.d/lookback

Zsh:
  # Load completion temporarily (current session only):
  source <(lookback completion zsh)

  # Install completion permanently:
  # Add to ~/.zshrc:
  echo 'fpath=(~/.zsh/completion $fpath)' >> ~/.zshrc
  echo 'autoload -Uz compinit && compinit' >> ~/.zshrc

  # Generate completion file:
  mkdir -p ~/.zsh/completion
  lookback completion zsh > ~/.zsh/completion/_lookback

  # Then restart your shell

Fish:
  # Install completion permanently:
  lookback completion fish > ~/.config/fish/completions/lookback.fish

PowerShell:
  # Open your PowerShell profile:
  notepad $PROFILE

  # Add this line to your profile:
  lookback completion powershell | Out-String | Invoke-Expression

  # Save and restart PowerShell`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)

	for _, c := range []*cobra.Command{logCmd, describeCmd, showCmd} {
		c.ValidArgsFunction = completeActionRefs
	}
}

// completeActionRefs suggests action titles for the <action> argument.
// The journal file is only read, never opened through a Store, so
// completion cannot seed, quarantine or rewrite it.
func completeActionRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cfg, _, err := deps.LoadConfig(globalOptions())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveError
	}
	storagePath, err := storage.GetStoragePathIn(cfg.DataDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveError
	}
	data, err := storage.ReadFile(storagePath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	actions, err := journal.Decode(data)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	prefix := strings.ToLower(toComplete)
	var titles []string
	for _, action := range actions {
		if action.Title != "" && strings.HasPrefix(strings.ToLower(action.Title), prefix) {
			titles = append(titles, action.Title+"\t"+shortID(action.ID))
		}
	}
	return titles, cobra.ShellCompDirectiveNoFileComp
}

// generateCompletion generates the appropriate completion script based on shell type
func generateCompletion(shell string) {
	var err error

	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(deps.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(deps.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(deps.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(deps.Stdout)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintln(deps.Stderr, "Supported shells: bash, zsh, fish, powershell")
		deps.Exit(1)
		return
	}

	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
		return
	}
}
