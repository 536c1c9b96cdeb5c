// Package cli команды game-catalog: сервер, миграции, администрирование и клиент API.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRoot корневая команда game-catalog
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "game-catalog",
		Short:         "Game catalog backend and API client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newUsersCmd())
	addClientCommands(root)

	comp := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
	root.AddCommand(comp)

	return root
}
