package group

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var offlineCmd = &cobra.Command{
	Use:   "offline <group>",
	Short: "Take a group offline",
	Long: `Request that a group and all its resources be taken offline.

Examples:
  # Offline with confirmation
  clusctl group offline sql

  # Offline without prompting
  clusctl group offline sql --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runOffline,
}

func runOffline(cmd *cobra.Command, args []string) error {
	name := args[0]
	return cmdutil.RunWithConfirmation(fmt.Sprintf("Take group '%s' offline?", name), func() error {
		s, err := cmdutil.OpenSession()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		g, err := s.OpenGroup(name)
		if err != nil {
			return err
		}
		defer func() { _ = g.Close() }()

		if err := g.Offline(); err != nil {
			return fmt.Errorf("failed to take group %q offline: %w", name, err)
		}

		cmdutil.PrintSuccess(fmt.Sprintf("Group '%s' going offline", name))
		return nil
	})
}
