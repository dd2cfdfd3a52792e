package node

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var pauseCmd = &cobra.Command{
	Use:   "pause <node>",
	Short: "Pause a node",
	Long: `Pause a cluster node.

A paused node keeps its current groups but no new groups are placed on it.

Examples:
  # Pause with confirmation
  clusctl node pause node2

  # Pause without prompting
  clusctl node pause node2 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runPause,
}

func runPause(cmd *cobra.Command, args []string) error {
	name := args[0]
	return cmdutil.RunWithConfirmation(fmt.Sprintf("Pause node '%s'?", name), func() error {
		s, err := cmdutil.OpenSession()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		n, err := s.OpenNode(name)
		if err != nil {
			return err
		}
		defer func() { _ = n.Close() }()

		if err := n.Pause(); err != nil {
			return fmt.Errorf("failed to pause node %q: %w", name, err)
		}

		cmdutil.PrintSuccess(fmt.Sprintf("Node '%s' paused", name))
		return nil
	})
}
