package node

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <node>",
	Short: "Resume a paused node",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

func runResume(cmd *cobra.Command, args []string) error {
	name := args[0]

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

	if err := n.Resume(); err != nil {
		return fmt.Errorf("failed to resume node %q: %w", name, err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Node '%s' resumed", name))
	return nil
}
