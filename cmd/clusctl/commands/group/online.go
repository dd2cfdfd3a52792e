package group

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var onlineCmd = &cobra.Command{
	Use:   "online <group>",
	Short: "Bring a group online",
	Long: `Request that a group and all its resources be brought online on
the current owner node.`,
	Args: cobra.ExactArgs(1),
	RunE: runOnline,
}

func runOnline(cmd *cobra.Command, args []string) error {
	name := args[0]

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

	if err := g.Online(); err != nil {
		return fmt.Errorf("failed to bring group %q online: %w", name, err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Group '%s' coming online", name))
	return nil
}
