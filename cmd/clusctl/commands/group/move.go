package group

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	"github.com/clusproject/clus/internal/cli/prompt"
	"github.com/clusproject/clus/pkg/cluster"
)

var moveCmd = &cobra.Command{
	Use:   "move <group> [node]",
	Short: "Move a group to another node",
	Long: `Move a group and all its resources to another node.

When no destination node is given, the command lists the other cluster
nodes and prompts for a choice.

The move is asynchronous: the command returns once the cluster accepts
the request. Use 'clusctl group list' to watch the owner change.

Examples:
  # Move to a named node
  clusctl group move sql node2

  # Pick the destination interactively
  clusctl group move sql

  # Move without confirmation
  clusctl group move sql node2 --yes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
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

	var target string
	if len(args) == 2 {
		target = args[1]
	} else {
		target, err = pickDestination(s, g)
		if err != nil {
			if prompt.IsAborted(err) {
				fmt.Println("\nAborted.")
				return nil
			}
			return err
		}
	}

	return cmdutil.RunWithConfirmation(fmt.Sprintf("Move group '%s' to node '%s'?", name, target), func() error {
		n, err := s.OpenNode(target)
		if err != nil {
			return err
		}
		defer func() { _ = n.Close() }()

		if err := g.MoveTo(n); err != nil {
			return fmt.Errorf("failed to move group %q to %q: %w", name, target, err)
		}

		cmdutil.PrintSuccess(fmt.Sprintf("Group '%s' moving to node '%s'", name, target))
		return nil
	})
}

// pickDestination prompts for a destination node, excluding the group's
// current owner.
func pickDestination(s *cluster.Session, g *cluster.Group) (string, error) {
	_, owner, err := g.State()
	if err != nil {
		return "", err
	}

	nodes, err := s.Nodes()
	if err != nil {
		return "", err
	}
	defer closeAll(nodes)

	candidates := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Name() != owner {
			candidates = append(candidates, n.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no other nodes to move to")
	}

	return prompt.SelectString("Destination node", candidates)
}
