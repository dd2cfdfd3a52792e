package node

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	"github.com/clusproject/clus/pkg/cluster"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cluster nodes",
	Long: `List all cluster nodes with their current states.

Examples:
  # List nodes as table
  clusctl node list

  # List as JSON
  clusctl node list -o json`,
	RunE: runList,
}

// NodeEntry is one node row for all output formats.
type NodeEntry struct {
	Name  string            `json:"name" yaml:"name"`
	State cluster.NodeState `json:"state" yaml:"state"`
}

// NodeList is a list of nodes for table rendering.
type NodeList []NodeEntry

// Headers implements TableRenderer.
func (nl NodeList) Headers() []string {
	return []string{"NAME", "STATE"}
}

// Rows implements TableRenderer.
func (nl NodeList) Rows() [][]string {
	rows := make([][]string, 0, len(nl))
	for _, n := range nl {
		rows = append(rows, []string{n.Name, n.State.String()})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := cmdutil.OpenSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	nodes, err := s.Nodes()
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}
	defer closeAll(nodes)

	entries := make(NodeList, 0, len(nodes))
	for _, n := range nodes {
		state, err := n.State()
		if err != nil {
			return err
		}
		entries = append(entries, NodeEntry{Name: n.Name(), State: state})
	}

	return cmdutil.PrintOutput(os.Stdout, entries, len(entries) == 0, "No nodes found.", entries)
}

func closeAll[T interface{ Close() error }](batch []T) {
	for _, item := range batch {
		_ = item.Close()
	}
}
