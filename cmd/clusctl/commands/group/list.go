package group

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	"github.com/clusproject/clus/pkg/cluster"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cluster groups",
	Long: `List all cluster groups with their states and owner nodes.

Examples:
  # List groups as table
  clusctl group list

  # List as JSON
  clusctl group list -o json`,
	RunE: runList,
}

// GroupEntry is one group row for all output formats.
type GroupEntry struct {
	Name  string             `json:"name" yaml:"name"`
	State cluster.GroupState `json:"state" yaml:"state"`
	Owner string             `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// GroupList is a list of groups for table rendering.
type GroupList []GroupEntry

// Headers implements TableRenderer.
func (gl GroupList) Headers() []string {
	return []string{"NAME", "STATE", "OWNER"}
}

// Rows implements TableRenderer.
func (gl GroupList) Rows() [][]string {
	rows := make([][]string, 0, len(gl))
	for _, g := range gl {
		rows = append(rows, []string{g.Name, g.State.String(), cmdutil.EmptyOr(g.Owner, "-")})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := cmdutil.OpenSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	groups, err := s.Groups()
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	defer closeAll(groups)

	entries := make(GroupList, 0, len(groups))
	for _, g := range groups {
		state, owner, err := g.State()
		if err != nil {
			return err
		}
		entries = append(entries, GroupEntry{Name: g.Name(), State: state, Owner: owner})
	}

	return cmdutil.PrintOutput(os.Stdout, entries, len(entries) == 0, "No groups found.", entries)
}

func closeAll[T interface{ Close() error }](batch []T) {
	for _, item := range batch {
		_ = item.Close()
	}
}
