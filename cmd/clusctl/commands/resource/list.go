package resource

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	"github.com/clusproject/clus/pkg/cluster"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cluster resources",
	Long: `List all cluster resources with their states and owner nodes.

Examples:
  # List resources as table
  clusctl resource list

  # List as YAML
  clusctl resource list -o yaml`,
	RunE: runList,
}

// ResourceEntry is one resource row for all output formats.
type ResourceEntry struct {
	Name  string                `json:"name" yaml:"name"`
	State cluster.ResourceState `json:"state" yaml:"state"`
	Owner string                `json:"owner,omitempty" yaml:"owner,omitempty"`
	CSV   bool                  `json:"csv" yaml:"csv"`
}

// ResourceList is a list of resources for table rendering.
type ResourceList []ResourceEntry

// Headers implements TableRenderer.
func (rl ResourceList) Headers() []string {
	return []string{"NAME", "STATE", "OWNER", "CSV"}
}

// Rows implements TableRenderer.
func (rl ResourceList) Rows() [][]string {
	rows := make([][]string, 0, len(rl))
	for _, r := range rl {
		rows = append(rows, []string{
			r.Name,
			r.State.String(),
			cmdutil.EmptyOr(r.Owner, "-"),
			cmdutil.BoolToYesNo(r.CSV),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := cmdutil.OpenSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	resources, err := s.Resources()
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}
	defer closeAll(resources)

	entries := make(ResourceList, 0, len(resources))
	for _, r := range resources {
		state, owner, err := r.State()
		if err != nil {
			return err
		}
		csv, err := r.IsSharedVolume()
		if err != nil {
			return err
		}
		entries = append(entries, ResourceEntry{
			Name:  r.Name(),
			State: state,
			Owner: owner,
			CSV:   csv,
		})
	}

	return cmdutil.PrintOutput(os.Stdout, entries, len(entries) == 0, "No resources found.", entries)
}

func closeAll[T interface{ Close() error }](batch []T) {
	for _, item := range batch {
		_ = item.Close()
	}
}
