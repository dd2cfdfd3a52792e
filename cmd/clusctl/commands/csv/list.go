package csv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	"github.com/clusproject/clus/internal/bytesize"
	"github.com/clusproject/clus/pkg/cluster"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all Cluster Shared Volumes",
	Long: `List all Cluster Shared Volumes with state, owner and capacity.

Examples:
  # List volumes as table
  clusctl csv list

  # List as JSON
  clusctl csv list -o json`,
	RunE: runList,
}

// VolumeList is a list of volumes for table rendering.
type VolumeList []*cluster.CSVInfo

// Headers implements TableRenderer.
func (vl VolumeList) Headers() []string {
	return []string{"NAME", "MOUNT", "STATE", "OWNER", "FREE", "TOTAL"}
}

// Rows implements TableRenderer.
func (vl VolumeList) Rows() [][]string {
	rows := make([][]string, 0, len(vl))
	for _, v := range vl {
		rows = append(rows, []string{
			v.FriendlyName,
			v.MountPoint,
			v.State.String(),
			cmdutil.EmptyOr(v.OwnerNode, "-"),
			bytesize.ByteSize(v.FreeBytes).String(),
			bytesize.ByteSize(v.TotalBytes).String(),
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

	infos, err := s.CSVInfo()
	if err != nil {
		return fmt.Errorf("failed to list shared volumes: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, infos, len(infos) == 0, "No shared volumes found.", VolumeList(infos))
}
