package csv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	"github.com/clusproject/clus/internal/bytesize"
	"github.com/clusproject/clus/internal/cli/output"
	"github.com/clusproject/clus/pkg/cluster"
)

var infoCmd = &cobra.Command{
	Use:   "info <resource>",
	Short: "Show full details for one shared volume",
	Long: `Show everything known about one Cluster Shared Volume: state,
fault and backup state, owner, redirected IO, maintenance mode and
capacity. The argument is the volume's cluster resource name.

Examples:
  # Detail view as a table
  clusctl csv info Volume1

  # As JSON
  clusctl csv info Volume1 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	name := args[0]

	s, err := cmdutil.OpenSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	r, err := s.OpenResource(name)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	csv, err := r.IsSharedVolume()
	if err != nil {
		return err
	}
	if !csv {
		return fmt.Errorf("resource %q is not a Cluster Shared Volume", name)
	}

	info, err := r.VolumeInfo()
	if err != nil {
		return fmt.Errorf("failed to query volume info for %q: %w", name, err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintOutput(os.Stdout, info, false, "", nil)
	}

	return output.SimpleTable(os.Stdout, [][2]string{
		{"Name", info.FriendlyName},
		{"Volume", info.VolumeName},
		{"Mount", info.MountPoint},
		{"State", info.State.String()},
		{"Fault state", info.FaultState.String()},
		{"Backup state", info.BackupState.String()},
		{"Owner", cmdutil.EmptyOr(info.OwnerNode, "-")},
		{"Redirected IO", redirectLabel(info.RedirectedIO)},
		{"Maintenance", cmdutil.BoolToYesNo(info.InMaintenance)},
		{"Free", bytesize.ByteSize(info.FreeBytes).String()},
		{"Total", bytesize.ByteSize(info.TotalBytes).String()},
	})
}

func redirectLabel(r cluster.RedirectedIOReason) string {
	if r == cluster.RedirectedNone {
		return "no"
	}
	return fmt.Sprintf("yes (%#x)", uint64(r))
}
