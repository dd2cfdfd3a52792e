package csv

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var (
	maintEnable  bool
	maintDisable bool
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance <resource>",
	Short: "Set maintenance mode on a shared volume",
	Long: `Put a Cluster Shared Volume into maintenance mode, or take it out.

In maintenance mode the cluster stops health monitoring for the volume
so tools like chkdsk can run against it.

Examples:
  # Enter maintenance mode (prompts for confirmation)
  clusctl csv maintenance Volume1 --enable

  # Leave maintenance mode without prompting
  clusctl csv maintenance Volume1 --disable --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runMaintenance,
}

func init() {
	maintenanceCmd.Flags().BoolVar(&maintEnable, "enable", false, "Enter maintenance mode")
	maintenanceCmd.Flags().BoolVar(&maintDisable, "disable", false, "Leave maintenance mode")
	maintenanceCmd.MarkFlagsOneRequired("enable", "disable")
	maintenanceCmd.MarkFlagsMutuallyExclusive("enable", "disable")
}

func runMaintenance(cmd *cobra.Command, args []string) error {
	name := args[0]

	verb := "Enter"
	if maintDisable {
		verb = "Leave"
	}

	return cmdutil.RunWithConfirmation(fmt.Sprintf("%s maintenance mode on volume '%s'?", verb, name), func() error {
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

		if err := r.SetMaintenanceMode(maintEnable); err != nil {
			return fmt.Errorf("failed to set maintenance mode on %q: %w", name, err)
		}

		if maintEnable {
			cmdutil.PrintSuccess(fmt.Sprintf("Volume '%s' entering maintenance mode", name))
		} else {
			cmdutil.PrintSuccess(fmt.Sprintf("Volume '%s' leaving maintenance mode", name))
		}
		return nil
	})
}
