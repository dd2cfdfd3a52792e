// Package csv implements Cluster Shared Volume commands for clusctl.
package csv

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for shared volume management.
var Cmd = &cobra.Command{
	Use:   "csv",
	Short: "Cluster Shared Volume management",
	Long: `Inspect and manage Cluster Shared Volumes.

Examples:
  # List all shared volumes
  clusctl csv list

  # Show full details for one volume
  clusctl csv info Volume1

  # Put a volume into maintenance mode
  clusctl csv maintenance Volume1 --enable

  # Take it out again
  clusctl csv maintenance Volume1 --disable`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(infoCmd)
	Cmd.AddCommand(maintenanceCmd)
}
