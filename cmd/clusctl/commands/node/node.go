// Package node implements node management commands for clusctl.
package node

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for node management.
var Cmd = &cobra.Command{
	Use:   "node",
	Short: "Node management",
	Long: `Inspect and manage cluster nodes.

Pausing a node stops new groups from being placed on it; running groups
are not affected. Resume reverses a pause.

Examples:
  # List all nodes with their states
  clusctl node list

  # Pause a node before maintenance
  clusctl node pause node2

  # Bring it back
  clusctl node resume node2`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(pauseCmd)
	Cmd.AddCommand(resumeCmd)
}
