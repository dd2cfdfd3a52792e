// Package group implements group management commands for clusctl.
package group

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for group management.
var Cmd = &cobra.Command{
	Use:   "group",
	Short: "Group management",
	Long: `Inspect and manage cluster groups (roles).

A group is the unit of failover: all resources in a group move between
nodes together.

Examples:
  # List all groups with state and owner
  clusctl group list

  # Bring a group online
  clusctl group online sql

  # Take a group offline (prompts for confirmation)
  clusctl group offline sql

  # Move a group to another node
  clusctl group move sql node2

  # Move a group, picking the destination interactively
  clusctl group move sql`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(onlineCmd)
	Cmd.AddCommand(offlineCmd)
	Cmd.AddCommand(moveCmd)
}
