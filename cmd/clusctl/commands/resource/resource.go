// Package resource implements resource management commands for clusctl.
package resource

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for resource management.
var Cmd = &cobra.Command{
	Use:   "resource",
	Short: "Resource management",
	Long: `Inspect and manage cluster resources.

Bringing a resource online or taking it offline may return before the
transition completes; the cluster service finishes it asynchronously.

Examples:
  # List all resources with state and owner
  clusctl resource list

  # Bring a resource online
  clusctl resource online ip-addr

  # Take a resource offline (prompts for confirmation)
  clusctl resource offline ip-addr`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(onlineCmd)
	Cmd.AddCommand(offlineCmd)
}
