// Package cluster implements cluster-level commands for clusctl.
package cluster

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for cluster-level queries.
var Cmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster information",
	Long: `Inspect the cluster itself.

Examples:
  # Show cluster summary
  clusctl cluster info

  # Print just the cluster name
  clusctl cluster name

  # Target a remote cluster
  clusctl -c PRODCLUS cluster info`,
}

func init() {
	Cmd.AddCommand(infoCmd)
	Cmd.AddCommand(nameCmd)
}
