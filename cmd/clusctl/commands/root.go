// Package commands implements the CLI commands for clusctl.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	clustercmd "github.com/clusproject/clus/cmd/clusctl/commands/cluster"
	csvcmd "github.com/clusproject/clus/cmd/clusctl/commands/csv"
	groupcmd "github.com/clusproject/clus/cmd/clusctl/commands/group"
	nodecmd "github.com/clusproject/clus/cmd/clusctl/commands/node"
	resourcecmd "github.com/clusproject/clus/cmd/clusctl/commands/resource"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "clusctl",
	Short: "Failover cluster management CLI",
	Long: `clusctl manages a Windows failover cluster from the command line.

Use this tool to inspect cluster membership, drive resources and groups
between nodes, and manage Cluster Shared Volumes.

By default clusctl talks to the cluster the local node belongs to. Use
--cluster to target a remote cluster by name.

Use "clusctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Sync flags to cmdutil.Flags for subcommands
		cmdutil.Flags.Cluster, _ = cmd.Flags().GetString("cluster")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
		cmdutil.Flags.Yes, _ = cmd.Flags().GetBool("yes")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringP("cluster", "c", "", "Cluster name (default: local cluster)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(clustercmd.Cmd)
	rootCmd.AddCommand(nodecmd.Cmd)
	rootCmd.AddCommand(resourcecmd.Cmd)
	rootCmd.AddCommand(groupcmd.Cmd)
	rootCmd.AddCommand(csvcmd.Cmd)
	rootCmd.AddCommand(completionCmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
