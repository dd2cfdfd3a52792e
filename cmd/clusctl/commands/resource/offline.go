package resource

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var offlineCmd = &cobra.Command{
	Use:   "offline <resource>",
	Short: "Take a resource offline",
	Long: `Request that a resource be taken offline.

Dependent resources are taken offline first by the cluster service.

Examples:
  # Offline with confirmation
  clusctl resource offline ip-addr

  # Offline without prompting
  clusctl resource offline ip-addr --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runOffline,
}

func runOffline(cmd *cobra.Command, args []string) error {
	name := args[0]
	return cmdutil.RunWithConfirmation(fmt.Sprintf("Take resource '%s' offline?", name), func() error {
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

		if err := r.Offline(); err != nil {
			return fmt.Errorf("failed to take resource %q offline: %w", name, err)
		}

		cmdutil.PrintSuccess(fmt.Sprintf("Resource '%s' going offline", name))
		return nil
	})
}
