package resource

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var onlineCmd = &cobra.Command{
	Use:   "online <resource>",
	Short: "Bring a resource online",
	Long: `Request that a resource be brought online.

The command returns as soon as the cluster accepts the request; the
transition may still be in progress.`,
	Args: cobra.ExactArgs(1),
	RunE: runOnline,
}

func runOnline(cmd *cobra.Command, args []string) error {
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

	if err := r.Online(); err != nil {
		return fmt.Errorf("failed to bring resource %q online: %w", name, err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Resource '%s' coming online", name))
	return nil
}
