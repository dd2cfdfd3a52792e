package cluster

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
)

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Print the cluster name",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cmdutil.OpenSession()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		name, err := s.Name()
		if err != nil {
			return fmt.Errorf("failed to query cluster name: %w", err)
		}
		fmt.Println(name)
		return nil
	},
}
