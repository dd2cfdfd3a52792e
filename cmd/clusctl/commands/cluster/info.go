package cluster

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/cmd/clusctl/cmdutil"
	"github.com/clusproject/clus/internal/cli/output"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a cluster summary",
	Long: `Show the cluster name and object counts.

Examples:
  # Summary as a table
  clusctl cluster info

  # Summary as JSON
  clusctl cluster info -o json`,
	RunE: runInfo,
}

// ClusterSummary is the cluster overview for all output formats.
type ClusterSummary struct {
	Name      string `json:"name" yaml:"name"`
	Nodes     int    `json:"nodes" yaml:"nodes"`
	Resources int    `json:"resources" yaml:"resources"`
	Groups    int    `json:"groups" yaml:"groups"`
	Volumes   int    `json:"volumes" yaml:"volumes"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := cmdutil.OpenSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	name, err := s.Name()
	if err != nil {
		return fmt.Errorf("failed to query cluster name: %w", err)
	}

	summary := ClusterSummary{Name: name}

	nodes, err := s.Nodes()
	if err != nil {
		return err
	}
	summary.Nodes = len(nodes)
	closeAll(nodes)

	resources, err := s.Resources()
	if err != nil {
		return err
	}
	summary.Resources = len(resources)
	closeAll(resources)

	groups, err := s.Groups()
	if err != nil {
		return err
	}
	summary.Groups = len(groups)
	closeAll(groups)

	volumes, err := s.CSVVolumes()
	if err != nil {
		return err
	}
	summary.Volumes = len(volumes)
	closeAll(volumes)

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintOutput(os.Stdout, summary, false, "", nil)
	}

	return output.SimpleTable(os.Stdout, [][2]string{
		{"Cluster", summary.Name},
		{"Nodes", strconv.Itoa(summary.Nodes)},
		{"Resources", strconv.Itoa(summary.Resources)},
		{"Groups", strconv.Itoa(summary.Groups)},
		{"Shared volumes", strconv.Itoa(summary.Volumes)},
	})
}

func closeAll[T interface{ Close() error }](batch []T) {
	for _, item := range batch {
		_ = item.Close()
	}
}
